// Package fate holds the domain records for a Fate table: users, rooms,
// characters and the chat log. Every mutation copies the entity it changes
// and returns the new value; callers replace the old value by id.
package fate

import (
	"slices"

	"github.com/google/uuid"
)

// Aspect is a permanent character aspect.
type Aspect struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// TempAspect is a situational advantage with a limited number of invokes.
type TempAspect struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Invokes int    `json:"invokes"`
}

// Stunt is a free-text stunt entry.
type Stunt struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Consequence is a lingering injury with a severity label and shift penalty.
type Consequence struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// Severity is a selectable consequence tier.
type Severity struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Severities lists the consequence tiers offered by the selection dialog.
var Severities = []Severity{
	{Label: "Лёгкое", Value: -2},
	{Label: "Среднее", Value: -4},
	{Label: "Тяжёлое", Value: -6},
	{Label: "Экстрим", Value: -8},
}

// Character is the aggregate character sheet. The room owns all characters;
// OwnerID is a back-reference to the controlling user.
type Character struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Concept      string        `json:"concept"`
	Trouble      string        `json:"trouble"`
	Portrait     string        `json:"image,omitempty"`
	FatePoints   int           `json:"fatePoints"`
	Aspects      []Aspect      `json:"aspects"`
	TempAspects  []TempAspect  `json:"tempAspects"`
	Skills       SkillSection  `json:"skills"`
	CustomSkills SkillSection  `json:"customSkills"`
	Stunts       []Stunt       `json:"stunts"`
	Extras       string        `json:"extras"`
	Stress       []StressTrack `json:"stress"`
	Consequences []Consequence `json:"consequences"`
	OwnerID      string        `json:"ownerId"`
}

const defaultFatePoints = 3

// NewCharacter builds a fresh character sheet with the standard Fate Core
// defaults: three blank aspects and stunts, the +5..0 skill columns, two
// protected stress tracks and the mild/moderate/severe consequence slots.
func NewCharacter(ownerID, name string) Character {
	return Character{
		ID:         uuid.NewString(),
		Name:       name,
		FatePoints: defaultFatePoints,
		Aspects: []Aspect{
			{ID: uuid.NewString()},
			{ID: uuid.NewString()},
			{ID: uuid.NewString()},
		},
		TempAspects: []TempAspect{},
		Skills: SkillSection{
			Counts: map[string]int{"+5": 1, "+4": 1, "+3": 1, "+2": 1, "+1": 1, "0": 1},
			Inputs: map[string]string{},
		},
		CustomSkills: NewSkillSection(),
		Stunts: []Stunt{
			{ID: uuid.NewString()},
			{ID: uuid.NewString()},
			{ID: uuid.NewString()},
		},
		Stress: []StressTrack{
			NewProtectedStressTrack("Физический"),
			NewProtectedStressTrack("Ментальный"),
		},
		Consequences: defaultConsequences(),
		OwnerID:      ownerID,
	}
}

// defaultConsequences builds the three standard slots. The extreme tier is
// selectable but never a default slot.
func defaultConsequences() []Consequence {
	slots := make([]Consequence, 0, 3)
	for _, sev := range Severities[:3] {
		slots = append(slots, Consequence{ID: uuid.NewString(), Label: sev.Label, Value: sev.Value})
	}
	return slots
}

// SetName returns the character with the name replaced.
func (c Character) SetName(name string) Character {
	c.Name = name
	return c
}

// SetConcept returns the character with the concept replaced.
func (c Character) SetConcept(concept string) Character {
	c.Concept = concept
	return c
}

// SetTrouble returns the character with the trouble replaced.
func (c Character) SetTrouble(trouble string) Character {
	c.Trouble = trouble
	return c
}

// SetExtras returns the character with the extras text replaced.
func (c Character) SetExtras(extras string) Character {
	c.Extras = extras
	return c
}

// SetPortrait returns the character with the encoded portrait replaced.
func (c Character) SetPortrait(dataURL string) Character {
	c.Portrait = dataURL
	return c
}

// AdjustFatePoints shifts the fate point counter. The counter never drops
// below zero; there is no upper bound.
func (c Character) AdjustFatePoints(delta int) Character {
	c.FatePoints += delta
	if c.FatePoints < 0 {
		c.FatePoints = 0
	}
	return c
}

// AddAspect appends a permanent aspect.
func (c Character) AddAspect(value string) Character {
	c.Aspects = append(slices.Clone(c.Aspects), Aspect{ID: uuid.NewString(), Value: value})
	return c
}

// RemoveAspect drops the aspect with the given id. Unknown ids are a no-op.
func (c Character) RemoveAspect(id string) Character {
	c.Aspects = slices.DeleteFunc(slices.Clone(c.Aspects), func(a Aspect) bool {
		return a.ID == id
	})
	return c
}

// SetAspectValue replaces the text of the aspect with the given id.
func (c Character) SetAspectValue(id, value string) Character {
	aspects := slices.Clone(c.Aspects)
	for i, a := range aspects {
		if a.ID == id {
			aspects[i].Value = value
		}
	}
	c.Aspects = aspects
	return c
}

// AddTempAspect appends a temporary aspect with one free invoke.
func (c Character) AddTempAspect(name string) Character {
	c.TempAspects = append(slices.Clone(c.TempAspects), TempAspect{
		ID:      uuid.NewString(),
		Name:    name,
		Invokes: 1,
	})
	return c
}

// RemoveTempAspect drops the temporary aspect with the given id.
func (c Character) RemoveTempAspect(id string) Character {
	c.TempAspects = slices.DeleteFunc(slices.Clone(c.TempAspects), func(a TempAspect) bool {
		return a.ID == id
	})
	return c
}

// AdjustInvokes shifts the invoke counter of a temporary aspect, clamped
// at zero.
func (c Character) AdjustInvokes(id string, delta int) Character {
	aspects := slices.Clone(c.TempAspects)
	for i, a := range aspects {
		if a.ID == id {
			aspects[i].Invokes += delta
			if aspects[i].Invokes < 0 {
				aspects[i].Invokes = 0
			}
		}
	}
	c.TempAspects = aspects
	return c
}

// AddStunt appends a stunt entry.
func (c Character) AddStunt(value string) Character {
	c.Stunts = append(slices.Clone(c.Stunts), Stunt{ID: uuid.NewString(), Value: value})
	return c
}

// RemoveStunt drops the stunt with the given id.
func (c Character) RemoveStunt(id string) Character {
	c.Stunts = slices.DeleteFunc(slices.Clone(c.Stunts), func(s Stunt) bool {
		return s.ID == id
	})
	return c
}

// AddConsequence appends a consequence slot of the given severity.
func (c Character) AddConsequence(label string, value int) Character {
	c.Consequences = append(slices.Clone(c.Consequences), Consequence{
		ID:    uuid.NewString(),
		Label: label,
		Value: value,
	})
	return c
}

// RemoveConsequence drops the consequence with the given id.
func (c Character) RemoveConsequence(id string) Character {
	c.Consequences = slices.DeleteFunc(slices.Clone(c.Consequences), func(q Consequence) bool {
		return q.ID == id
	})
	return c
}

// SetConsequenceText replaces the description of a consequence.
func (c Character) SetConsequenceText(id, text string) Character {
	consequences := slices.Clone(c.Consequences)
	for i, q := range consequences {
		if q.ID == id {
			consequences[i].Text = text
		}
	}
	c.Consequences = consequences
	return c
}
