package fate

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// Stress track cell bounds.
const (
	MinStressCells = 1
	MaxStressCells = 10
)

// ErrProtectedTrack indicates an attempt to delete a built-in stress track.
var ErrProtectedTrack = errors.New("stress track cannot be deleted")

// StressTrack is an ordered row of damage boxes. Values always has exactly
// Count entries.
type StressTrack struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Values    []bool `json:"values"`
	CanDelete bool   `json:"canDelete"`
}

// NewStressTrack builds a deletable two-cell track.
func NewStressTrack(name string) StressTrack {
	return StressTrack{
		ID:        uuid.NewString(),
		Name:      name,
		Count:     2,
		Values:    []bool{false, false},
		CanDelete: true,
	}
}

// NewProtectedStressTrack builds one of the built-in tracks that the sheet
// refuses to remove.
func NewProtectedStressTrack(name string) StressTrack {
	t := NewStressTrack(name)
	t.CanDelete = false
	return t
}

// Toggle applies the fill-forward rule to the cell at index i. If the cell
// is the highest marked one ("the tip"), only it is unmarked. Otherwise
// every cell up to and including i is marked and everything past i is
// cleared: taking stress at a box consumes all lower boxes.
func (t StressTrack) Toggle(i int) StressTrack {
	if i < 0 || i >= len(t.Values) {
		return t
	}
	values := slices.Clone(t.Values)
	isTip := values[i] && (i == len(values)-1 || !values[i+1])
	if isTip {
		values[i] = false
	} else {
		for k := 0; k <= i; k++ {
			values[k] = true
		}
		for k := i + 1; k < len(values); k++ {
			values[k] = false
		}
	}
	t.Values = values
	return t
}

// Grow appends one unmarked cell, up to MaxStressCells.
func (t StressTrack) Grow() StressTrack {
	if t.Count >= MaxStressCells {
		return t
	}
	t.Values = append(slices.Clone(t.Values), false)
	t.Count++
	return t
}

// Shrink removes the last cell, down to MinStressCells.
func (t StressTrack) Shrink() StressTrack {
	if t.Count <= MinStressCells {
		return t
	}
	values := slices.Clone(t.Values)
	t.Values = values[:len(values)-1]
	t.Count--
	return t
}

// Reset unmarks all cells.
func (t StressTrack) Reset() StressTrack {
	t.Values = make([]bool, len(t.Values))
	return t
}

// AddStressTrack appends a deletable track with the given display name.
func (c Character) AddStressTrack(name string) Character {
	c.Stress = append(slices.Clone(c.Stress), NewStressTrack(name))
	return c
}

// RemoveStressTrack drops the track with the given id. Protected tracks
// return ErrProtectedTrack.
func (c Character) RemoveStressTrack(id string) (Character, error) {
	for _, t := range c.Stress {
		if t.ID == id && !t.CanDelete {
			return c, ErrProtectedTrack
		}
	}
	c.Stress = slices.DeleteFunc(slices.Clone(c.Stress), func(t StressTrack) bool {
		return t.ID == id
	})
	return c, nil
}

// UpdateStressTrack applies fn to the track with the given id.
func (c Character) UpdateStressTrack(id string, fn func(StressTrack) StressTrack) Character {
	tracks := slices.Clone(c.Stress)
	for i, t := range tracks {
		if t.ID == id {
			tracks[i] = fn(t)
		}
	}
	c.Stress = tracks
	return c
}
