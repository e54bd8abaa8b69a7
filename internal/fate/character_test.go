package fate

import "testing"

func TestNewCharacterDefaults(t *testing.T) {
	c := NewCharacter("owner-1", "Арда")

	if c.Name != "Арда" {
		t.Fatalf("name = %q", c.Name)
	}
	if c.OwnerID != "owner-1" {
		t.Fatalf("owner = %q", c.OwnerID)
	}
	if c.FatePoints != 3 {
		t.Fatalf("fate points = %d, want 3", c.FatePoints)
	}
	if len(c.Aspects) != 3 {
		t.Fatalf("aspects = %d, want 3", len(c.Aspects))
	}
	if len(c.Stunts) != 3 {
		t.Fatalf("stunts = %d, want 3", len(c.Stunts))
	}
	for _, rating := range []string{"+5", "+4", "+3", "+2", "+1", "0"} {
		if c.Skills.Counts[rating] != 1 {
			t.Fatalf("ladder rating %s count = %d, want 1", rating, c.Skills.Counts[rating])
		}
	}
	if len(c.CustomSkills.Counts) != 0 {
		t.Fatalf("custom skills should start empty")
	}
	if len(c.Stress) != 2 {
		t.Fatalf("stress tracks = %d, want 2", len(c.Stress))
	}
	for _, track := range c.Stress {
		if track.CanDelete {
			t.Fatalf("default track %q must be protected", track.Name)
		}
		if track.Count != 2 || len(track.Values) != 2 {
			t.Fatalf("default track %q has %d cells", track.Name, track.Count)
		}
	}
	if len(c.Consequences) != 3 {
		t.Fatalf("consequences = %d, want 3", len(c.Consequences))
	}
	wantValues := []int{-2, -4, -6}
	for i, q := range c.Consequences {
		if q.Value != wantValues[i] {
			t.Fatalf("consequence %d value = %d, want %d", i, q.Value, wantValues[i])
		}
	}
}

func TestAdjustFatePointsNeverNegative(t *testing.T) {
	c := NewCharacter("o", "n")

	deltas := []int{-1, -1, -1, -1, 2, -5, 3, 1}
	for _, d := range deltas {
		c = c.AdjustFatePoints(d)
		if c.FatePoints < 0 {
			t.Fatalf("fate points went negative: %d", c.FatePoints)
		}
	}
	// 3 -> 2 -> 1 -> 0 -> 0 -> 2 -> 0 -> 3 -> 4
	if c.FatePoints != 4 {
		t.Fatalf("fate points = %d, want 4", c.FatePoints)
	}
}

func TestAdjustFatePointsDoesNotMutateOriginal(t *testing.T) {
	base := NewCharacter("o", "n")
	_ = base.AdjustFatePoints(-3)
	if base.FatePoints != 3 {
		t.Fatalf("original mutated: %d", base.FatePoints)
	}
}

func TestAspectLifecycle(t *testing.T) {
	c := NewCharacter("o", "n")

	c = c.AddAspect("Капитан без корабля")
	added := c.Aspects[len(c.Aspects)-1]
	if added.Value != "Капитан без корабля" {
		t.Fatalf("aspect value = %q", added.Value)
	}

	c = c.SetAspectValue(added.ID, "Капитан украденного корабля")
	found, _ := findAspect(c, added.ID)
	if found.Value != "Капитан украденного корабля" {
		t.Fatalf("aspect not updated: %q", found.Value)
	}

	before := len(c.Aspects)
	c = c.RemoveAspect(added.ID)
	if len(c.Aspects) != before-1 {
		t.Fatalf("aspect not removed")
	}
	c = c.RemoveAspect("missing")
	if len(c.Aspects) != before-1 {
		t.Fatalf("removing unknown id changed aspects")
	}
}

func findAspect(c Character, id string) (Aspect, bool) {
	for _, a := range c.Aspects {
		if a.ID == id {
			return a, true
		}
	}
	return Aspect{}, false
}

func TestTempAspectInvokesClampAtZero(t *testing.T) {
	c := NewCharacter("o", "n")
	c = c.AddTempAspect("Прикрытие")
	id := c.TempAspects[0].ID

	if c.TempAspects[0].Invokes != 1 {
		t.Fatalf("default invokes = %d, want 1", c.TempAspects[0].Invokes)
	}

	c = c.AdjustInvokes(id, -5)
	if c.TempAspects[0].Invokes != 0 {
		t.Fatalf("invokes = %d, want 0", c.TempAspects[0].Invokes)
	}

	c = c.AdjustInvokes(id, 2)
	if c.TempAspects[0].Invokes != 2 {
		t.Fatalf("invokes = %d, want 2", c.TempAspects[0].Invokes)
	}

	c = c.RemoveTempAspect(id)
	if len(c.TempAspects) != 0 {
		t.Fatalf("temp aspect not removed")
	}
}

func TestConsequenceLifecycle(t *testing.T) {
	c := NewCharacter("o", "n")

	c = c.AddConsequence("Экстрим", -8)
	added := c.Consequences[len(c.Consequences)-1]
	if added.Label != "Экстрим" || added.Value != -8 {
		t.Fatalf("unexpected consequence: %+v", added)
	}

	c = c.SetConsequenceText(added.ID, "Сломанная рука")
	last := c.Consequences[len(c.Consequences)-1]
	if last.Text != "Сломанная рука" {
		t.Fatalf("text not set: %q", last.Text)
	}

	c = c.RemoveConsequence(added.ID)
	if len(c.Consequences) != 3 {
		t.Fatalf("consequences = %d, want 3", len(c.Consequences))
	}
}

func TestStuntLifecycle(t *testing.T) {
	c := NewCharacter("o", "n")
	c = c.AddStunt("Всегда при оружии")
	id := c.Stunts[len(c.Stunts)-1].ID
	c = c.RemoveStunt(id)
	if len(c.Stunts) != 3 {
		t.Fatalf("stunts = %d, want 3", len(c.Stunts))
	}
}
