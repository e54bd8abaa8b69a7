package fate

import (
	"fmt"
	"maps"
	"sort"
	"strconv"
)

// SkillSection is a sparse pyramid of skill slots. Counts maps a rating key
// ("+3", "0", "-1") to the number of slots at that rating; Inputs maps a
// slot key (rating plus index) to the label typed into that slot. Labels
// outlive their slots on purpose: decrementing a count leaves the text in
// place so it reappears if the slot comes back.
type SkillSection struct {
	Counts map[string]int    `json:"counts"`
	Inputs map[string]string `json:"inputs"`
}

// NewSkillSection returns an empty section.
func NewSkillSection() SkillSection {
	return SkillSection{
		Counts: map[string]int{},
		Inputs: map[string]string{},
	}
}

// FormatRating renders a rating value as a section key: "+3", "0", "-1".
func FormatRating(rating int) string {
	if rating >= 0 {
		return "+" + strconv.Itoa(rating)
	}
	return strconv.Itoa(rating)
}

// SlotKey builds the Inputs key for a slot at the given rating and index.
func SlotKey(rating string, index int) string {
	return fmt.Sprintf("%s_%d", rating, index)
}

// AddSlot increments the slot count for the rating, initializing it to one
// when absent.
func (s SkillSection) AddSlot(rating string) SkillSection {
	counts := maps.Clone(s.Counts)
	if counts == nil {
		counts = map[string]int{}
	}
	counts[rating]++
	s.Counts = counts
	return s
}

// RemoveSlot decrements the slot count for the rating. When the count
// drops to zero the rating key is removed entirely. Slot labels are not
// purged.
func (s SkillSection) RemoveSlot(rating string) SkillSection {
	count, ok := s.Counts[rating]
	if !ok {
		return s
	}
	counts := maps.Clone(s.Counts)
	if count > 1 {
		counts[rating] = count - 1
	} else {
		delete(counts, rating)
	}
	s.Counts = counts
	return s
}

// SetSlotLabel stores the free text for a slot. No bounds check is applied
// against the current count.
func (s SkillSection) SetSlotLabel(rating string, index int, text string) SkillSection {
	inputs := maps.Clone(s.Inputs)
	if inputs == nil {
		inputs = map[string]string{}
	}
	inputs[SlotKey(rating, index)] = text
	s.Inputs = inputs
	return s
}

// Clear empties the section.
func (s SkillSection) Clear() SkillSection {
	return NewSkillSection()
}

// RatingsDescending lists the section's rating keys sorted by descending
// numeric value, the order the pyramid renders in.
func (s SkillSection) RatingsDescending() []string {
	ratings := make([]string, 0, len(s.Counts))
	for rating := range s.Counts {
		ratings = append(ratings, rating)
	}
	sort.Slice(ratings, func(i, j int) bool {
		a, _ := strconv.Atoi(ratings[i])
		b, _ := strconv.Atoi(ratings[j])
		return a > b
	})
	return ratings
}
