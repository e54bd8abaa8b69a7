// Package dice implements Fate dice rolling and resolution.
package dice

import "math/rand/v2"

// Side is the outcome of a single Fate die: -1, 0 or +1.
type Side int

// NumDice is the number of dice in a Fate roll.
const NumDice = 4

// Roll produces four independent Fate dice, each uniformly drawn
// from {-1, 0, +1}.
func Roll() [NumDice]Side {
	var results [NumDice]Side
	for i := range results {
		results[i] = Side(rand.IntN(3) - 1)
	}
	return results
}

// RollSeeded works like Roll but is deterministic with respect to the seed.
// Given the same seed it will always produce the same results.
func RollSeeded(seed uint64) [NumDice]Side {
	rng := rand.New(rand.NewPCG(seed, 0))
	var results [NumDice]Side
	for i := range results {
		results[i] = Side(rng.IntN(3) - 1)
	}
	return results
}

// Resolve reduces a set of dice to a signed total with the modifier applied.
func Resolve(results [NumDice]Side, modifier int) int {
	total := modifier
	for _, r := range results {
		total += int(r)
	}
	return total
}
