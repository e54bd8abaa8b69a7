package dice

// ladder maps roll totals to the Fate ladder, Russian edition.
var ladder = map[int]string{
	8:  "Легендарный",
	7:  "Эпический",
	6:  "Фантастический",
	5:  "Великолепный",
	4:  "Отличный",
	3:  "Хороший",
	2:  "Приличный",
	1:  "Средний",
	0:  "Посредственный",
	-1: "Плохой",
	-2: "Ужасный",
}

// LabelOffLadder is returned for totals outside the ladder.
const LabelOffLadder = "Вне лестницы"

// Label returns the ladder description for a roll total.
func Label(total int) string {
	if name, ok := ladder[total]; ok {
		return name
	}
	return LabelOffLadder
}
