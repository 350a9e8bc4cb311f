package app

import (
	"sort"

	"github.com/guimilreu/quizz/internal/domain"
)

// basePoints is awarded for any correct answer. The first three correct
// responders additionally receive a speed bonus by rank.
const basePoints = 1000

var speedBonuses = [...]int{500, 300, 200}

// ScoreQuestion computes per-answer outcomes for one question. Answers
// are ranked by their logical arrival order, never by wall clock, so
// repeated runs over the same input produce identical awards. Incorrect
// answers score zero; participants who never answered simply have no
// entry in the result.
func ScoreQuestion(correctIndex int, answers []domain.Answer) []domain.PlayerResult {
	ordered := make([]domain.Answer, len(answers))
	copy(ordered, answers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ArrivalOrder < ordered[j].ArrivalOrder
	})

	results := make([]domain.PlayerResult, 0, len(ordered))
	correctSoFar := 0
	for _, answer := range ordered {
		points := 0
		correct := answer.OptionIndex == correctIndex
		if correct {
			points = basePoints
			if correctSoFar < len(speedBonuses) {
				points += speedBonuses[correctSoFar]
			}
			correctSoFar++
		}
		results = append(results, domain.PlayerResult{
			PlayerID:    answer.PlayerID,
			PlayerName:  answer.PlayerName,
			OptionIndex: answer.OptionIndex,
			IsCorrect:   correct,
			Points:      points,
		})
	}
	return results
}
