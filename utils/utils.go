package utils

import "math"

// CompletionPercentage computes the rounded completion percentage for a
// lesson set. Zero lessons means zero percent.
func CompletionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// QuizScore computes the score over the fixed question count, counting
// unanswered questions as incorrect.
func QuizScore(correct, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	return float64(correct) / float64(totalQuestions) * 100
}
