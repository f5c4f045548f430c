package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, CompletionPercentage(0, 0))
	assert.Equal(t, 0, CompletionPercentage(3, 0))
	assert.Equal(t, 0, CompletionPercentage(0, 10))
	assert.Equal(t, 33, CompletionPercentage(1, 3))
	assert.Equal(t, 67, CompletionPercentage(2, 3))
	assert.Equal(t, 50, CompletionPercentage(1, 2))
	assert.Equal(t, 100, CompletionPercentage(3, 3))
}

func TestQuizScore(t *testing.T) {
	assert.Equal(t, 0.0, QuizScore(0, 0))
	assert.Equal(t, 0.0, QuizScore(0, 4))
	assert.Equal(t, 25.0, QuizScore(1, 4))
	assert.Equal(t, 75.0, QuizScore(3, 4))
	assert.Equal(t, 100.0, QuizScore(4, 4))
	assert.InDelta(t, 66.666, QuizScore(2, 3), 0.001)
}
