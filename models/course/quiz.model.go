package course

import "gorm.io/gorm"

// Quiz belongs to a module (at most one per module)
type Quiz struct {
	gorm.Model
	ModuleID     uint    `json:"module_id" gorm:"uniqueIndex;not null"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PassingScore float64 `json:"passing_score" gorm:"default:70"` // percentage required to pass
	IsDeleted    bool    `gorm:"default:false"`
}

// QuizQuestion holds one question with its option list and designated
// correct option. Options are stored as a JSON-encoded string array.
type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	Question      string `json:"question"`
	Options       string `json:"options" gorm:"type:text"` // JSON array of option strings
	CorrectAnswer string `json:"correct_answer"`
	IsDeleted     bool   `gorm:"default:false"`
}

// QuizAttempt records a user's latest attempt for a quiz. Upserted on
// (quiz_id, user_id) so a retry overwrites the prior attempt.
type QuizAttempt struct {
	gorm.Model
	QuizID  uint    `json:"quiz_id" gorm:"uniqueIndex:idx_quiz_user;not null"`
	UserID  uint    `json:"user_id" gorm:"uniqueIndex:idx_quiz_user;not null"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed" gorm:"default:false"`
	Answers string  `json:"answers" gorm:"type:text"` // JSON map of question id -> chosen option
}
