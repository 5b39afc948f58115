package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserQuizAttempt 一次判分后的测验提交。只追加不更新，同一学员
// 对同一测验的历史全部保留。
// swagger:model UserQuizAttempt
type UserQuizAttempt struct {
	BaseModel
	LearnerID        uint           `gorm:"index;not null" json:"learnerId"`
	ContentID        uint           `gorm:"index;not null" json:"contentId"`
	Score            float64        `gorm:"type:decimal(5,2);not null" json:"score"`
	SubmittedAnswers datatypes.JSON `gorm:"type:json" json:"submitted_answers"`
	AttemptDate      time.Time      `json:"attempt_date"`
}

func (UserQuizAttempt) TableName() string {
	return "user_quiz_attempts"
}
