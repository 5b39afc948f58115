package model

import (
	"time"
)

// UserContentProgress 记录学员对单个内容项的完成状态。
// (learner, content) 唯一索引保证重复完成信号只刷新时间戳，不产生新行。
// swagger:model UserContentProgress
type UserContentProgress struct {
	BaseModel
	LearnerID   uint       `gorm:"index:idx_learner_content,unique;not null" json:"learnerId"`
	ContentID   uint       `gorm:"index:idx_learner_content,unique;not null" json:"contentId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (UserContentProgress) TableName() string {
	return "user_content_progress"
}
