package model

import (
	"time"
)

// Enrollment 学员与模块的选课关系，(learner, module) 由唯一索引兜底，
// 并发重复报名只会落下一行。
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	LearnerID   uint       `gorm:"index:idx_learner_module,unique;not null" json:"learnerId"`
	Learner     *User      `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
	ModuleID    uint       `gorm:"index:idx_learner_module,unique;not null" json:"moduleId"`
	Module      *Module    `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
