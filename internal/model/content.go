package model

import (
	"gorm.io/datatypes"
)

type ContentType string

const (
	Notes       ContentType = "notes"
	Videos      ContentType = "videos"
	Quizzes     ContentType = "quizzes"
	Assignments ContentType = "assignments"
)

// Content 模块下的内容项。三个载荷列中按 ContentType 只有一个生效：
// 非测验类型二选一（正文或文件），测验类型必须带 QuizData。
// swagger:model Content
type Content struct {
	BaseModel
	ModuleID    uint           `gorm:"index;not null" json:"moduleId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	ContentType ContentType    `gorm:"size:20;not null" json:"contentType"`
	ContentText string         `gorm:"type:text" json:"contentText,omitempty"`
	FileURL     string         `gorm:"size:512" json:"fileUrl,omitempty"`
	Thumbnail   string         `gorm:"size:512" json:"thumbnail,omitempty"`
	Duration    float64        `gorm:"default:0" json:"duration,omitempty"`
	QuizData    datatypes.JSON `gorm:"type:json" json:"quizData,omitempty"`
}

func (Content) TableName() string {
	return "contents"
}

func (t ContentType) Valid() bool {
	switch t {
	case Notes, Videos, Quizzes, Assignments:
		return true
	}
	return false
}

// ContentPayload 是内容载荷的标签联合：文本、文件或测验定义三者取其一。
type ContentPayload interface {
	contentPayload()
}

type TextPayload string

type FilePayload struct {
	URL       string
	Thumbnail string
	Duration  float64
}

type QuizPayload QuizDefinition

func (TextPayload) contentPayload() {}
func (FilePayload) contentPayload() {}
func (QuizPayload) contentPayload() {}
