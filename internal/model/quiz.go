package model

import (
	"encoding/json"
	"fmt"
)

// QuizQuestion 测验题目：题干、固定选项列表、正确选项下标（从0开始）。
type QuizQuestion struct {
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

// QuizDefinition 有序题目列表，持久化为 contents.quiz_data 的 JSON 编码。
type QuizDefinition []QuizQuestion

// Wellformed 判断单题是否可用于判分。
func (q QuizQuestion) Wellformed() bool {
	return q.QuestionText != "" &&
		len(q.Options) > 0 &&
		q.CorrectAnswerIndex >= 0 &&
		q.CorrectAnswerIndex < len(q.Options)
}

// Validate 在定义入库前做结构校验，任何一题不合法都拒绝整份定义。
func (d QuizDefinition) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("quiz must contain at least one question")
	}
	for i, q := range d {
		if q.QuestionText == "" {
			return fmt.Errorf("question %d: question_text is required", i+1)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: options must not be empty", i+1)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d: correct_answer_index %d out of range [0, %d)",
				i+1, q.CorrectAnswerIndex, len(q.Options))
		}
	}
	return nil
}

// ParseQuizDefinition 解析并校验原始 JSON 的测验定义。
func ParseQuizDefinition(raw []byte) (QuizDefinition, error) {
	var def QuizDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("quiz_data is not a well-formed question array: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
