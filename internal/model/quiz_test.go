package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuizDefinition(t *testing.T) {
	raw := []byte(`[
		{"question_text": "Go 的零值切片长度是多少?", "options": ["0", "1", "未定义"], "correct_answer_index": 0},
		{"question_text": "map 读取缺失键返回什么?", "options": ["panic", "零值"], "correct_answer_index": 1}
	]`)

	def, err := ParseQuizDefinition(raw)
	require.NoError(t, err)
	require.Len(t, def, 2)
	assert.Equal(t, 0, def[0].CorrectAnswerIndex)
	assert.Equal(t, []string{"panic", "零值"}, def[1].Options)
}

func TestParseQuizDefinitionRejectsMalformedJSON(t *testing.T) {
	_, err := ParseQuizDefinition([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestQuizDefinitionValidate(t *testing.T) {
	cases := []struct {
		name string
		def  QuizDefinition
	}{
		{"empty definition", QuizDefinition{}},
		{"missing question text", QuizDefinition{
			{QuestionText: "", Options: []string{"a"}, CorrectAnswerIndex: 0},
		}},
		{"no options", QuizDefinition{
			{QuestionText: "q", Options: nil, CorrectAnswerIndex: 0},
		}},
		{"answer index negative", QuizDefinition{
			{QuestionText: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: -1},
		}},
		{"answer index out of range", QuizDefinition{
			{QuestionText: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: 2},
		}},
		{"one bad question poisons the whole definition", QuizDefinition{
			{QuestionText: "ok", Options: []string{"a", "b"}, CorrectAnswerIndex: 1},
			{QuestionText: "bad", Options: []string{"a"}, CorrectAnswerIndex: 5},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.def.Validate())
		})
	}
}

func TestQuizQuestionWellformed(t *testing.T) {
	good := QuizQuestion{QuestionText: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: 1}
	assert.True(t, good.Wellformed())

	bad := QuizQuestion{QuestionText: "q", Options: []string{"a"}, CorrectAnswerIndex: 3}
	assert.False(t, bad.Wellformed())
}

func TestContentTypeValid(t *testing.T) {
	for _, ct := range []ContentType{Notes, Videos, Quizzes, Assignments} {
		assert.True(t, ct.Valid())
	}
	assert.False(t, ContentType("podcast").Valid())
}
