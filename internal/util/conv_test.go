package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 100.0, Round2(100.0))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 12.35, Round2(12.345))
}
