package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 10)
	assert.Equal(t, 0, from)
	assert.Equal(t, 10, limit)

	from, limit = Calculate(3, 10)
	assert.Equal(t, 20, from)
	assert.Equal(t, 10, limit)

	from, limit = Calculate(0, 0)
	assert.Equal(t, 0, from)
	assert.Equal(t, DefaultPageSize, limit)

	from, limit = Calculate(-5, 1000)
	assert.Equal(t, 0, from)
	assert.Equal(t, DefaultPageSize, limit)
}
