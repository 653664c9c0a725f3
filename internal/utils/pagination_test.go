package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePagination(t *testing.T) {
	meta := CalculatePagination(2, 20, 45)

	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 20, meta.PerPage)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 21, meta.From)
	assert.Equal(t, 40, meta.To)
	assert.True(t, meta.HasMore)
}

func TestCalculatePaginationLastPage(t *testing.T) {
	meta := CalculatePagination(3, 20, 45)

	assert.Equal(t, 41, meta.From)
	assert.Equal(t, 45, meta.To)
	assert.False(t, meta.HasMore)
}

func TestCalculatePaginationEmpty(t *testing.T) {
	meta := CalculatePagination(1, 20, 0)

	assert.Equal(t, 0, meta.From)
	assert.Equal(t, 0, meta.To)
	assert.Equal(t, 0, meta.LastPage)
	assert.False(t, meta.HasMore)
}

func TestCalculatePaginationNormalizesInput(t *testing.T) {
	meta := CalculatePagination(0, 0, 10)

	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 20, meta.PerPage)
}

func TestGetOffset(t *testing.T) {
	assert.Equal(t, 0, GetOffset(1, 20))
	assert.Equal(t, 20, GetOffset(2, 20))
	assert.Equal(t, 90, GetOffset(10, 10))
}
