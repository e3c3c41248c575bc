package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/grading"
)

func TestCheckChoice(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		correct string
		want    bool
	}{
		{"single match", "A", "A", true},
		{"single case-insensitive", "a", "A", true},
		{"single mismatch", "B", "A", false},
		{"alternatives hit first", "A", "A/D", true},
		{"alternatives hit second", "D", "A/D", true},
		{"alternatives miss", "B", "A/D", false},
		{"multi-select any order", "CA", "AC", true},
		{"multi-select exact", "AC", "AC", true},
		{"multi-select wrong set", "AB", "AC", false},
		{"multi-select size mismatch", "A", "AC", false},
		{"multi-select alternatives", "CD", "AD/AC/CD", true},
		{"multi-select alternatives reordered", "DA", "AD/AC/CD", true},
		{"multi-select alternatives miss", "BD", "AD/AC/CD", false},
		{"empty user", "", "A", false},
		{"empty correct", "A", "", false},
		{"whitespace trimmed", " A ", "A / D", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.CheckChoice(tt.user, tt.correct))
		})
	}
}

func TestCheckOrder(t *testing.T) {
	assert.True(t, grading.CheckOrder([]string{"B", "A", "C"}, []string{"B", "A", "C"}))
	assert.True(t, grading.CheckOrder([]string{"b", " a", "C "}, []string{"B", "A", "C"}))
	assert.False(t, grading.CheckOrder([]string{"A", "B", "C"}, []string{"B", "A", "C"}))
	assert.False(t, grading.CheckOrder([]string{"B", "A"}, []string{"B", "A", "C"}))
	assert.False(t, grading.CheckOrder(nil, nil))
}
