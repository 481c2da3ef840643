package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		done  int
		total int
		want  int
	}{
		{"no tasks", 0, 0, 0},
		{"none done", 0, 5, 0},
		{"all done", 5, 5, 100},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"half rounds up", 1, 8, 13}, // 12.5 -> 13
		{"one of six", 1, 6, 17},     // 16.67 -> 17
		{"one of two hundred", 1, 200, 1},
		{"199 of 200", 199, 200, 100}, // rounds to 100 without being complete in count
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.done, tt.total)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, DeriveStatus(100))
	assert.Equal(t, StatusInProgress, DeriveStatus(99))
	assert.Equal(t, StatusInProgress, DeriveStatus(0))
}
