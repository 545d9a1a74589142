package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeObjectName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"portrait.png", "portrait.png"},
		{"my photo.png", "my-photo.png"},
		{"weird/../../path.png", "weird....path.png"},
		{"ünïcødé.jpg", "ncd.jpg"},
		{"under_score-dash.gif", "under_score-dash.gif"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, sanitizeObjectName(tc.name))
	}
}
