package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Python", expected: "python"},
		{name: "trims whitespace", input: "  SQL  ", expected: "sql"},
		{name: "collapses inner whitespace", input: "machine   learning", expected: "machine learning"},
		{name: "resolves golang alias", input: "Golang", expected: "go"},
		{name: "resolves k8s alias", input: "K8s", expected: "kubernetes"},
		{name: "resolves postgres alias", input: "Postgres", expected: "postgresql"},
		{name: "resolves multiword alias", input: "Amazon  Web  Services", expected: "aws"},
		{name: "empty input", input: "   ", expected: ""},
		{name: "unknown passes through", input: "Rust", expected: "rust"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonical(tt.input))
		})
	}
}

func TestCanonicalSet(t *testing.T) {
	set := CanonicalSet([]string{"Python", "python", "  ", "Golang", "go"})

	assert.Len(t, set, 2)
	assert.Contains(t, set, "python")
	assert.Contains(t, set, "go")
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("Golang", "go"))
	assert.True(t, Match("Python", "PYTHON"))
	assert.False(t, Match("Python", "Java"))
	assert.False(t, Match("", ""))
}
