package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestToInt tests that numeric-looking values of any type convert to int.
func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"nil", nil, 0},
		{"int", 7, 7},
		{"int64", int64(1700000000), 1700000000},
		{"float", 3.9, 3},
		{"json integer", json.Number("42"), 42},
		{"json float", json.Number("1.7e9"), 1700000000},
		{"string", "12", 12},
		{"bad string", "twelve", 0},
		{"bytes", []byte("5"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

// TestToString tests string conversion of identifiers and addresses.
func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "101", ToString(json.Number("101")))
	assert.Equal(t, "101", ToString(101))
	assert.Equal(t, "x", ToString([]byte("x")))
}
