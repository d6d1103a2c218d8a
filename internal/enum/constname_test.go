package enum_test

import (
	"testing"

	"enumka/internal/enum"

	"github.com/stretchr/testify/assert"
)

func TestToConstantName(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"CamelCase", "CAMEL_CASE", true},
		{"with.punctuation", "WITH_PUNCTUATION", true},
		{"  hello   world ", "HELLO_WORLD", true},
		{"already_snake", "ALREADY_SNAKE", true},
		{"dash-separated", "DASH_SEPARATED", true},
		{"Mixed.Separators and-more", "MIXED_SEPARATORS_AND_MORE", true},
		{"___many___underscores___", "MANY_UNDERSCORES", true},
		{"HTTPServer", "HTTPSERVER", true}, // аббревиатуры не режем
		{"v2", "V2", true},
		{"", "", false},
		{"   ", "", false},
		{"!!!", "", false},
		{"...", "", false},
	}
	for _, tc := range cases {
		got, ok := enum.ToConstantName(tc.in)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.in)
		assert.Equal(t, tc.want, got, "token for %q", tc.in)
	}
}

func TestToConstantName_Deterministic(t *testing.T) {
	a, okA := enum.ToConstantName("Some Name")
	b, okB := enum.ToConstantName("Some Name")
	assert.Equal(t, a, b)
	assert.Equal(t, okA, okB)
}
