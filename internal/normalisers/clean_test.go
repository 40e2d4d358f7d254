package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"already clean", "hello world", "hello world"},
		{"collapses spaces", "hello   world", "hello world"},
		{"collapses tabs", "hello\t\tworld", "hello world"},
		{"trims line edges", "  hello world  ", "hello world"},
		{"crlf to lf", "one\r\ntwo", "one\ntwo"},
		{"bare cr to lf", "one\rtwo", "one\ntwo"},
		{"strips control runes", "he\x00llo\x07 wor\x1bld", "hello world"},
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"keeps paragraph break", "first para\n\nsecond para", "first para\n\nsecond para"},
		{"trims outer blank lines", "\n\n\na\n\n\n", "a"},
		{"whitespace only", " \t \n \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"messy\t\ttext  with\r\nartifacts\x00\n\n\n\nand paragraphs",
		"para one\n\npara two\nline two",
	}

	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		assert.Equal(t, once, twice, "Clean should be idempotent for %q", in)
	}
}
