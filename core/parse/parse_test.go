package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleParse() {
	cmd := Parse("sleep   5 &\n")

	fmt.Printf("%q %v\n", cmd.Argv, cmd.Background)

	// Output: ["sleep" "5"] true
}

func ExampleSplitPipeline() {
	stages, _ := SplitPipeline("ls -la | wc -l")

	fmt.Printf("%q\n", stages)

	// Output: ["ls -la " " wc -l"]
}

func TestParse(t *testing.T) {
	cases := map[string]struct {
		line       string
		argv       []string
		background bool
	}{
		"empty":                {"", nil, false},
		"blank":                {"   \t  ", nil, false},
		"newline only":         {"\n", nil, false},
		"simple":               {"ls", []string{"ls"}, false},
		"args":                 {"ls -la", []string{"ls", "-la"}, false},
		"collapse spaces":      {"ls  -la", []string{"ls", "-la"}, false},
		"tabs":                 {"\tls\t\t-la\t", []string{"ls", "-la"}, false},
		"trailing newline":     {"echo hi\n", []string{"echo", "hi"}, false},
		"text after newline":   {"echo hi\necho bye", []string{"echo", "hi"}, false},
		"background":           {"sleep 10 &", []string{"sleep", "10"}, true},
		"background no space":  {"sleep 10&", []string{"sleep", "10"}, true},
		"text after marker":    {"sleep 10 & echo done", []string{"sleep", "10"}, true},
		"marker only":          {"&", nil, true},
		"marker in word":       {"a&b", []string{"a"}, true},
		"carriage return kept": {"echo hi\r", []string{"echo", "hi\r"}, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual := Parse(tc.line)

			assert.Equal(t, tc.argv, actual.Argv)
			assert.Equal(t, tc.background, actual.Background)
			assert.Equal(t, len(tc.argv) == 0, actual.IsEmpty())
			assert.NotContains(t, actual.Argv, "")
			assert.NotContains(t, actual.Argv, "&")
		})
	}
}

func TestParse_whitespaceInsensitive(t *testing.T) {
	assert.Equal(t, Parse("ls -la"), Parse("ls  -la"))
	assert.Equal(t, Parse("ls -la"), Parse(" ls\t-la "))
}

func TestParse_pure(t *testing.T) {
	for _, line := range []string{"", "ls", "cat foo bar &", "  x\ty  "} {
		assert.Equal(t, Parse(line), Parse(line), "line: %q", line)
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "sleep 5 &", Parse("sleep   5&").String())
	assert.Equal(t, "ls", Parse("ls").String())
	assert.Equal(t, "", Parse("").Name())
	assert.Equal(t, "ls", Parse("ls -l").Name())
}

func TestSplitPipeline(t *testing.T) {
	cases := map[string]struct {
		line   string
		stages []string
	}{
		"no pipe":       {"ls -la", []string{"ls -la"}},
		"empty":         {"", []string{""}},
		"two stages":    {"echo hi | cat", []string{"echo hi ", " cat"}},
		"no spaces":     {"echo hi|cat", []string{"echo hi", "cat"}},
		"empty right":   {"echo hi |", []string{"echo hi ", ""}},
		"strip newline": {"a | b\n", []string{"a ", " b"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := SplitPipeline(tc.line)

			require.NoError(t, err)
			assert.Equal(t, tc.stages, actual)
		})
	}
}

func TestSplitPipeline_tooManyStages(t *testing.T) {
	_, err := SplitPipeline("a | b | c")

	assert.ErrorIs(t, err, ErrTooManyStages)
}
