package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptYesNoWithDefaultIO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes lowercase lf", input: "y\n", want: true},
		{name: "yes word cr", input: "yes\r", want: true},
		{name: "yes mixed case", input: "YeS\n", want: true},
		{name: "empty input defaults yes", input: "\n", defaultYes: true, want: true},
		{name: "empty input defaults no", input: "\n", defaultYes: false, want: false},
		{name: "explicit no overrides yes default", input: "n\n", defaultYes: true, want: false},
		{name: "closed input is no", input: "", defaultYes: true, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got := promptYesNoWithDefaultIO(strings.NewReader(tc.input), &out, "Confirm? ", tc.defaultYes)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, "Confirm? ", out.String())
		})
	}
}

func TestReadPromptLine_StopsAtLineEnd(t *testing.T) {
	in := strings.NewReader("first\r\nsecond\nthird")

	line, err := readPromptLine(in)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	// CRLF leaves an empty line behind the CR.
	line, err = readPromptLine(in)
	require.NoError(t, err)
	assert.Equal(t, "", line)

	line, err = readPromptLine(in)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	line, err = readPromptLine(in)
	require.NoError(t, err)
	assert.Equal(t, "third", line)

	_, err = readPromptLine(in)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadPromptLine_NilReader(t *testing.T) {
	_, err := readPromptLine(nil)
	assert.ErrorIs(t, err, io.EOF)
}

func TestConfirm_NonInteractiveUsesPrompt(t *testing.T) {
	app := &App{IsInteractive: func() bool { return false }}
	var out bytes.Buffer

	ok, err := confirm(app, strings.NewReader("n\n"), &out, "Create this plan?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Create this plan? [Y/n] ", out.String())
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	id, err := resolveID("plan", "xyz789", ids)
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)

	id, err = resolveID("plan", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = resolveID("plan", "ab", ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID("plan", "nope", ids)
	assert.ErrorContains(t, err, "not found")
}
