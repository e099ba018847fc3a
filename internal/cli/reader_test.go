package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
	}{
		{name: "successful read", input: "test input\n", expectedValue: "test input"},
		{name: "read with extra whitespace", input: "  test input  \n", expectedValue: "test input"},
		{name: "empty line", input: "\n", expectedValue: ""},
		{name: "no trailing newline", input: "yes", expectedValue: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			got, err := r.ReadLine(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, got)
		})
	}
}

func TestLineReader_EOF(t *testing.T) {
	_, err := NewLineReader(strings.NewReader("")).ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLineReader(pr).ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(context.Background(), NewLineReader(strings.NewReader(tt.input)), &out, "Delete history?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete history? [y/N]")
		})
	}
}
