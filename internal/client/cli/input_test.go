package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  Linsensuppe \n"), "Title", &out)
	require.NoError(t, err)
	assert.Equal(t, "Linsensuppe", got)
	assert.Equal(t, "Title\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "stops on empty line", input: "200 g Linsen\n1 Zwiebel\n\nrest\n", want: "200 g Linsen\n1 Zwiebel"},
		{name: "CRLF", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "EOF without blank line", input: "a\nb", want: "a\nb"},
		{name: "immediate blank line", input: "\n", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Ingredients", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetNumber(t *testing.T) {
	var out bytes.Buffer

	n, err := GetNumber(rdr("45\n"), "Minutes", &out)
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	n, err = GetNumber(rdr("\n"), "Minutes", &out)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = GetNumber(rdr("-3\n"), "Minutes", &out)
	require.Error(t, err)

	_, err = GetNumber(rdr("viel\n"), "Minutes", &out)
	require.Error(t, err)
}

func TestGetConfirmation(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "ja\n": false} {
		got, err := GetConfirmation(rdr(in), "Agree?", &out)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	require.Error(t, err)
}
