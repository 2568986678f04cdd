package exec_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
)

func TestChannel_Drain(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   *string
	}{
		{
			name:   "nothing written",
			writes: nil,
			want:   nil,
		},
		{
			name:   "only empty writes",
			writes: []string{"", ""},
			want:   nil,
		},
		{
			name:   "single write",
			writes: []string{"hello"},
			want:   exec.Text("hello"),
		},
		{
			name:   "writes are concatenated",
			writes: []string{"1:", "2:", "", "3"},
			want:   exec.Text("1:2:3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := exec.NewChannel()
			require.NoError(t, err)

			for _, w := range tt.writes {
				require.NoError(t, ch.Write(w))
			}
			require.NoError(t, ch.CloseWrite())

			got, err := ch.Drain()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannel_InvalidUTF8(t *testing.T) {
	ch, err := exec.NewChannel()
	require.NoError(t, err)

	_, err = ch.Writer().Write([]byte{'a', 0xff, 'b'})
	require.NoError(t, err)
	require.NoError(t, ch.CloseWrite())

	got, err := ch.Drain()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a\uFFFDb", *got)
}

func TestChannel_WriteAfterClose(t *testing.T) {
	ch, err := exec.NewChannel()
	require.NoError(t, err)

	require.NoError(t, ch.CloseWrite())
	require.NoError(t, ch.CloseWrite(), "closing twice is allowed")

	err = ch.Write("late")
	require.Error(t, err)
	assert.Equal(t, errors.CodeIO, errors.GetCode(err))

	assert.NoError(t, ch.Write(""), "empty writes never touch the pipe")
}

func TestChannel_LargeWriteDoesNotBlock(t *testing.T) {
	ch, err := exec.NewChannel()
	require.NoError(t, err)

	// Far larger than any OS pipe buffer.
	payload := strings.Repeat("x", 4<<20)
	require.NoError(t, ch.Write(payload))
	require.NoError(t, ch.CloseWrite())

	got, err := ch.Drain()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, *got, len(payload))
}

func TestChannel_Reader(t *testing.T) {
	ch, err := exec.NewChannel()
	require.NoError(t, err)

	require.NoError(t, ch.Write("raw bytes"))
	require.NoError(t, ch.CloseWrite())

	data, err := io.ReadAll(ch.Reader())
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(data))

	// Drain still sees everything after Reader.
	got, err := ch.Drain()
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", *got)
}

func TestChannel_WithTee(t *testing.T) {
	var tee bytes.Buffer
	ch, err := exec.NewChannel(exec.WithTee(&tee))
	require.NoError(t, err)

	require.NoError(t, ch.Write("copied"))
	require.NoError(t, ch.Close())

	got, err := ch.Drain()
	require.NoError(t, err)
	assert.Equal(t, "copied", *got)
	assert.Equal(t, "copied", tee.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestChannel_FailingTeeKeepsCapturing(t *testing.T) {
	ch, err := exec.NewChannel(exec.WithTee(failingWriter{}))
	require.NoError(t, err)

	require.NoError(t, ch.Write("first "))
	require.NoError(t, ch.Write("second"))
	require.NoError(t, ch.CloseWrite())

	got, err := ch.Drain()
	require.NoError(t, err)
	assert.Equal(t, "first second", *got)
}
