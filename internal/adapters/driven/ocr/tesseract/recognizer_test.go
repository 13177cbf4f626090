package tesseract

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

type mockRunner struct {
	out []byte
	err error

	name string
	args []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.out, m.err
}

func TestRecognize_ReturnsText(t *testing.T) {
	runner := &mockRunner{out: []byte("認識されたテキスト\n")}
	r := New(runner)

	text, err := r.Recognize(context.Background(), domain.RawPage{Index: 1, PNG: []byte("png")}, "jpn")
	require.NoError(t, err)
	assert.Equal(t, "認識されたテキスト\n", text)

	assert.Equal(t, "tesseract", runner.name)
	require.Len(t, runner.args, 4)
	assert.Equal(t, "stdout", runner.args[1])
	assert.Equal(t, []string{"-l", "jpn"}, runner.args[2:])
}

func TestRecognize_WritesPageImage(t *testing.T) {
	var written []byte
	runner := &capturingRunner{read: func(path string) {
		written, _ = os.ReadFile(path)
	}}
	r := New(runner)

	_, err := r.Recognize(context.Background(), domain.RawPage{Index: 1, PNG: []byte("image-bytes")}, "jpn")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), written, "the temp image must hold the page bytes at run time")
}

// capturingRunner inspects the temp image while it still exists.
type capturingRunner struct {
	read func(path string)
}

func (c *capturingRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	c.read(args[0])
	return []byte("text"), nil
}

func TestRecognize_RunnerFailure(t *testing.T) {
	runner := &mockRunner{err: fmt.Errorf("exit status 1")}
	r := New(runner)

	_, err := r.Recognize(context.Background(), domain.RawPage{Index: 3}, "jpn")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
	assert.Contains(t, err.Error(), "page 3")
}
