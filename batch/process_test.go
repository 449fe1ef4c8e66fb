package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// TestProcessPathContextCancellation tests that an already cancelled
// context stops the directory walk before any file is checked.
func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFiles(t, tempDir, map[string]string{fmt.Sprintf("facts%d.arb", i): "a & !a\n"})
	}

	engine, _, err := New(filepath.Join(tempDir, "missing.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	diags, err := ProcessPath(ctx, nil, engine, tempDir, nil, ProcessFile)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

// TestProcessPathOrdering tests that results follow file name order
// regardless of which worker finishes first.
func TestProcessPathOrdering(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 8; i++ {
		writeFiles(t, tempDir, map[string]string{fmt.Sprintf("f%d.arb", i): "x | !x\n"})
	}

	engine, _, err := New(filepath.Join(tempDir, "missing.yaml"))
	require.NoError(t, err)

	diags, err := ProcessPath(context.Background(), nil, engine, tempDir, nil, ProcessFile)
	require.NoError(t, err)
	require.Len(t, diags, 8)
	for i, d := range diags {
		assert.Equal(t, filepath.Join(tempDir, fmt.Sprintf("f%d.arb", i)), d.Filename)
		assert.Equal(t, "tautology", d.Rule)
	}
}

// TestConcurrentProcessingWithErrors tests that a file that fails to parse
// is reported while the other files are still checked.
func TestConcurrentProcessingWithErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"valid0.arb":     "a & !a\n",
		"nested/v1.arb":  "b & !b\n",
		"invalid.arb":    "this is not valid\n",
		"ignored.go.txt": "ignored",
	})

	engine, _, err := New(filepath.Join(tempDir, "missing.yaml"))
	require.NoError(t, err)

	diags, err := ProcessPath(context.Background(), nil, engine, tempDir, nil, ProcessFile)

	require.Error(t, err)
	var pe *logic.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Len(t, diags, 2)
}

// TestErrorPropagationSingleFile tests that errors are properly propagated for single files
func TestErrorPropagationSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{"invalid.arb": "a &\n"})

	engine, _, err := New(filepath.Join(tempDir, "missing.yaml"))
	require.NoError(t, err)

	diags, err := ProcessPath(context.Background(), nil, engine, filepath.Join(tempDir, "invalid.arb"), nil, ProcessFile)

	assert.ErrorContains(t, err, "line 1: unexpected end of input")
	assert.Empty(t, diags)
}
