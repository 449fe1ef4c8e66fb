package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tt "github.com/gnolang/arbiter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCheckEngine struct {
	mock.Mock
}

func (m *mockCheckEngine) Run(filePath string) ([]tt.Diagnostic, error) {
	args := m.Called(filePath)
	return args.Get(0).([]tt.Diagnostic), args.Error(1)
}

func (m *mockCheckEngine) RunSource(source []byte) ([]tt.Diagnostic, error) {
	args := m.Called(source)
	return args.Get(0).([]tt.Diagnostic), args.Error(1)
}

func (m *mockCheckEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func (m *mockCheckEngine) IgnorePath(path string) {
	m.Called(path)
}

func setupMockEngine(expected []tt.Diagnostic, filePath string) *mockCheckEngine {
	mockEngine := new(mockCheckEngine)
	mockEngine.On("Run", filePath).Return(expected, nil)
	return mockEngine
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expected := []tt.Diagnostic{
		{Rule: "contradiction", Filename: "facts.arb", Line: 1, Column: 1, Message: "statement is a contradiction"},
	}
	mockEngine := setupMockEngine(expected, "facts.arb")

	diags, err := ProcessFile(mockEngine, "facts.arb")

	assert.NoError(t, err)
	assert.Equal(t, expected, diags)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	expected := []tt.Diagnostic{{Rule: "tautology", Line: 1, Column: 1}}
	mockEngine := new(mockCheckEngine)
	mockEngine.On("RunSource", []byte("a | !a")).Return(expected, nil)

	diags, err := ProcessSource(mockEngine, []byte("a | !a"))

	assert.NoError(t, err)
	assert.Equal(t, expected, diags)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "a.arb", "b.logic")
	createTempFiles(t, tempDir, "notes.txt")

	expected := []tt.Diagnostic{
		{Rule: "rule1", Filename: paths[0], Line: 1, Column: 1, Message: "first"},
		{Rule: "rule2", Filename: paths[1], Line: 1, Column: 1, Message: "second"},
	}

	mockEngine := new(mockCheckEngine)
	mockEngine.On("Run", paths[0]).Return([]tt.Diagnostic{expected[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]tt.Diagnostic{expected[1]}, nil)

	diags, err := ProcessPath(ctx, logger, mockEngine, tempDir, nil, ProcessFile)

	assert.NoError(t, err)
	assert.Equal(t, expected, diags)
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", filepath.Join(tempDir, "notes.txt"))
}

func TestProcessPathExplicitFile(t *testing.T) {
	t.Parallel()

	paths := createTempFiles(t, t.TempDir(), "facts.txt")
	mockEngine := setupMockEngine([]tt.Diagnostic{}, paths[0])

	diags, err := ProcessPath(context.Background(), nil, mockEngine, paths[0], nil, ProcessFile)

	assert.NoError(t, err)
	assert.Empty(t, diags)
	mockEngine.AssertExpectations(t)
}

func TestProcessPathMissing(t *testing.T) {
	t.Parallel()

	_, err := ProcessPath(context.Background(), nil, new(mockCheckEngine), filepath.Join(t.TempDir(), "nope"), nil, ProcessFile)
	assert.ErrorContains(t, err, "error accessing")
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "test1.arb", "test2.arb")

	expected := []tt.Diagnostic{
		{Rule: "rule1", Filename: paths[0], Line: 1, Column: 1, Message: "first"},
		{Rule: "rule2", Filename: paths[1], Line: 1, Column: 1, Message: "second"},
	}

	mockEngine := new(mockCheckEngine)
	mockEngine.On("Run", paths[0]).Return([]tt.Diagnostic{expected[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]tt.Diagnostic{expected[1]}, nil)

	diags, err := ProcessFiles(ctx, logger, mockEngine, paths, nil, ProcessFile)

	assert.NoError(t, err)
	assert.Equal(t, expected, diags)
	mockEngine.AssertExpectations(t)
}

func TestProcessFilesKeepsGoingAfterFailure(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "bad.arb", "good.arb")
	parseErr := errors.New("error parsing bad.arb: line 1: unexpected end of input")
	good := tt.Diagnostic{Rule: "tautology", Filename: paths[1], Line: 1}

	mockEngine := new(mockCheckEngine)
	mockEngine.On("Run", paths[0]).Return([]tt.Diagnostic(nil), parseErr)
	mockEngine.On("Run", paths[1]).Return([]tt.Diagnostic{good}, nil)

	diags, err := ProcessFiles(context.Background(), nil, mockEngine, paths, nil, ProcessFile)

	assert.ErrorIs(t, err, parseErr)
	assert.Equal(t, []tt.Diagnostic{good}, diags)
	mockEngine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	expected := []tt.Diagnostic{
		{Rule: "rule1", Line: 1, Column: 1, Message: "first"},
		{Rule: "rule2", Line: 1, Column: 1, Message: "second"},
	}

	mockEngine := new(mockCheckEngine)
	mockEngine.On("RunSource", []byte("a")).Return([]tt.Diagnostic{expected[0]}, nil)
	mockEngine.On("RunSource", []byte("b")).Return([]tt.Diagnostic{expected[1]}, nil)

	diags, err := ProcessSources(ctx, logger, mockEngine, [][]byte{[]byte("a"), []byte("b")}, ProcessSource)

	assert.NoError(t, err)
	assert.Equal(t, expected, diags)
	mockEngine.AssertExpectations(t)
}

func TestHasDesiredExtension(t *testing.T) {
	t.Parallel()
	assert.True(t, hasDesiredExtension("facts.arb", DefaultExtensions))
	assert.True(t, hasDesiredExtension("dir/facts.logic", DefaultExtensions))
	assert.False(t, hasDesiredExtension("facts.txt", DefaultExtensions))
	assert.False(t, hasDesiredExtension("facts", DefaultExtensions))
	assert.True(t, hasDesiredExtension("facts.txt", []string{".txt"}))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".arbiter.yaml")
		content := "name: team\nrules:\n  tautology:\n    severity: error\n  redundant-statement:\n    severity: Warning\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "team", config.Name)
		assert.Equal(t, DefaultExtensions, config.Extensions)
		assert.Equal(t, map[string]tt.ConfigRule{
			"tautology":           {Severity: tt.SeverityError},
			"redundant-statement": {Severity: tt.SeverityWarning},
		}, config.Rules)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".arbiter.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "arbiter", config.Name)
		assert.Empty(t, config.Rules)
	})

	t.Run("invalid severity", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".arbiter.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules:\n  tautology:\n    severity: loud\n"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, `unknown severity "loud"`)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".arbiter.yaml")
		require.NoError(t, os.WriteFile(path, []byte("colour: blue\n"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestNewUnknownRule(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".arbiter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  made-up:\n    severity: info\n"), 0o644))

	_, _, err := New(path)
	assert.ErrorContains(t, err, `unknown rule "made-up"`)
}

func TestNewRuleWithoutSeverity(t *testing.T) {
	t.Parallel()
	for _, content := range []string{
		"rules:\n  contradiction: {}\n",
		"rules:\n  contradiction:\n",
	} {
		path := filepath.Join(t.TempDir(), ".arbiter.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, _, err := New(path)
		assert.ErrorContains(t, err, `rule "contradiction": missing severity`, content)
	}
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		require.NoError(t, os.WriteFile(filePath, nil, 0o644))
		paths = append(paths, filePath)
	}
	return paths
}
