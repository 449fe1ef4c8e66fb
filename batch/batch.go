package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gnolang/arbiter/internal"
	tt "github.com/gnolang/arbiter/internal/types"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = ".arbiter.yaml"

// DefaultExtensions are the file extensions checked when a directory is
// processed and the configuration does not list any.
var DefaultExtensions = []string{".arb", ".logic"}

type CheckEngine interface {
	Run(filePath string) ([]tt.Diagnostic, error)
	RunSource(source []byte) ([]tt.Diagnostic, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

type (
	FileProcessor   func(CheckEngine, string) ([]tt.Diagnostic, error)
	SourceProcessor func(CheckEngine, []byte) ([]tt.Diagnostic, error)
)

// New loads the configuration file and creates an engine from its rules.
func New(configurationPath string) (*internal.Engine, Config, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, config, err
	}

	engine, err := internal.NewEngine(config.Rules)
	if err != nil {
		return nil, config, fmt.Errorf("invalid configuration %s: %w", configurationPath, err)
	}
	return engine, config, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	sources [][]byte,
	processor SourceProcessor,
) ([]tt.Diagnostic, error) {
	var allDiags []tt.Diagnostic
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allDiags, err
		}
		diags, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allDiags = append(allDiags, diags...)
	}

	return allDiags, nil
}

// ProcessFiles processes every path in order. A failing path does not stop
// the others; all failures are returned together.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	paths []string,
	extensions []string,
	processor FileProcessor,
) ([]tt.Diagnostic, error) {
	var (
		allDiags []tt.Diagnostic
		errs     error
	)
	for _, path := range paths {
		diags, err := ProcessPath(ctx, logger, engine, path, extensions, processor)
		allDiags = append(allDiags, diags...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			errs = multierr.Append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	return allDiags, errs
}

// ProcessPath processes a single file, or every file with one of the
// given extensions below a directory. Directory entries are processed
// concurrently and their diagnostics are returned in file name order.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	path string,
	extensions []string,
	processor FileProcessor,
) ([]tt.Diagnostic, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	files, err := collectFiles(path, extensions)
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	results := make([][]tt.Diagnostic, len(files))
	errs := make([]error, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	bar := newProgressBar(len(files), path)

	var cancelled error
	for i, filePath := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case sem <- struct{}{}:
		}
		if cancelled != nil {
			break
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileDiags, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				errs[i] = err
			} else {
				results[i] = fileDiags
			}
			_ = bar.Add(1)
		}(i, filePath)
	}
	wg.Wait()
	_ = bar.Finish()

	diags := make([]tt.Diagnostic, 0)
	for _, r := range results {
		diags = append(diags, r...)
	}
	return diags, multierr.Combine(append(errs, cancelled)...)
}

func ProcessFile(engine CheckEngine, filePath string) ([]tt.Diagnostic, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine CheckEngine, source []byte) ([]tt.Diagnostic, error) {
	return engine.RunSource(source)
}

func collectFiles(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasDesiredExtension(p, extensions) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func hasDesiredExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// newProgressBar reports directory progress on stderr. It stays silent
// when stderr is not a terminal so that piped output is not polluted.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	visible := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(visible && total > 1),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// Config represents the overall configuration: a name, the extensions of
// program files and the severity overrides of rules.
type Config struct {
	Name       string                   `yaml:"name"`
	Extensions []string                 `yaml:"extensions,omitempty"`
	Rules      map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig lists every rule with its default severity.
func DefaultConfig() Config {
	return Config{
		Name:       "arbiter",
		Extensions: append([]string(nil), DefaultExtensions...),
		Rules:      internal.DefaultRules(),
	}
}

// LoadConfig reads a configuration file. A missing file yields the
// default configuration.
func LoadConfig(configurationPath string) (Config, error) {
	if configurationPath == "" {
		configurationPath = DefaultConfigFile
	}

	config, err := parseConfigurationFile(configurationPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return config, fmt.Errorf("error reading configuration %s: %w", configurationPath, err)
	}

	if config.Name == "" {
		config.Name = "arbiter"
	}
	if len(config.Extensions) == 0 {
		config.Extensions = append([]string(nil), DefaultExtensions...)
	}
	return config, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	// Read the configuration file
	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	// Parse the configuration file
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if errors.Is(err, io.EOF) {
		// empty file
		return config, nil
	}
	if err != nil {
		return config, err
	}

	return config, nil
}
