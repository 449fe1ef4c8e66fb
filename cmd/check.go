package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gnolang/arbiter/batch"
	"github.com/gnolang/arbiter/formatter"
	"github.com/gnolang/arbiter/internal"
	tt "github.com/gnolang/arbiter/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ignoreRules     string
	ignorePaths     string
	checkJsonOutput bool
	outPath         string
	cacheDir        string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report contradictions, tautologies, duplicates and inconsistencies",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, config, err := batch.New(cfgFile)
		if err != nil {
			logger.Error("Failed to initialize check engine", zap.Error(err))
			PrintError(os.Stderr, err)
			os.Exit(1)
		}

		if cacheDir != "" {
			cache, err := internal.NewCache(cacheDir)
			if err != nil {
				logger.Warn("Cache disabled", zap.String("dir", cacheDir), zap.Error(err))
			} else {
				engine.SetCache(cache)
			}
		}

		for _, rule := range splitList(ignoreRules) {
			engine.IgnoreRule(rule)
		}
		for _, path := range splitList(ignorePaths) {
			engine.IgnorePath(path)
		}

		if code := runCheck(ctx, engine, args, config.Extensions, checkJsonOutput, outPath, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of path patterns to ignore")
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output diagnostics in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for the result cache (disabled when empty)")
}

// runCheck returns 1 when a file could not be checked or when any
// diagnostic has ERROR severity.
func runCheck(
	ctx context.Context,
	engine batch.CheckEngine,
	paths []string,
	extensions []string,
	isJson bool,
	jsonOutput string,
	stdout, stderr io.Writer,
) int {
	diags, procErr := batch.ProcessFiles(ctx, logger, engine, paths, extensions, batch.ProcessFile)

	if err := printDiagnostics(diags, isJson, jsonOutput, stdout); err != nil {
		PrintError(stderr, err)
		return 1
	}

	if procErr != nil {
		for _, err := range multierr.Errors(procErr) {
			PrintError(stderr, err)
		}
		return 1
	}

	for _, d := range diags {
		if d.Severity == tt.SeverityError {
			return 1
		}
	}
	return 0
}

func printDiagnostics(diags []tt.Diagnostic, isJson bool, jsonOutput string, w io.Writer) error {
	diagsByFile := make(map[string][]tt.Diagnostic)
	for _, d := range diags {
		diagsByFile[d.Filename] = append(diagsByFile[d.Filename], d)
	}

	if isJson {
		d, err := json.Marshal(diagsByFile)
		if err != nil {
			return fmt.Errorf("error marshalling diagnostics to JSON: %w", err)
		}
		if jsonOutput == "" {
			fmt.Fprintln(w, string(d))
			return nil
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(diagsByFile))
	for filename := range diagsByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Warn("Error reading source file", zap.String("file", filename), zap.Error(err))
		}
		fmt.Fprint(w, formatter.GenerateFormattedDiagnostics(diagsByFile[filename], sourceCode))
	}
	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
