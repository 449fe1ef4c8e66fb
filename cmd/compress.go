package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compressOutPath string

var compressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Validate a program, warn about contradictions and print it without duplicates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runCompress(args[0], compressOutPath, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutPath, "output", "o", "", "Write the compressed program to a file instead of stdout")
}

// runCompress reports statement counts and contradictions on stderr and
// writes the compressed program to stdout or outPath.
func runCompress(path, outPath string, stdout, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	stmts, err := logic.ParseAll(string(data))
	if err != nil {
		PrintError(stderr, err)
		return 1
	}
	fmt.Fprintf(stderr, "Parsed %d statements\n", len(stmts))

	for _, stmt := range stmts {
		if logic.IsContradiction(stmt) {
			fmt.Fprintf(stderr, "WARNING: Contradiction detected: %s\n", logic.Format(stmt))
		}
	}

	compressed := logic.Compress(stmts)
	fmt.Fprintf(stderr, "Compressed to %d statements\n", len(compressed))
	logger.Debug("compressed program",
		zap.String("file", path),
		zap.Int("parsed", len(stmts)),
		zap.Int("compressed", len(compressed)))

	output := logic.FormatAll(compressed) + "\n"
	if outPath == "" {
		fmt.Fprint(stdout, output)
		return 0
	}
	if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
		PrintError(stderr, fmt.Errorf("error writing output: %w", err))
		return 1
	}
	return 0
}
