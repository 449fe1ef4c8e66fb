package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a program with every statement in canonical form",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runFmt(args[0], fmtWrite, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the file")
}

func runFmt(path string, write bool, stdout, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	output, err := canonicalize(string(data))
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	if !write {
		fmt.Fprint(stdout, output)
		return 0
	}
	if output == string(data) {
		return 0
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		PrintError(stderr, fmt.Errorf("error writing %s: %w", path, err))
		return 1
	}
	return 0
}

// canonicalize rewrites every statement line of a program in canonical
// form. Comment and blank lines are kept, trailing whitespace is removed.
func canonicalize(source string) (string, error) {
	prog, err := logic.ParseProgram(source)
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	for _, stmt := range prog.Statements {
		lines[stmt.Line-1] = logic.Format(stmt.Expr)
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n"), nil
}
