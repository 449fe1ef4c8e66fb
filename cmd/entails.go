package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/spf13/cobra"
)

var entailsCmd = &cobra.Command{
	Use:   "entails <facts-file> <expr>",
	Short: "Check whether the facts of a file imply an expression",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runEntails(args[0], args[1], os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

// runEntails prints true or false, and a counterexample on stderr when
// the facts do not imply the expression.
func runEntails(path, exprText string, stdout, stderr io.Writer) int {
	facts, err := readProgram(path)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	expr, err := logic.Parse(exprText)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	if logic.ImpliesSemantically(facts, expr) {
		fmt.Fprintln(stdout, "true")
		return 0
	}

	fmt.Fprintln(stdout, "false")
	if cex, ok := logic.Counterexample(facts, expr); ok {
		fmt.Fprintf(stderr, "counterexample: %s\n", cex)
	}
	return 1
}
