package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/gnolang/arbiter/internal/session"
	"github.com/spf13/cobra"
)

var evalSet string

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate every statement under an assignment",
	Long: `Evaluate every statement of a program under the assignment given with --set.
Names without a value are true, unassigned variables are false.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if code := runEval(args[0], evalSet, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalSet, "set", "", "Comma-separated assignment, e.g. a,b=false")
}

// runEval returns 1 when any statement is false.
func runEval(path, set string, stdout, stderr io.Writer) int {
	assignment, err := session.ParseAssignment(set)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	stmts, err := readProgram(path)
	if err != nil {
		PrintError(stderr, err)
		return 1
	}

	code := 0
	for i, value := range logic.EvaluateAll(stmts, assignment) {
		fmt.Fprintf(stdout, "%t\t%s\n", value, logic.Format(stmts[i]))
		if !value {
			code = 1
		}
	}
	return code
}

func readProgram(path string) ([]logic.Expr, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return logic.ParseAll(string(data))
}
