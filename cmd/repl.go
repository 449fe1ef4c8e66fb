package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/gnolang/arbiter/internal/session"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	historyFile = ".arbiter_history"
	replPrompt  = "arbiter> "
)

const replHelp = `Enter a statement to add it to the facts, or one of:
  :entails <expr>   check whether the facts imply <expr>
  :eval <a,b=false> evaluate every fact under an assignment
  :facts            print the facts without duplicates
  :load <file>      add the statements of a file
  :reset            forget every fact
  :help             show this help
  :quit             leave the session (also Ctrl+D)
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive fact session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runREPL(os.Stdout)
	},
}

func runREPL(out io.Writer) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := session.New()
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("Error reading input", zap.Error(err))
			}
			fmt.Fprintln(out)
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)
		if exit := handleReplLine(s, line, out); exit {
			break
		}
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// handleReplLine adds a statement to the session or runs a command.
func handleReplLine(s *session.Session, line string, w io.Writer) (exit bool) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return false
	}

	if !strings.HasPrefix(text, ":") {
		res, err := s.Assert(text)
		if err != nil {
			PrintError(w, err)
			return false
		}
		fmt.Fprintln(w, res)
		return false
	}

	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ":help":
		fmt.Fprint(w, replHelp)

	case ":quit", ":exit":
		return true

	case ":reset":
		s.Reset()
		fmt.Fprintln(w, "facts cleared")

	case ":facts":
		facts := s.Facts()
		if len(facts) == 0 {
			fmt.Fprintln(w, "no facts")
			return false
		}
		fmt.Fprintln(w, logic.FormatAll(facts))

	case ":load":
		if arg == "" {
			fmt.Fprintln(w, "usage: :load <file>")
			return false
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			PrintError(w, err)
			return false
		}
		results, err := s.Load(string(data))
		if err != nil {
			PrintError(w, err)
			return false
		}
		fmt.Fprintf(w, "loaded %d statements\n", len(results))
		for _, r := range results {
			if r.Inconsistent {
				fmt.Fprintln(w, "WARNING: facts are now inconsistent")
			}
		}

	case ":entails":
		if arg == "" {
			fmt.Fprintln(w, "usage: :entails <expr>")
			return false
		}
		ok, cex, err := s.Entails(arg)
		if err != nil {
			PrintError(w, err)
			return false
		}
		if ok {
			fmt.Fprintln(w, "true")
			return false
		}
		fmt.Fprintf(w, "false\ncounterexample: %s\n", cex)

	case ":eval":
		assignment, err := session.ParseAssignment(arg)
		if err != nil {
			PrintError(w, err)
			return false
		}
		stmts := s.Statements()
		for i, value := range s.Eval(assignment) {
			fmt.Fprintf(w, "%t\t%s\n", value, logic.Format(stmts[i]))
		}

	default:
		fmt.Fprintln(w, "unknown command. Type :help for help.")
	}
	return false
}
