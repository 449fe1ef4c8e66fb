package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnolang/arbiter/batch"
	"github.com/gnolang/arbiter/formatter"
	"github.com/gnolang/arbiter/internal"
	tt "github.com/gnolang/arbiter/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Check program files again whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, config, err := batch.New(cfgFile)
		if err != nil {
			logger.Error("Failed to initialize check engine", zap.Error(err))
			PrintError(os.Stderr, err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher := internal.NewWatcher(engine, logger, config.Extensions,
			func(filename string, diags []tt.Diagnostic, err error) {
				reportWatchResult(os.Stdout, os.Stderr, filename, diags, err)
			})
		if err := watcher.Watch(ctx, args...); err != nil {
			PrintError(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func reportWatchResult(stdout, stderr io.Writer, filename string, diags []tt.Diagnostic, err error) {
	if err != nil {
		PrintError(stderr, err)
		return
	}
	if len(diags) == 0 {
		fmt.Fprintf(stdout, "%s: no issues found\n", filename)
		return
	}

	sourceCode, readErr := internal.ReadSourceCode(filename)
	if readErr != nil {
		logger.Warn("Error reading source file", zap.String("file", filename), zap.Error(readErr))
	}
	fmt.Fprint(stdout, formatter.GenerateFormattedDiagnostics(diags, sourceCode))
}
