package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gnolang/arbiter/batch"
	"github.com/gnolang/arbiter/internal/logic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "arbiter [file]",
	Short:            "arbiter - validate, check and compress propositional fact files",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	Args:             cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: arbiter <file> => behaves like the compress subcommand
		compressCmd.Run(compressCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", batch.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for checking")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&compressOutPath, "output", "o", "", "Write the compressed program to a file instead of stdout")

	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(entailsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replCmd)
}

func initLogger() error {
	config := zap.NewDevelopmentConfig()
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// PrintError reports a fatal error. Parse failures are distinguished from
// every other error.
func PrintError(w io.Writer, err error) {
	var pe *logic.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(w, "Parse error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
