package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/logging"
)

// Process exit codes
const (
	exitOK        = 0
	exitError     = 1
	exitExhausted = 2
)

// exitCodeError carries a non-zero exit status out of a command
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// app carries the streams and flags shared by every subcommand
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
}

func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{stdout: stdout, stderr: stderr})
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(stderr, "Error:", err)

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return exitError
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "girvan-newman",
		Short:         "Girvan-Newman community detection",
		Long:          "Detects communities by repeatedly removing the edges with the highest betweenness until the graph splits.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .girvan-newman.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newViewCmd(a))

	return root
}

// loadConfig merges defaults, the config file, GN_* env vars and any flags
// the command defines.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return config.Config{}, err
	}
	bindFlags(v, cmd)

	return config.Load(v)
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"rounds":       "rounds",
	"epsilon":      "epsilon",
	"max-removals": "max_removals",
	"format":       "format",
	"log-level":    "log_level",
	"metrics-dump": "metrics_dump",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// newLogger writes JSON logs to stderr and installs them as the default
func (a *app) newLogger(cfg config.Config) logging.Logger {
	logger := logging.NewJSONLogger(a.stderr, cfg.Level())
	logging.SetDefaultLogger(logger)
	return logger
}
