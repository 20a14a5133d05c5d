package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/loader"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/report"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <fixture>",
		Short: "Split a graph fixture into communities",
		Long: `Loads a fixture (text or YAML, optionally snappy-compressed with a .sz
suffix), runs the requested number of split rounds and prints the
communities and the removed edges.

Edges removed together in one round are listed in the order their nodes
were declared in the fixture, not by node ID.

Exits 2 when the graph ran out of edges before every round split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}

	d := cmd.Flags()
	d.IntP("rounds", "k", 1, "number of split rounds")
	d.Float64("epsilon", algorithms.DefaultTieEpsilon, "relative tolerance for tied betweenness scores")
	d.Int("max-removals", 0, "stop after removing this many edges (0 = unlimited)")
	d.StringP("format", "o", string(report.FormatText), "output format: "+strings.Join(report.Formats, ", "))
	d.Bool("metrics-dump", false, "print collected metrics to stderr when done")

	return cmd
}

func (a *app) run(cmd *cobra.Command, path string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	logger := a.newLogger(cfg)
	registry := metrics.NewRegistry()

	fx, err := loader.LoadFileWithOptions(path, loader.Options{Logger: logger, Metrics: registry})
	if err != nil {
		return err
	}

	result, err := algorithms.GirvanNewmanWithOptions(fx.Graph, cfg.Options(logger, registry))
	if err != nil {
		return err
	}

	rep := report.New(result, fx.FixtureID)
	rep.Source = filepath.Base(path)
	if err := rep.Write(a.stdout, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.MetricsDump {
		if err := dumpMetrics(a.stderr, registry); err != nil {
			return err
		}
	}

	if err := result.Err(); err != nil {
		code := exitError
		if result.Status == algorithms.StatusExhausted {
			code = exitExhausted
		}
		return &exitCodeError{
			code: code,
			err:  fmt.Errorf("%w after %d of %d rounds", err, result.RoundsCompleted(), result.RequestedRounds),
		}
	}
	return nil
}

// dumpMetrics prints one line per sample in Prometheus text style
func dumpMetrics(w io.Writer, registry *metrics.Registry) error {
	samples, err := registry.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, s := range samples {
		fmt.Fprintf(w, "%s%s %g\n", s.Name, formatLabels(s.Labels), s.Value)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
