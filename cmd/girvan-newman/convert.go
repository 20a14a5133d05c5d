package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-communities/pkg/loader"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a fixture between text, YAML and snappy-compressed forms",
		Long: `Formats are taken from the file names: .yaml/.yml for YAML, anything
else for text, and a trailing .sz for snappy compression.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := loader.SaveFile(args[1], fx); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "wrote %s: %d nodes, %d edges\n", args[1], fx.NodeCount(), fx.EdgeCount())
			return nil
		},
	}
}
