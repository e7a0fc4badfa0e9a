package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drake/runehist/lua"
	"github.com/drake/runehist/retention"
)

func newExplainCmd(a *app) *cobra.Command {
	var variable string

	cmd := &cobra.Command{
		Use:   "explain <lua>",
		Short: "Show whether a line would overwrite the last-output variable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if variable == "" {
				variable = a.settings.Variable()
			}
			code := strings.Join(args, " ")
			chunk, err := lua.Parse("explain", code)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			form := "statements"
			if chunk.Expression {
				form = "expression"
			}
			verdict := retention.Heuristic{Variable: variable}.Decide(chunk.Tree)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "form:       %s (%d top-level)\n", form, len(chunk.Tree.EndStatements()))
			fmt.Fprintf(out, "variable:   %s\n", variable)
			fmt.Fprintf(out, "verdict:    %s\n", verdict)
			return nil
		},
	}
	cmd.Flags().StringVar(&variable, "variable", "", "last-output variable name (default from config)")
	return cmd
}
