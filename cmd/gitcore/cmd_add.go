package main

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/gitrepo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Stage worktree files into the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gitrepo.Open(".")
			if err != nil {
				return err
			}
			if err := r.Add(args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "staged %d path(s)\n", len(args))
			return nil
		},
	}
}
