package main

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/gitrepo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show staged and unstaged paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gitrepo.Open(".")
			if err != nil {
				return err
			}
			st, err := r.Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "staged:")
			for _, p := range st.Staged {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "unstaged:")
			for _, p := range st.Unstaged {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}
