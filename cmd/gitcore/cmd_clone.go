package main

import (
	"fmt"

	"github.com/odvcencio/gitcore/pkg/gitrepo"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	var branch, filter string
	var depth int
	var recurseSubmodules bool

	cmd := &cobra.Command{
		Use:   "clone <source> <dest>",
		Short: "Clone a repository into a new directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gitrepo.CloneOptions{
				Branch:            branch,
				Depth:             depth,
				Filter:            filter,
				RecurseSubmodules: recurseSubmodules,
				Progress: func(phase string, transferred, total int64, message string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", phase, message)
				},
			}
			r, err := gitrepo.Clone(args[0], args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cloned into %s\n", r.WorktreeRoot)
			return nil
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "checkout this branch instead of the source's HEAD")
	cmd.Flags().IntVar(&depth, "depth", 0, "create a shallow clone with the given history depth")
	cmd.Flags().StringVar(&filter, "filter", "", "negotiate a partial-clone filter (e.g. blob:none)")
	cmd.Flags().BoolVar(&recurseSubmodules, "recurse-submodules", false, "clone submodules recursively")
	return cmd
}
