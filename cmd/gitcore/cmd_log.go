package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/odvcencio/gitcore/pkg/gitrepo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var maxCount int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history starting at HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gitrepo.Open(".")
			if err != nil {
				return err
			}
			oid, err := r.Refs.ResolveHead()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			seen := make(map[string]bool)
			queue := []string{oid}
			printed := 0
			for len(queue) > 0 && (maxCount <= 0 || printed < maxCount) {
				cur := queue[0]
				queue = queue[1:]
				if seen[cur] {
					continue
				}
				seen[cur] = true

				commit, err := r.Store.ReadCommit(cur)
				if err != nil {
					return err
				}
				when := time.Unix(commit.Timestamp, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(out, "commit %s\n", cur)
				fmt.Fprintf(out, "Author: %s\n", commit.Author)
				fmt.Fprintf(out, "Date:   %s\n\n", when)
				for _, line := range strings.Split(strings.TrimRight(commit.Message, "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
				printed++

				queue = append(queue, commit.Parents...)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxCount, "max-count", 0, "limit the number of commits shown (0 means unlimited)")
	return cmd
}
