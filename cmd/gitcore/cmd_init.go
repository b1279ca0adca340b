package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitcore/internal/objhash"
	"github.com/odvcencio/gitcore/pkg/gitrepo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var sha256 bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			algo := objhash.SHA1
			if sha256 {
				algo = objhash.SHA256
			}
			r, err := gitrepo.Init(abs, gitrepo.InitOptions{HashAlgorithm: algo})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty repository in %s\n", r.GitDir+string(filepath.Separator))
			return nil
		},
	}
	cmd.Flags().BoolVar(&sha256, "object-format-sha256", false, "use SHA-256 object identifiers")
	return cmd
}
