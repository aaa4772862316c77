package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "revgraph",
		Short: "Commit graph browser for git repositories",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newBranchesCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newStatusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("revgraph 0.1.0-dev")
		},
	}
}
