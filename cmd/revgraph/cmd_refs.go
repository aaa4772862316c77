package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
)

func newBranchesCmd() *cobra.Command {
	var flags loadFlags
	var remote bool

	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List branches and the commits they point at",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, _, err := flags.loadCache(cmd)
			if err != nil {
				return err
			}
			kind := object.RefLocalBranch
			if remote {
				kind = object.RefRemoteBranch
			}
			printRefs(cmd, c.ListReferences(kind))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "list remote branches")
	return cmd
}

func newTagsCmd() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags and the commits they point at",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, _, err := flags.loadCache(cmd)
			if err != nil {
				return err
			}
			printRefs(cmd, c.ListTags())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printRefs(cmd *cobra.Command, pairs []cache.RefPair) {
	out := cmd.OutOrStdout()
	for _, pair := range pairs {
		for _, name := range pair.Names {
			fmt.Fprintf(out, "%s  %s\n", pair.Sha.Short(), name)
		}
	}
}
