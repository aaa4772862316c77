package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
)

func newStatusCmd() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize the working-directory changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, head, _, err := flags.loadCache(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			wip := c.GetByRow(0)
			fmt.Fprintf(out, "%s (on top of %s)\n", wip.ShortLog, head.Short())

			rf := c.GetDiff(object.ZeroHash, head)
			for i := 0; i < rf.Count(); i++ {
				fmt.Fprintf(out, "  %s %s", statusLetters(rf.StatusAt(i)), rf.File(i))
				if ext := rf.ExtStatusAt(i); ext != "" {
					fmt.Fprintf(out, "  [%s]", ext)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func statusLetters(status cache.FileStatus) string {
	letters := []byte("--")
	switch {
	case status&cache.StatusConflict != 0:
		letters[0] = 'U'
	case status&cache.StatusDeleted != 0:
		letters[0] = 'D'
	case status&cache.StatusNew != 0:
		letters[0] = 'A'
	case status&cache.StatusUnknown != 0:
		letters[0] = '?'
	case status&cache.StatusModified != 0:
		letters[0] = 'M'
	}
	if status&cache.StatusInIndex != 0 {
		letters[1] = 'S'
	}
	return string(letters)
}
