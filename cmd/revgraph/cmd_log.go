package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmartz/revgraph/pkg/graph"
	"github.com/fmartz/revgraph/pkg/object"
)

func newLogCmd() *cobra.Command {
	var flags loadFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the commit graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, cfg, err := flags.loadCache(cmd)
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = cfg.Limit
			}

			glyphs := asciiGlyphs
			if cfg.Glyphs == "unicode" {
				glyphs = unicodeGlyphs
			}

			out := cmd.OutOrStdout()
			shown := 0
			for row := 0; row < c.Count(); row++ {
				if limit > 0 && shown >= limit {
					break
				}
				commit := c.GetByRow(row)
				if !commit.IsValid() {
					continue
				}
				fmt.Fprintln(out, renderRow(commit, glyphs))
				shown++
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows to show (0 = config default)")
	return cmd
}

// laneGlyphs maps lane cell classes to drawing runes.
type laneGlyphs struct {
	node, line, join, tail, cross, empty string
}

var asciiGlyphs = laneGlyphs{node: "*", line: "|", join: "\\", tail: "/", cross: "-", empty: " "}

var unicodeGlyphs = laneGlyphs{node: "●", line: "│", join: "╲", tail: "╱", cross: "─", empty: " "}

func renderRow(commit object.Commit, glyphs laneGlyphs) string {
	var b strings.Builder
	for _, lane := range commit.Lanes {
		b.WriteString(laneGlyph(lane, glyphs))
		b.WriteString(" ")
	}

	b.WriteString(" ")
	if commit.IsWIP() {
		b.WriteString("(work in progress)")
	} else {
		b.WriteString(commit.Sha.Short())
	}

	if deco := decorate(commit); deco != "" {
		b.WriteString(" ")
		b.WriteString(deco)
	}

	b.WriteString("  ")
	b.WriteString(commit.ShortLog)
	if !commit.IsWIP() {
		b.WriteString("  (")
		b.WriteString(authorName(commit.Author))
		b.WriteString(", ")
		b.WriteString(time.Unix(commit.AuthorDate, 0).Format("2006-01-02"))
		b.WriteString(")")
	}
	return b.String()
}

func laneGlyph(t graph.LaneType, glyphs laneGlyphs) string {
	switch {
	case t.IsActive():
		return glyphs.node
	case t == graph.NotActive:
		return glyphs.line
	case t.IsJoin() || t.IsHead():
		return glyphs.join
	case t.IsTail():
		return glyphs.tail
	case t == graph.Cross || t == graph.CrossEmpty:
		return glyphs.cross
	default:
		return glyphs.empty
	}
}

// decorate renders the commit's references the way git log does.
func decorate(commit object.Commit) string {
	var parts []string
	for _, name := range commit.References.Get(object.RefLocalBranch) {
		parts = append(parts, name)
	}
	for _, name := range commit.References.Get(object.RefRemoteBranch) {
		parts = append(parts, name)
	}
	for _, name := range commit.References.Get(object.RefTag) {
		parts = append(parts, "tag: "+name)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func authorName(author string) string {
	name, _, _ := strings.Cut(author, "<")
	return strings.TrimSpace(name)
}
