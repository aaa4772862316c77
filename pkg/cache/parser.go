package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser consumes the raw, line-oriented diff metadata the VCS
// process emits: every change line starts with one or two colons, and
// any other line advances the merge-parent counter used to attribute
// entries in combined-merge diffs.
//
// Format assumption: with 40-character hashes a plain change line
// carries a single status letter at byte 97 followed by a tab at 98
// and the path from 99. That fast path is a pure optimization and is
// only trusted after a length and tab check; everything else goes
// through the tab-split fallback, which is correct for any hash width.
const (
	fastPathStatus = 97
	fastPathTab    = 98
	fastPathName   = 99
)

// ParseDiff turns one raw diff block into a change set. The shared
// name tables make repeated paths across diffs cheap, which is why
// parsing lives on the cache.
func (c *Cache) ParseDiff(buf string) RevisionFiles {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.parseDiffBlock(buf)
}

func (c *Cache) parseDiffBlock(buf string) RevisionFiles {
	rf := NewRevisionFiles()
	fl := &fileNamesLoader{}
	c.parseInto(&rf, fl, buf)
	fl.flush(&c.names, &rf)
	return rf
}

func (c *Cache) parseInto(rf *RevisionFiles, fl *fileNamesLoader, buf string) {
	parNum := 1

	for _, line := range strings.Split(buf, "\n") {
		if line == "" {
			continue
		}
		if line[0] != ':' {
			parNum++
			continue
		}

		if len(line) > 1 && line[1] == ':' {
			// Combined merge: no status or similarity is given for
			// the left and right branches, only that something
			// happened to the trailing path. Treat it as modified and
			// attribute it to the current parent.
			path := line[strings.LastIndexByte(line, '\t')+1:]
			fl.stage(&c.names, path, StatusModified, parNum, "")
			continue
		}

		if len(line) > fastPathName && line[fastPathTab] == '\t' {
			fl.stage(&c.names, line[fastPathName:], statusFromCode(line[fastPathStatus]), parNum, "")
			continue
		}

		c.parseExtended(rf, fl, line, parNum)
	}
}

// parseExtended handles change lines outside the fast path: renames
// and copies carrying a similarity score, and plain records whose
// hash width moved the tab off the fast-path offset.
func (c *Cache) parseExtended(rf *RevisionFiles, fl *fileNamesLoader, line string, parNum int) {
	fields := strings.Split(line, "\t")
	meta := strings.Fields(strings.TrimLeft(fields[0], ":"))
	if len(meta) == 0 {
		return
	}
	code := meta[len(meta)-1]

	switch len(fields) {
	case 2:
		fl.stage(&c.names, fields[1], statusFromCode(code[0]), parNum, "")

	case 3:
		// The VCS reports "<type><similarity>\t<orig>\t<dest>"; the
		// viewer wants "<orig> --> <dest> (<NN>%)".
		similarity, _ := strconv.Atoi(code[1:])
		orig, dest := fields[1], fields[2]
		ext := fmt.Sprintf("%s --> %s (%d%%)", orig, dest, similarity)

		fl.stage(&c.names, dest, StatusNew, parNum, ext)
		if code[0] == 'R' {
			// A rename also retires the origin path; a copy keeps it.
			fl.stage(&c.names, orig, StatusDeleted, parNum, ext)
		}
		rf.OnlyModified = false
	}
}

func statusFromCode(code byte) FileStatus {
	switch code {
	case 'D':
		return StatusDeleted
	case 'A':
		return StatusNew
	case '?':
		return StatusUnknown
	case 'U':
		return StatusModified | StatusConflict
	default:
		// 'M', 'T' and anything unrecognized read as content changes.
		return StatusModified
	}
}
