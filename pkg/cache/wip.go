package cache

import "github.com/fmartz/revgraph/pkg/object"

// Summary lines for the working-directory commit.
const (
	wipNoChanges = "No local changes"
	wipChanges   = "Local changes"
)

// RefreshWorkingDirectory rebuilds the synthetic working-directory
// commit from scratch: indexDiff plus the untracked-file list become
// its change set against parentSha, cachedDiff marks the entries that
// are staged (and conflicting) in the index, and the resulting commit
// replaces row 0. A call during the bulk window is a logged no-op.
func (c *Cache) RefreshWorkingDirectory(parentSha object.Hash, indexDiff, cachedDiff string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: WIP refresh during the load window, skipping")
		return
	}
	c.logger.Printf("cache: refreshing the WIP commit on top of %s", parentSha.Short())

	rf := c.wipRevisionFiles(indexDiff, cachedDiff)
	c.insertDiff(object.ZeroHash, parentSha, rf)

	summary := wipChanges
	if rf.Count() == len(c.untracked) {
		summary = wipNoChanges
	}
	commit := object.NewWIPCommit(parentSha, summary)

	// The WIP commit always restarts the lane topology at row 0.
	c.lanes.Init(string(commit.Sha))
	commit.Lanes = c.calculateLanes(commit)

	stored := &commit
	if len(c.rows) == 0 {
		c.rows = append(c.rows, stored)
	} else {
		c.rows[0] = stored
	}
	c.byHash[commit.Sha] = stored
}

// HasPendingLocalChanges reports whether the working-directory diff
// holds exactly as many entries as the untracked list, i.e. no tracked
// file is modified. False while mid-bulk-load or before any refresh.
func (c *Cache) HasPendingLocalChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return false
	}
	stored, ok := c.byHash[object.ZeroHash]
	if !ok {
		return false
	}
	rf, ok := c.diffs[diffKey{object.ZeroHash, stored.Parent(0)}]
	if !ok {
		return false
	}
	return rf.Count() == len(c.untracked)
}

// wipRevisionFiles builds the working-directory change set: the index
// diff, then every untracked path with status Unknown, then a pass
// over the cached (staged) diff ORing Conflict and InIndex into the
// entries present in both.
func (c *Cache) wipRevisionFiles(indexDiff, cachedDiff string) RevisionFiles {
	rf := NewRevisionFiles()
	fl := &fileNamesLoader{}
	c.parseInto(&rf, fl, indexDiff)
	rf.OnlyModified = false

	for _, path := range c.untracked {
		fl.stage(&c.names, path, StatusUnknown, 1, "")
	}
	fl.flush(&c.names, &rf)

	cached := c.parseDiffBlock(cachedDiff)
	for i := 0; i < rf.Count(); i++ {
		j := cached.indexOf(rf.File(i))
		if j == -1 {
			continue
		}
		if cached.StatusCmp(j, StatusConflict) {
			rf.AppendStatus(i, StatusConflict)
		}
		rf.AppendStatus(i, StatusInIndex)
	}
	return rf
}
