package cache

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fmartz/revgraph/pkg/object"
)

func TestWIP_RefreshBuildsRowZero(t *testing.T) {
	c := New()
	loadChain(c)
	c.SetUntrackedFiles([]string{"new.txt"})

	c.RefreshWorkingDirectory("aaa3", rawLine('M', "a.go"), "")

	wip := c.GetByRow(0)
	AssertTrue(wip.IsWIP())
	AssertEqual(wip.Parent(0), object.Hash("aaa3"))
	AssertEqual(wip.ShortLog, "Local changes")
	AssertEqual(len(wip.Lanes), 1)

	rf := c.GetDiff(object.ZeroHash, "aaa3")
	AssertEqual(rf.Count(), 2)
	AssertEqual(rf.File(0), "a.go")
	AssertTrue(rf.StatusCmp(0, StatusModified))
	AssertEqual(rf.File(1), "new.txt")
	AssertTrue(rf.StatusCmp(1, StatusUnknown))
	AssertFalse(rf.OnlyModified)
}

func TestWIP_SummaryTracksUntrackedOnly(t *testing.T) {
	c := New()
	loadChain(c)
	c.SetUntrackedFiles([]string{"u1", "u2"})

	// Only untracked entries: the diff count matches the untracked list.
	c.RefreshWorkingDirectory("aaa3", "", "")
	AssertEqual(c.GetByRow(0).ShortLog, "No local changes")
	AssertTrue(c.HasPendingLocalChanges())

	// A tracked modification tips the count over.
	c.RefreshWorkingDirectory("aaa3", rawLine('M', "a.go"), "")
	AssertEqual(c.GetByRow(0).ShortLog, "Local changes")
	AssertFalse(c.HasPendingLocalChanges())
}

func TestWIP_CachedDiffMarksIndexEntries(t *testing.T) {
	c := New()
	loadChain(c)

	indexDiff := rawLine('M', "a.go") + "\n" + rawLine('M', "b.go")
	cachedDiff := rawLine('U', "a.go") + "\n" + rawLine('M', "c.go")
	c.RefreshWorkingDirectory("aaa3", indexDiff, cachedDiff)

	rf := c.GetDiff(object.ZeroHash, "aaa3")
	AssertEqual(rf.Count(), 2)

	// a.go is in both diffs and conflicting in the index.
	AssertTrue(rf.StatusCmp(0, StatusInIndex))
	AssertTrue(rf.StatusCmp(0, StatusConflict))

	// b.go is working-tree only.
	AssertFalse(rf.StatusCmp(1, StatusInIndex))
	AssertFalse(rf.StatusCmp(1, StatusConflict))
}

func TestWIP_StagedWithoutConflict(t *testing.T) {
	c := New()
	loadChain(c)

	c.RefreshWorkingDirectory("aaa3", rawLine('M', "a.go"), rawLine('M', "a.go"))

	rf := c.GetDiff(object.ZeroHash, "aaa3")
	AssertTrue(rf.StatusCmp(0, StatusInIndex))
	AssertFalse(rf.StatusCmp(0, StatusConflict))
}

func TestWIP_RefreshReplacesRowZero(t *testing.T) {
	c := New()
	loadChain(c)

	c.RefreshWorkingDirectory("aaa3", "", "")
	c.RefreshWorkingDirectory("aaa3", rawLine('D', "gone.go"), "")

	AssertEqual(c.Count(), 4)
	AssertTrue(c.GetByRow(0).IsWIP())
	AssertEqual(c.GetDiff(object.ZeroHash, "aaa3").Count(), 1)
}

func TestWIP_RefreshOnEmptyCache(t *testing.T) {
	c := New()
	c.RefreshWorkingDirectory("aaa1", "", "")

	AssertEqual(c.Count(), 1)
	AssertTrue(c.GetByRow(0).IsWIP())
}

func TestWIP_RefreshSkippedDuringBulkLoad(t *testing.T) {
	c := New()
	c.BeginBulkLoad(1)
	c.InsertDuringBulkLoad(object.NewCommit("aaa1", nil, "Cal", 100, "first", ""), 1)

	c.RefreshWorkingDirectory("aaa1", rawLine('M', "a.go"), "")
	c.EndBulkLoad()

	AssertFalse(c.GetByRow(0).IsValid())
	AssertFalse(c.HasDiff(object.ZeroHash, "aaa1"))
	AssertFalse(c.HasPendingLocalChanges())
}

func TestWIP_NoPendingStateBeforeRefresh(t *testing.T) {
	c := New()
	loadChain(c)

	AssertFalse(c.HasPendingLocalChanges())
}
