package graph

import "testing"

// step drives the engine through one commit the way the cache does:
// fork and discontinuity detection, row snapshot, then the next-row
// transitions.
func step(l *Lanes, sha string, parents ...string) []LaneType {
	if l.IsEmpty() {
		l.Init(sha)
	}
	isFork, isDiscontinuity := l.IsFork(sha)
	isMerge := len(parents) > 1

	if isDiscontinuity {
		l.ChangeActiveLane(sha)
	}
	if isFork {
		l.SetFork(sha)
	}
	if isMerge {
		l.SetMerge(parents)
	}
	if len(parents) == 0 {
		l.SetInitial()
	}

	row := l.Lanes()

	next := ""
	if len(parents) > 0 {
		next = parents[0]
	}
	l.NextParent(next)
	if isMerge {
		l.AfterMerge()
	}
	if isFork {
		l.AfterFork()
	}
	if l.IsBranch() {
		l.AfterBranch()
	}
	return row
}

func assertRow(t *testing.T, got, want []LaneType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("row = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("row = %v, want %v", got, want)
		}
	}
}

func TestLanes_LinearChain(t *testing.T) {
	l := &Lanes{}

	// c5 -> c4 -> c3 -> c2 -> c1 (root), newest first.
	assertRow(t, step(l, "c5", "c4"), []LaneType{Branch})
	assertRow(t, step(l, "c4", "c3"), []LaneType{Active})
	assertRow(t, step(l, "c3", "c2"), []LaneType{Active})
	assertRow(t, step(l, "c2", "c1"), []LaneType{Active})
	assertRow(t, step(l, "c1"), []LaneType{Initial})

	if len(l.Lanes()) != 1 {
		t.Fatalf("linear chain should never open a second lane, got %v", l.Lanes())
	}
}

func TestLanes_MergeOpensHeadLane(t *testing.T) {
	l := &Lanes{}

	// m merges p2 into the p1 line: m -> {p1, p2}, p1 -> p2, p2 root.
	assertRow(t, step(l, "m", "p1", "p2"), []LaneType{MergeForkL, HeadR})

	// The head lane opened by the merge is a passive line on the next
	// row while p1 continues in the active lane.
	assertRow(t, step(l, "p1", "p2"), []LaneType{Active, NotActive})

	// Both lanes now await p2: a fork that closes the side lane.
	assertRow(t, step(l, "p2"), []LaneType{MergeForkL, TailR})

	// The fork freed the side lane and trimmed it.
	if got := len(l.Lanes()); got != 1 {
		t.Fatalf("after fork want 1 lane, got %d (%v)", got, l.Lanes())
	}
}

func TestLanes_MergeJoinsExistingLane(t *testing.T) {
	l := &Lanes{}

	// Two parallel lines: b (active) and f (side lane opened by m1).
	assertRow(t, step(l, "m1", "b1", "f1"), []LaneType{MergeForkL, HeadR})

	// b1 merges f1 as well: f1 already has a lane, so it joins rather
	// than opening another head.
	assertRow(t, step(l, "b1", "b2", "f1"), []LaneType{MergeForkL, JoinR})

	assertRow(t, step(l, "b2", "f1"), []LaneType{Active, NotActive})
	assertRow(t, step(l, "f1"), []LaneType{MergeForkL, TailR})
}

func TestLanes_DiscontinuityStartsBranchLane(t *testing.T) {
	l := &Lanes{}

	assertRow(t, step(l, "a1", "a2"), []LaneType{Branch})

	// x1 is not awaited by any lane: the old line goes passive and a
	// fresh branch lane opens next to it.
	row := step(l, "x1", "a2")
	assertRow(t, row, []LaneType{NotActive, Branch})

	// Both lanes now await a2, forking on the next row.
	row = step(l, "a2")
	found := false
	for _, cell := range row {
		if cell.IsNode() {
			found = true
		}
	}
	if !found {
		t.Fatalf("fork row should contain a node cell, got %v", row)
	}
}

func TestLanes_SnapshotIsACopy(t *testing.T) {
	l := &Lanes{}
	row := step(l, "c2", "c1")
	row[0] = Empty

	if got := l.Lanes()[0]; got == Empty {
		t.Fatal("mutating a snapshot must not affect engine state")
	}
}

func TestLanes_InitAndClear(t *testing.T) {
	l := &Lanes{}
	if !l.IsEmpty() {
		t.Fatal("new engine should be empty")
	}

	l.Init("sha")
	if l.IsEmpty() {
		t.Fatal("Init should open a lane")
	}
	assertRow(t, l.Lanes(), []LaneType{Branch})

	l.Clear()
	if !l.IsEmpty() {
		t.Fatal("Clear should drop all lanes")
	}
}
