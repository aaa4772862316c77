// Package graph assigns horizontal lanes to commits so a log view can
// draw the branch and merge lines of a history. The engine is strictly
// order-dependent: commits must be fed exactly once, newest first, in
// log traversal order. Shas are treated as opaque strings.
package graph

// Lanes tracks the set of branch lines open at the current row. For
// each commit the caller runs, in order: IsFork, SetFork, SetMerge,
// SetInitial, takes the Lanes snapshot, then NextParent and the
// After* transitions. The cache's lane driver owns that sequence.
type Lanes struct {
	active int
	types  []LaneType
	next   []string // sha expected in each lane on the following row
}

// Init resets the engine to a single branch lane expecting sha.
func (l *Lanes) Init(sha string) {
	l.Clear()
	l.active = 0
	l.add(Branch, sha, 0)
}

// Clear drops all lane state.
func (l *Lanes) Clear() {
	l.types = l.types[:0]
	l.next = l.next[:0]
	l.active = 0
}

// IsEmpty reports whether no lane is open.
func (l *Lanes) IsEmpty() bool {
	return len(l.types) == 0
}

// IsFork reports whether sha is awaited by more than one lane. The
// second result reports a discontinuity: the first lane awaiting sha
// is not the active one (or no lane awaits it at all), so the active
// lane has to move before the row is rendered.
func (l *Lanes) IsFork(sha string) (isFork, isDiscontinuity bool) {
	pos := l.findNext(sha, 0)
	isDiscontinuity = l.active != pos
	if pos == -1 { // sha starts a new branch line
		return false, isDiscontinuity
	}
	return l.findNext(sha, pos+1) != -1, isDiscontinuity
}

// SetFork marks every lane awaiting sha as terminating into the commit
// node and draws the connectors between the outermost of them.
func (l *Lanes) SetFork(sha string) {
	idx := l.findNext(sha, 0)
	rangeStart, rangeEnd := idx, idx

	for idx != -1 {
		rangeEnd = idx
		l.types[idx] = Tail
		idx = l.findNext(sha, idx+1)
	}
	l.types[l.active] = MergeFork

	if l.types[rangeStart] == MergeFork {
		l.types[rangeStart] = MergeForkL
	}
	if l.types[rangeEnd] == MergeFork {
		l.types[rangeEnd] = MergeForkR
	}
	if l.types[rangeStart] == Tail {
		l.types[rangeStart] = TailL
	}
	if l.types[rangeEnd] == Tail {
		l.types[rangeEnd] = TailR
	}

	for i := rangeStart + 1; i < rangeEnd; i++ {
		switch l.types[i] {
		case NotActive:
			l.types[i] = Cross
		case Empty:
			l.types[i] = CrossEmpty
		}
	}
}

// SetMerge routes every parent of a merge commit: parents already
// awaited by a lane become joins, unseen parents open head lanes.
// SetFork must have run first so the node cell is already in place.
func (l *Lanes) SetMerge(parents []string) {
	t := l.types[l.active]
	wasFork := t == MergeFork
	wasForkL := t == MergeForkL
	wasForkR := t == MergeForkR
	startJoinWasACross := false
	endJoinWasACross := false

	l.types[l.active] = MergeFork

	rangeStart, rangeEnd := l.active, l.active
	for _, p := range parents[1:] { // first parent continues the active lane
		idx := l.findNext(p, 0)
		if idx != -1 {
			if idx > rangeEnd {
				rangeEnd = idx
				endJoinWasACross = l.types[idx] == Cross
			}
			if idx < rangeStart {
				rangeStart = idx
				startJoinWasACross = l.types[idx] == Cross
			}
			l.types[idx] = Join
		} else {
			rangeEnd = l.add(Head, p, rangeEnd+1)
		}
	}

	if l.types[rangeStart] == MergeFork && !wasFork && !wasForkR {
		l.types[rangeStart] = MergeForkL
	}
	if l.types[rangeEnd] == MergeFork && !wasFork && !wasForkL {
		l.types[rangeEnd] = MergeForkR
	}
	if l.types[rangeStart] == Join && !startJoinWasACross {
		l.types[rangeStart] = JoinL
	}
	if l.types[rangeEnd] == Join && !endJoinWasACross {
		l.types[rangeEnd] = JoinR
	}
	if l.types[rangeStart] == Head {
		l.types[rangeStart] = HeadL
	}
	if l.types[rangeEnd] == Head {
		l.types[rangeEnd] = HeadR
	}

	for i := rangeStart + 1; i < rangeEnd; i++ {
		switch l.types[i] {
		case NotActive:
			l.types[i] = Cross
		case Empty:
			l.types[i] = CrossEmpty
		case TailL, TailR:
			l.types[i] = Tail
		}
	}
}

// SetInitial marks the active lane's cell as a root commit unless a
// fork or merge already claimed it.
func (l *Lanes) SetInitial() {
	if !l.types[l.active].IsNode() {
		l.types[l.active] = Initial
	}
}

// ChangeActiveLane moves the active lane to the one awaiting sha,
// opening a fresh branch lane when none does. Used on discontinuities.
func (l *Lanes) ChangeActiveLane(sha string) {
	if l.types[l.active] == Initial {
		l.types[l.active] = Empty
	} else {
		l.types[l.active] = NotActive
	}

	idx := l.findNext(sha, 0)
	if idx != -1 {
		l.types[idx] = Active
	} else {
		idx = l.add(Branch, sha, l.active)
	}
	l.active = idx
}

// AfterMerge settles join and head cells back into passive lines once
// the merge row has been snapshotted.
func (l *Lanes) AfterMerge() {
	for i, t := range l.types {
		switch {
		case t.IsHead() || t.IsJoin() || t == Cross:
			l.types[i] = NotActive
		case t == CrossEmpty:
			l.types[i] = Empty
		case t.IsNode():
			l.types[i] = Active
		}
	}
}

// AfterFork frees the lanes that terminated into the fork node and
// trims trailing empty lanes.
func (l *Lanes) AfterFork() {
	for i, t := range l.types {
		switch {
		case t == Cross:
			l.types[i] = NotActive
		case t.IsTail() || t == CrossEmpty:
			l.types[i] = Empty
		}
		if l.types[i].IsNode() {
			l.types[i] = Active
		}
	}

	for len(l.types) > 0 && l.types[len(l.types)-1] == Empty {
		l.types = l.types[:len(l.types)-1]
		l.next = l.next[:len(l.next)-1]
	}
}

// IsBranch reports whether the active lane opened at the current row.
func (l *Lanes) IsBranch() bool {
	return l.types[l.active] == Branch
}

// AfterBranch turns a freshly opened branch cell into a plain line.
func (l *Lanes) AfterBranch() {
	l.types[l.active] = Active
}

// NextParent records the sha the active lane awaits on the next row.
// An empty sha terminates the lane.
func (l *Lanes) NextParent(sha string) {
	l.next[l.active] = sha
}

// Lanes returns a copy of the current row's lane cells.
func (l *Lanes) Lanes() []LaneType {
	out := make([]LaneType, len(l.types))
	copy(out, l.types)
	return out
}

func (l *Lanes) findNext(sha string, pos int) int {
	if sha == "" {
		return -1
	}
	for i := pos; i < len(l.next); i++ {
		if l.next[i] == sha {
			return i
		}
	}
	return -1
}

func (l *Lanes) findType(t LaneType, pos int) int {
	for i := pos; i < len(l.types); i++ {
		if l.types[i] == t {
			return i
		}
	}
	return -1
}

// add places a lane in the first empty slot at or after pos, growing
// the vector when every slot is taken. Returns the chosen slot.
func (l *Lanes) add(t LaneType, sha string, pos int) int {
	if pos < len(l.types) {
		if free := l.findType(Empty, pos); free != -1 {
			l.types[free] = t
			l.next[free] = sha
			return free
		}
	}
	l.types = append(l.types, t)
	l.next = append(l.next, sha)
	return len(l.types) - 1
}
