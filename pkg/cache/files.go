package cache

import "github.com/fmartz/revgraph/pkg/object"

// FileStatus is a bitwise-composable per-file change state. A file can
// carry several flags at once, e.g. Conflict|InIndex while a merge is
// being resolved.
type FileStatus int

const (
	StatusModified FileStatus = 1 << iota // content changed
	StatusDeleted                         // removed in the new revision
	StatusNew                             // added in the new revision
	StatusRenamed                         // recorded via ext status
	StatusCopied                          // recorded via ext status
	StatusUnknown                         // untracked by the VCS
	StatusInIndex                         // staged in the index
	StatusConflict                        // unresolved merge conflict
)

// RevisionFiles is the parsed change set between two revisions, keyed
// in the cache by the (old, new) hash pair. Files, Status and
// MergeParent run in parallel; ExtStatus is sparse and only sized up
// to the last rename/copy entry.
type RevisionFiles struct {
	Files       []string // deduplicated paths, insertion order
	Status      []FileStatus
	MergeParent []int // 1-based parent index the entry belongs to
	ExtStatus   []string

	// OnlyModified stays true while every entry is a plain content
	// modification, letting a viewer skip rename/copy decoration.
	OnlyModified bool
}

// NewRevisionFiles returns an empty change set.
func NewRevisionFiles() RevisionFiles {
	return RevisionFiles{OnlyModified: true}
}

// Count returns the number of file entries.
func (rf RevisionFiles) Count() int {
	return len(rf.Files)
}

// File returns the path of entry i, or "" when out of range.
func (rf RevisionFiles) File(i int) string {
	if i < 0 || i >= len(rf.Files) {
		return ""
	}
	return rf.Files[i]
}

// StatusAt returns the status flags of entry i.
func (rf RevisionFiles) StatusAt(i int) FileStatus {
	if i < 0 || i >= len(rf.Status) {
		return 0
	}
	return rf.Status[i]
}

// StatusCmp reports whether entry i carries flag.
func (rf RevisionFiles) StatusCmp(i int, flag FileStatus) bool {
	return rf.StatusAt(i)&flag != 0
}

// AppendStatus ORs flag into entry i's status. Flags accumulate across
// parse passes instead of overwriting each other.
func (rf *RevisionFiles) AppendStatus(i int, flag FileStatus) {
	if i < 0 || i >= len(rf.Status) {
		return
	}
	rf.Status[i] |= flag
	if flag != StatusModified {
		rf.OnlyModified = false
	}
}

// ExtStatusAt returns the "orig --> dest (NN%)" text of entry i, or ""
// when the entry is not a rename or copy.
func (rf RevisionFiles) ExtStatusAt(i int) string {
	if i < 0 || i >= len(rf.ExtStatus) {
		return ""
	}
	return rf.ExtStatus[i]
}

// indexOf returns the position of path, or -1.
func (rf RevisionFiles) indexOf(path string) int {
	for i, f := range rf.Files {
		if f == path {
			return i
		}
	}
	return -1
}

// setExtStatus stores text at entry i, growing the sparse slice.
func (rf *RevisionFiles) setExtStatus(i int, text string) {
	for len(rf.ExtStatus) <= i {
		rf.ExtStatus = append(rf.ExtStatus, "")
	}
	rf.ExtStatus[i] = text
	rf.OnlyModified = false
}

// Equal reports per-entry equality of two change sets.
func (rf RevisionFiles) Equal(other RevisionFiles) bool {
	if len(rf.Files) != len(other.Files) ||
		len(rf.ExtStatus) != len(other.ExtStatus) ||
		rf.OnlyModified != other.OnlyModified {
		return false
	}
	for i := range rf.Files {
		if rf.Files[i] != other.Files[i] ||
			rf.Status[i] != other.Status[i] ||
			rf.MergeParent[i] != other.MergeParent[i] {
			return false
		}
	}
	for i := range rf.ExtStatus {
		if rf.ExtStatus[i] != other.ExtStatus[i] {
			return false
		}
	}
	return true
}

// clone returns an independent copy so query results never alias the
// cached value.
func (rf RevisionFiles) clone() RevisionFiles {
	out := RevisionFiles{OnlyModified: rf.OnlyModified}
	if rf.Files != nil {
		out.Files = append([]string(nil), rf.Files...)
		out.Status = append([]FileStatus(nil), rf.Status...)
		out.MergeParent = append([]int(nil), rf.MergeParent...)
	}
	if rf.ExtStatus != nil {
		out.ExtStatus = append([]string(nil), rf.ExtStatus...)
	}
	return out
}

// diffKey addresses a RevisionFiles entry by its revision pair.
type diffKey struct {
	sha1 object.Hash
	sha2 object.Hash
}
