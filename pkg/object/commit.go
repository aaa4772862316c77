package object

import (
	"strconv"
	"time"

	"github.com/fmartz/revgraph/pkg/graph"
)

// Field selects which commit attribute a text search runs against.
type Field int

const (
	FieldSha    Field = iota // commit hash
	FieldLog                 // subject line
	FieldAuthor              // author name and email
	FieldDate                // author timestamp, unix seconds as text
)

// Commit is one cached history entry. Commits are plain values: the
// cache hands out copies, so holding one never aliases cache state.
type Commit struct {
	Sha        Hash
	Parents    []Hash // ordered, first parent drives the lane topology
	Author     string
	AuthorDate int64 // unix seconds
	ShortLog   string
	LongLog    string
	Lanes      []graph.LaneType
	References References
}

// NewCommit builds a historical commit record.
func NewCommit(sha Hash, parents []Hash, author string, authorDate int64, shortLog, longLog string) Commit {
	return Commit{
		Sha:        sha,
		Parents:    parents,
		Author:     author,
		AuthorDate: authorDate,
		ShortLog:   shortLog,
		LongLog:    longLog,
	}
}

// NewWIPCommit builds the working-directory pseudo-commit. It is the
// only constructor allowed to produce the zero-hash sentinel.
func NewWIPCommit(parent Hash, shortLog string) Commit {
	return Commit{
		Sha:        ZeroHash,
		Parents:    []Hash{parent},
		Author:     "-",
		AuthorDate: time.Now().Unix(),
		ShortLog:   shortLog,
	}
}

// IsValid reports whether c holds a real entry rather than the empty
// sentinel returned by cache misses.
func (c Commit) IsValid() bool {
	return c.Sha != ""
}

// IsWIP reports whether c is the working-directory pseudo-commit.
func (c Commit) IsWIP() bool {
	return c.Sha.IsWIP()
}

// Parent returns the i-th parent hash, or "" when out of range.
func (c Commit) Parent(i int) Hash {
	if i < 0 || i >= len(c.Parents) {
		return ""
	}
	return c.Parents[i]
}

// ParentsCount returns the number of parents.
func (c Commit) ParentsCount() int {
	return len(c.Parents)
}

// FieldString returns the attribute text a Field search matches on.
func (c Commit) FieldString(f Field) string {
	switch f {
	case FieldSha:
		return string(c.Sha)
	case FieldLog:
		return c.ShortLog
	case FieldAuthor:
		return c.Author
	case FieldDate:
		return strconv.FormatInt(c.AuthorDate, 10)
	default:
		return ""
	}
}

// Clone returns a deep copy of c so query results never alias cache
// internals.
func (c Commit) Clone() Commit {
	out := c
	if c.Parents != nil {
		out.Parents = make([]Hash, len(c.Parents))
		copy(out.Parents, c.Parents)
	}
	if c.Lanes != nil {
		out.Lanes = make([]graph.LaneType, len(c.Lanes))
		copy(out.Lanes, c.Lanes)
	}
	out.References = c.References.Clone()
	return out
}

// Equal compares the identity-bearing fields of two commits. Lane
// assignments and references are display state and do not count.
func (c Commit) Equal(other Commit) bool {
	if c.Sha != other.Sha || c.Author != other.Author || c.AuthorDate != other.AuthorDate ||
		c.ShortLog != other.ShortLog || c.LongLog != other.LongLog ||
		len(c.Parents) != len(other.Parents) {
		return false
	}
	for i := range c.Parents {
		if c.Parents[i] != other.Parents[i] {
			return false
		}
	}
	return true
}
