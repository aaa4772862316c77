// Package cache holds the in-memory revision cache behind a history
// browser: commits in traversal order, hash and diff indexes, per
// commit references, lane topology, and the synthetic
// working-directory commit at row 0.
package cache

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/fmartz/revgraph/pkg/graph"
	"github.com/fmartz/revgraph/pkg/object"
)

// ErrNotFound reports a lookup against a hash the cache never indexed.
var ErrNotFound = errors.New("cache: commit not found")

// Cache is the shared revision store. One mutex guards every
// operation; no lock is held across calls and no I/O happens under it.
//
// The bulk-load window is a cooperative flag, not a second lock:
// while it is open, bulk inserts are accepted and read queries return
// zero values instead of blocking. Query methods return copies, never
// live handles into the store.
type Cache struct {
	mu     sync.Mutex
	logger *log.Logger

	loading    bool
	rows       []*object.Commit // slot 0 reserved for the WIP commit
	byHash     map[object.Hash]*object.Commit
	diffs      map[diffKey]RevisionFiles
	referenced []*object.Commit
	untracked  []string

	lanes graph.Lanes
	names nameInterner
}

// New returns an empty cache. Gate violations are discarded unless a
// logger is installed with SetLogger.
func New() *Cache {
	return &Cache{
		logger: log.New(io.Discard, "", 0),
		byHash: make(map[object.Hash]*object.Commit),
		diffs:  make(map[diffKey]RevisionFiles),
	}
}

// SetLogger routes the non-fatal gate messages ("cache is updating",
// duplicate insert skipped, ...) to l.
func (c *Cache) SetLogger(l *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// BeginBulkLoad opens the streaming-fill window, sizing the sequence
// for expected commits plus the reserved WIP slot. Reopening an
// already open window is a no-op.
func (c *Cache) BeginBulkLoad(expected int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Printf("cache: configuring for %d elements", expected)

	if c.loading {
		return
	}
	if len(c.rows) == 0 {
		if expected < 0 {
			expected = 0
		}
		// One extra slot for the working-directory commit at row 0.
		c.rows = make([]*object.Commit, expected+1)
	}
	c.loading = true
}

// EndBulkLoad closes the streaming-fill window; read queries are valid
// again afterwards.
func (c *Cache) EndBulkLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
}

// AppendCommit inserts a single interactively created commit at the
// head of the history (row 1, right under the WIP commit), computes
// its lanes, and moves localBranch's pointer from the previous head
// onto it. Used outside the bulk window, e.g. right after the user
// commits staged changes.
func (c *Cache) AppendCommit(commit object.Commit, localBranch string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit.Lanes = c.calculateLanes(commit)
	stored := &commit

	if len(c.rows) == 0 {
		c.rows = append(c.rows, nil)
	}
	c.rows = append(c.rows, nil)
	copy(c.rows[2:], c.rows[1:])
	c.rows[1] = stored
	c.byHash[commit.Sha] = stored

	if parent, ok := c.byHash[commit.Parent(0)]; ok {
		if parent.References.Contains(object.RefLocalBranch, localBranch) {
			parent.References.Remove(object.RefLocalBranch, localBranch)
		}
	}
	stored.References.Add(object.RefLocalBranch, localBranch)
	c.trackReferenced(stored)
}

// UpdateCommitHash replaces the cached entry for oldSha with commit,
// keeping the references already attached to it. Used when an amend
// rewrites a commit's identity. Returns ErrNotFound when oldSha was
// never indexed.
func (c *Cache) UpdateCommitHash(oldSha object.Hash, commit object.Commit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.byHash[oldSha]
	if !ok {
		return ErrNotFound
	}

	refs := stored.References
	commit.References = refs
	*stored = commit

	delete(c.byHash, oldSha)
	c.byHash[commit.Sha] = stored
	return nil
}

// GetByRow returns the commit at row, or an empty commit when the row
// is out of bounds or the cache is mid-bulk-load. Never fails.
func (c *Cache) GetByRow(row int) object.Commit {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return object.Commit{}
	}
	if row < 0 || row >= len(c.rows) || c.rows[row] == nil {
		return object.Commit{}
	}
	return c.rows[row].Clone()
}

// GetByHash returns the commit stored under sha. When no exact entry
// exists, sha is treated as an abbreviation and the first stored hash
// carrying it as a prefix wins; with several candidates the choice
// follows map iteration order and is not deterministic.
func (c *Cache) GetByHash(sha object.Hash) object.Commit {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return object.Commit{}
	}
	if sha.IsZero() {
		return object.Commit{}
	}
	if stored, ok := c.byHash[sha]; ok {
		return stored.Clone()
	}
	for full, stored := range c.byHash {
		if full.HasPrefix(sha) {
			return stored.Clone()
		}
	}
	return object.Commit{}
}

// GetPosition returns the row index of sha, or -1.
func (c *Cache) GetPosition(sha object.Hash) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return -1
	}
	stored, ok := c.byHash[sha]
	if !ok {
		return -1
	}
	for i, row := range c.rows {
		if row == stored {
			return i
		}
	}
	return -1
}

// FindByField scans from startRow for the first commit whose field
// contains text (case-sensitive). When nothing matches before the end
// and startRow > 0, the scan wraps once over [0, startRow).
func (c *Cache) FindByField(field object.Field, text string, startRow int) object.Commit {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return object.Commit{}
	}
	if startRow < 0 {
		startRow = 0
	}
	if found := c.searchRows(field, text, startRow, len(c.rows)); found != nil {
		return found.Clone()
	}
	if startRow > 0 {
		if found := c.searchRows(field, text, 0, startRow); found != nil {
			return found.Clone()
		}
	}
	return object.Commit{}
}

func (c *Cache) searchRows(field object.Field, text string, from, to int) *object.Commit {
	for i := from; i < to && i < len(c.rows); i++ {
		if c.rows[i] == nil {
			continue
		}
		if containsField(c.rows[i], field, text) {
			return c.rows[i]
		}
	}
	return nil
}

// InsertDuringBulkLoad stores a streamed commit at orderIdx. Only
// effective while the bulk window is open; duplicates and the WIP
// sentinel are skipped with a log line.
//
// Precondition: records arrive newest first, child before parent. The
// method drops the hash index entry for the commit's first parent on
// that assumption, since the parent's own record will re-index it.
func (c *Cache) InsertDuringBulkLoad(commit object.Commit, orderIdx int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loading {
		c.logger.Printf("cache: bulk insert outside the load window")
		return
	}
	if commit.Sha.IsWIP() || commit.Sha.IsZero() {
		c.logger.Printf("cache: refusing to bulk insert the WIP sentinel")
		return
	}
	if orderIdx < 1 {
		c.logger.Printf("cache: row %d is reserved, skipping %s", orderIdx, commit.Sha.Short())
		return
	}
	if _, ok := c.byHash[commit.Sha]; ok {
		c.logger.Printf("cache: commit %s already cached", commit.Sha.Short())
		return
	}

	// The lane engine advances exactly once per streamed commit, even
	// when the row slot turns out to be unchanged.
	commit.Lanes = c.calculateLanes(commit)
	stored := &commit

	switch {
	case orderIdx >= len(c.rows):
		c.rows = append(c.rows, stored)
	case c.rows[orderIdx] == nil || !c.rows[orderIdx].Equal(commit):
		c.rows[orderIdx] = stored
	default:
		stored = c.rows[orderIdx]
	}
	c.byHash[commit.Sha] = stored

	delete(c.byHash, commit.Parent(0))
}

// InsertDiff stores the change set between sha1 and sha2. The write
// happens only when both hashes are set and the value differs from
// what is already cached; a no-op re-insert is an equality check, not
// a write. Reports whether a write occurred.
func (c *Cache) InsertDiff(sha1, sha2 object.Hash, rf RevisionFiles) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return false
	}
	return c.insertDiff(sha1, sha2, rf)
}

func (c *Cache) insertDiff(sha1, sha2 object.Hash, rf RevisionFiles) bool {
	if sha1.IsZero() || sha2.IsZero() {
		return false
	}
	key := diffKey{sha1, sha2}
	if existing, ok := c.diffs[key]; ok && existing.Equal(rf) {
		return false
	}
	c.diffs[key] = rf.clone()
	return true
}

// GetDiff returns the change set stored under (sha1, sha2), or an
// empty one when absent or mid-bulk-load.
func (c *Cache) GetDiff(sha1, sha2 object.Hash) RevisionFiles {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return NewRevisionFiles()
	}
	if rf, ok := c.diffs[diffKey{sha1, sha2}]; ok {
		return rf.clone()
	}
	return NewRevisionFiles()
}

// HasDiff reports whether a change set is cached for (sha1, sha2).
func (c *Cache) HasDiff(sha1, sha2 object.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return false
	}
	_, ok := c.diffs[diffKey{sha1, sha2}]
	return ok
}

// AttachReference adds name under kind to the commit stored for sha.
// Only effective inside the bulk window; unknown hashes are skipped.
func (c *Cache) AttachReference(sha object.Hash, kind object.RefKind, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loading {
		c.logger.Printf("cache: reference %q outside the load window", name)
		return
	}
	stored, ok := c.byHash[sha]
	if !ok {
		return
	}
	stored.References.Add(kind, name)
	c.trackReferenced(stored)
}

// ClearReferences replaces the commit's reference set with an empty
// one.
func (c *Cache) ClearReferences(sha object.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return
	}
	if stored, ok := c.byHash[sha]; ok {
		stored.References = object.References{}
	}
}

// RefPair is one referenced commit and the names a listing asked for.
type RefPair struct {
	Sha   object.Hash
	Names []string
}

// ListReferences enumerates the commits that ever had a reference
// attached, with their names under kind. Empty while mid-bulk-load.
func (c *Cache) ListReferences(kind object.RefKind) []RefPair {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return nil
	}
	out := make([]RefPair, 0, len(c.referenced))
	for _, stored := range c.referenced {
		out = append(out, RefPair{Sha: stored.Sha, Names: stored.References.Get(kind)})
	}
	return out
}

// ListTags enumerates referenced commits with their tag names.
func (c *Cache) ListTags() []RefPair {
	return c.ListReferences(object.RefTag)
}

// FindCommitForBranch returns the hash of the commit whose local (or
// remote) branch list contains name, or "" when no referenced commit
// carries it.
func (c *Cache) FindCommitForBranch(name string, local bool) object.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		c.logger.Printf("cache: the cache is updating")
		return ""
	}
	kind := object.RefRemoteBranch
	if local {
		kind = object.RefLocalBranch
	}
	for _, stored := range c.referenced {
		if stored.References.Contains(kind, name) {
			return stored.Sha
		}
	}
	return ""
}

// SetUntrackedFiles replaces the untracked-file list the next WIP
// refresh folds into the working-directory diff.
func (c *Cache) SetUntrackedFiles(files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.untracked = append([]string(nil), files...)
}

// RecomputeAllLanes replays every historical commit through a freshly
// reset lane engine, in sequence order. Used after upstream reordering
// or filtering invalidated the stored topology.
func (c *Cache) RecomputeAllLanes() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lanes.Clear()
	for i, stored := range c.rows {
		if i == 0 || stored == nil {
			continue
		}
		stored.Lanes = c.calculateLanes(*stored)
	}
}

// Reset purges the hash and diff indexes, reference tracking and lane
// state. The row sequence keeps its layout for re-population and the
// name tables keep growing for the lifetime of the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byHash = make(map[object.Hash]*object.Commit)
	c.diffs = make(map[diffKey]RevisionFiles)
	c.referenced = c.referenced[:0]
	c.lanes.Clear()
}

// Count returns the current sequence length, reserved WIP slot
// included.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

func (c *Cache) trackReferenced(stored *object.Commit) {
	for _, ref := range c.referenced {
		if ref == stored {
			return
		}
	}
	c.referenced = append(c.referenced, stored)
}

func containsField(commit *object.Commit, field object.Field, text string) bool {
	return strings.Contains(commit.FieldString(field), text)
}

// calculateLanes runs one commit through the lane engine and returns
// the row snapshot. Must run exactly once per commit, in traversal
// order; the caller holds the cache mutex.
func (c *Cache) calculateLanes(commit object.Commit) []graph.LaneType {
	sha := string(commit.Sha)
	if c.lanes.IsEmpty() {
		c.lanes.Init(sha)
	}

	isFork, isDiscontinuity := c.lanes.IsFork(sha)
	isMerge := commit.ParentsCount() > 1

	if isDiscontinuity {
		c.lanes.ChangeActiveLane(sha)
	}
	if isFork {
		c.lanes.SetFork(sha)
	}
	if isMerge {
		parents := make([]string, len(commit.Parents))
		for i, p := range commit.Parents {
			parents[i] = string(p)
		}
		c.lanes.SetMerge(parents)
	}
	if commit.ParentsCount() == 0 {
		c.lanes.SetInitial()
	}

	lanes := c.lanes.Lanes()

	// Advance the engine for the next row.
	c.lanes.NextParent(string(commit.Parent(0)))
	if isMerge {
		c.lanes.AfterMerge()
	}
	if isFork {
		c.lanes.AfterFork()
	}
	if c.lanes.IsBranch() {
		c.lanes.AfterBranch()
	}
	return lanes
}
