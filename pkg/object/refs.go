package object

// RefKind classifies a reference attached to a commit.
type RefKind int

const (
	RefTag          RefKind = iota // annotated or lightweight tag
	RefLocalBranch                 // branch in refs/heads
	RefRemoteBranch                // branch in refs/remotes
	RefApplied                     // stash entry applied on top of the commit
	RefUnApplied                   // stash entry not yet applied
	RefAny                         // wildcard bucket
)

// References is a per-commit multimap from reference kind to names.
// Insertion order is preserved and duplicate names are appended as-is;
// the zero value is ready to use.
type References struct {
	byKind map[RefKind][]string
}

// Add appends name under kind.
func (r *References) Add(kind RefKind, name string) {
	if r.byKind == nil {
		r.byKind = make(map[RefKind][]string)
	}
	r.byKind[kind] = append(r.byKind[kind], name)
}

// AddAll merges every entry of other into r, preserving order.
func (r *References) AddAll(other References) {
	for kind, names := range other.byKind {
		for _, name := range names {
			r.Add(kind, name)
		}
	}
}

// Get returns the names stored under kind. Absent kinds yield an
// empty slice, never an error. The result is a copy.
func (r References) Get(kind RefKind) []string {
	names := r.byKind[kind]
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Remove strips every occurrence of name under kind. Removing an
// absent name is a no-op.
func (r *References) Remove(kind RefKind, name string) {
	names := r.byKind[kind]
	if len(names) == 0 {
		return
	}
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		delete(r.byKind, kind)
		return
	}
	r.byKind[kind] = kept
}

// Contains reports whether name is stored under kind.
func (r References) Contains(kind RefKind, name string) bool {
	for _, n := range r.byKind[kind] {
		if n == name {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no kind holds any name.
func (r References) IsEmpty() bool {
	for _, names := range r.byKind {
		if len(names) > 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of r.
func (r References) Clone() References {
	if r.byKind == nil {
		return References{}
	}
	out := References{byKind: make(map[RefKind][]string, len(r.byKind))}
	for kind, names := range r.byKind {
		cp := make([]string, len(names))
		copy(cp, names)
		out.byKind[kind] = cp
	}
	return out
}
