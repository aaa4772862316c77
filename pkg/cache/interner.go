package cache

import "strings"

// nameInterner deduplicates the directory and file components of the
// paths flowing through the diff parser. Both tables are append-only
// for the lifetime of a cache instance; entries are addressed by the
// position they were first assigned.
type nameInterner struct {
	dirs    []string
	files   []string
	dirIdx  map[string]int
	fileIdx map[string]int
}

func (in *nameInterner) internDir(dir string) int {
	if in.dirIdx == nil {
		in.dirIdx = make(map[string]int)
	}
	if idx, ok := in.dirIdx[dir]; ok {
		return idx
	}
	idx := len(in.dirs)
	in.dirs = append(in.dirs, dir)
	in.dirIdx[dir] = idx
	return idx
}

func (in *nameInterner) internFile(file string) int {
	if in.fileIdx == nil {
		in.fileIdx = make(map[string]int)
	}
	if idx, ok := in.fileIdx[file]; ok {
		return idx
	}
	idx := len(in.files)
	in.files = append(in.files, file)
	in.fileIdx[file] = idx
	return idx
}

func (in *nameInterner) dir(idx int) string  { return in.dirs[idx] }
func (in *nameInterner) file(idx int) string { return in.files[idx] }

// splitPath cuts a repository path into its directory prefix
// (trailing slash included) and file suffix.
func splitPath(path string) (dir, file string) {
	idx := strings.LastIndexByte(path, '/') + 1
	return path[:idx], path[idx:]
}

// fileNamesLoader stages parsed entries as interned index pairs until
// they are flushed into a RevisionFiles. Status, merge parent and ext
// status travel with each staged entry so a duplicate path folds its
// flags into the existing entry instead of desynchronizing the
// parallel slices.
type fileNamesLoader struct {
	dirs    []int
	files   []int
	status  []FileStatus
	parents []int
	ext     []string
}

func (fl *fileNamesLoader) stage(in *nameInterner, path string, status FileStatus, parent int, ext string) {
	dir, file := splitPath(path)
	fl.dirs = append(fl.dirs, in.internDir(dir))
	fl.files = append(fl.files, in.internFile(file))
	fl.status = append(fl.status, status)
	fl.parents = append(fl.parents, parent)
	fl.ext = append(fl.ext, ext)
}

// flush reconstructs every staged path and appends it to rf,
// suppressing exact duplicates by ORing the pending flags into the
// entry already present. The loader is empty afterwards.
func (fl *fileNamesLoader) flush(in *nameInterner, rf *RevisionFiles) {
	for i := range fl.files {
		path := in.dir(fl.dirs[i]) + in.file(fl.files[i])

		if idx := rf.indexOf(path); idx != -1 {
			rf.Status[idx] |= fl.status[i]
			if fl.status[i] != StatusModified {
				rf.OnlyModified = false
			}
			if fl.ext[i] != "" {
				rf.setExtStatus(idx, fl.ext[i])
			}
			continue
		}

		rf.Files = append(rf.Files, path)
		rf.Status = append(rf.Status, fl.status[i])
		rf.MergeParent = append(rf.MergeParent, fl.parents[i])
		if fl.status[i] != StatusModified {
			rf.OnlyModified = false
		}
		if fl.ext[i] != "" {
			rf.setExtStatus(len(rf.Files)-1, fl.ext[i])
		}
	}

	fl.dirs = fl.dirs[:0]
	fl.files = fl.files[:0]
	fl.status = fl.status[:0]
	fl.parents = fl.parents[:0]
	fl.ext = fl.ext[:0]
}
