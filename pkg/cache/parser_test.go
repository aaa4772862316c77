package cache

import (
	"fmt"
	"strings"
	"testing"
)

// rawLine builds a plain change line the way git prints it with
// 40-character hashes, which is exactly the fast-path shape: status
// letter at byte 97, tab at 98, path from 99.
func rawLine(status byte, path string) string {
	return fmt.Sprintf(":100644 100644 %s %s %c\t%s",
		strings.Repeat("a", 40), strings.Repeat("b", 40), status, path)
}

func TestParseDiff_PlainModify(t *testing.T) {
	c := New()

	rf := c.ParseDiff(rawLine('M', "a/b/c.txt"))

	if rf.Count() != 1 {
		t.Fatalf("count = %d, want 1", rf.Count())
	}
	if got := rf.File(0); got != "a/b/c.txt" {
		t.Fatalf("file = %q, want a/b/c.txt", got)
	}
	if !rf.StatusCmp(0, StatusModified) {
		t.Fatalf("status = %v, want modified", rf.StatusAt(0))
	}
	if got := rf.MergeParent[0]; got != 1 {
		t.Fatalf("merge parent = %d, want 1", got)
	}
	if !rf.OnlyModified {
		t.Fatal("a pure modify should keep OnlyModified")
	}
}

func TestParseDiff_StatusCodes(t *testing.T) {
	cases := []struct {
		code byte
		want FileStatus
	}{
		{'M', StatusModified},
		{'T', StatusModified},
		{'D', StatusDeleted},
		{'A', StatusNew},
		{'?', StatusUnknown},
		{'U', StatusModified | StatusConflict},
		{'Z', StatusModified}, // unrecognized codes read as modified
	}
	for _, tc := range cases {
		c := New()
		rf := c.ParseDiff(rawLine(tc.code, "file.txt"))
		if got := rf.StatusAt(0); got != tc.want {
			t.Fatalf("code %c: status = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestParseDiff_DuplicatePathsAccumulate(t *testing.T) {
	c := New()

	blob := rawLine('M', "same.txt") + "\n" + rawLine('D', "same.txt")
	rf := c.ParseDiff(blob)

	if rf.Count() != 1 {
		t.Fatalf("count = %d, want 1 deduplicated entry", rf.Count())
	}
	if !rf.StatusCmp(0, StatusModified) || !rf.StatusCmp(0, StatusDeleted) {
		t.Fatalf("status = %v, want modified|deleted", rf.StatusAt(0))
	}
}

func TestParseDiff_Rename(t *testing.T) {
	c := New()

	rf := c.ParseDiff(":R90\told/name.txt\tnew/name.txt")

	if rf.Count() != 2 {
		t.Fatalf("count = %d, want 2", rf.Count())
	}
	wantExt := "old/name.txt --> new/name.txt (90%)"

	if got := rf.File(0); got != "new/name.txt" {
		t.Fatalf("file 0 = %q, want the destination", got)
	}
	if !rf.StatusCmp(0, StatusNew) {
		t.Fatalf("destination status = %v, want new", rf.StatusAt(0))
	}
	if got := rf.ExtStatusAt(0); got != wantExt {
		t.Fatalf("destination ext = %q, want %q", got, wantExt)
	}

	if got := rf.File(1); got != "old/name.txt" {
		t.Fatalf("file 1 = %q, want the origin", got)
	}
	if !rf.StatusCmp(1, StatusDeleted) {
		t.Fatalf("origin status = %v, want deleted", rf.StatusAt(1))
	}
	if got := rf.ExtStatusAt(1); got != wantExt {
		t.Fatalf("origin ext = %q, want %q", got, wantExt)
	}

	if rf.OnlyModified {
		t.Fatal("a rename must clear OnlyModified")
	}
}

func TestParseDiff_CopyKeepsOrigin(t *testing.T) {
	c := New()

	rf := c.ParseDiff(":C85\tsrc.txt\tcopy.txt")

	if rf.Count() != 1 {
		t.Fatalf("count = %d, want only the destination", rf.Count())
	}
	if got := rf.File(0); got != "copy.txt" {
		t.Fatalf("file = %q, want copy.txt", got)
	}
	if !rf.StatusCmp(0, StatusNew) {
		t.Fatalf("status = %v, want new", rf.StatusAt(0))
	}
	if got := rf.ExtStatusAt(0); got != "src.txt --> copy.txt (85%)" {
		t.Fatalf("ext = %q", got)
	}
}

func TestParseDiff_CombinedMerge(t *testing.T) {
	c := New()

	rf := c.ParseDiff("::100644 100644 100644 aaa bbb ccc MM\tboth/sides.txt")

	if rf.Count() != 1 {
		t.Fatalf("count = %d, want 1", rf.Count())
	}
	if got := rf.File(0); got != "both/sides.txt" {
		t.Fatalf("file = %q", got)
	}
	if got := rf.StatusAt(0); got != StatusModified {
		t.Fatalf("combined merge entries read as modified, got %v", got)
	}
}

func TestParseDiff_ParentCounter(t *testing.T) {
	c := New()

	// Non-change lines advance the merge-parent counter.
	blob := strings.Join([]string{
		rawLine('M', "first.txt"),
		"deadbeef commit separator",
		rawLine('M', "second.txt"),
	}, "\n")
	rf := c.ParseDiff(blob)

	if rf.Count() != 2 {
		t.Fatalf("count = %d, want 2", rf.Count())
	}
	if got := rf.MergeParent[0]; got != 1 {
		t.Fatalf("first entry parent = %d, want 1", got)
	}
	if got := rf.MergeParent[1]; got != 2 {
		t.Fatalf("second entry parent = %d, want 2", got)
	}
}

func TestParseDiff_SlowPathPlainRecord(t *testing.T) {
	c := New()

	// 64-character hashes move the tab off the fast-path offset; the
	// tab-split fallback must still read the record.
	line := fmt.Sprintf(":100644 100644 %s %s M\tdeep/dir/file.txt",
		strings.Repeat("a", 64), strings.Repeat("b", 64))
	rf := c.ParseDiff(line)

	if rf.Count() != 1 || rf.File(0) != "deep/dir/file.txt" {
		t.Fatalf("slow path missed the record: %v", rf.Files)
	}
	if !rf.StatusCmp(0, StatusModified) {
		t.Fatalf("status = %v, want modified", rf.StatusAt(0))
	}
}

func TestParseDiff_TolerantOfGarbage(t *testing.T) {
	c := New()

	rf := c.ParseDiff("random noise\n\n:\n:xyz no tab here\n" + rawLine('M', "kept.txt"))

	if rf.Count() != 1 || rf.File(0) != "kept.txt" {
		t.Fatalf("parser should skip unrecognized lines, got %v", rf.Files)
	}
}

func TestInterner_TablesOnlyGrow(t *testing.T) {
	c := New()

	c.ParseDiff(rawLine('M', "dir/a.txt"))
	dirs, files := len(c.names.dirs), len(c.names.files)

	// Same directory, new file: one table grows, the other does not.
	c.ParseDiff(rawLine('M', "dir/b.txt"))
	if len(c.names.dirs) != dirs {
		t.Fatalf("dir table grew for a known directory: %v", c.names.dirs)
	}
	if len(c.names.files) != files+1 {
		t.Fatalf("file table = %v, want one new entry", c.names.files)
	}

	// Exact repeat: nothing grows.
	c.ParseDiff(rawLine('M', "dir/a.txt"))
	if len(c.names.dirs) != dirs || len(c.names.files) != files+1 {
		t.Fatal("repeat parse must not grow the intern tables")
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path, dir, file string
	}{
		{"a/b/c.txt", "a/b/", "c.txt"},
		{"top.txt", "", "top.txt"},
		{"dir/", "dir/", ""},
	}
	for _, tc := range cases {
		dir, file := splitPath(tc.path)
		if dir != tc.dir || file != tc.file {
			t.Fatalf("splitPath(%q) = %q, %q, want %q, %q", tc.path, dir, file, tc.dir, tc.file)
		}
	}
}
