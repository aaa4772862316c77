package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
)

// Record and field separators for the log pretty format. ASCII RS/US
// cannot appear in hashes, author names or sane commit messages.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

var logFormat = strings.Join([]string{"%H", "%P", "%an <%ae>", "%at", "%s", "%b"}, fieldSep)

// GitCLI loads history by shelling out to the git binary. This is the
// streaming fill the cache's bulk window exists for: rev-list sizes
// the store, log --topo-order supplies records newest first, and the
// raw diff-index output feeds the working-directory refresh untouched.
type GitCLI struct {
	Dir string // repository working directory
	Bin string // git binary, "git" when empty
}

// Load fills c with the repository's full first-parent-ordered history
// and returns the HEAD hash.
func (g *GitCLI) Load(ctx context.Context, c *cache.Cache) (object.Hash, error) {
	head, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	headSha := object.Hash(strings.TrimSpace(head))

	countOut, err := g.run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return "", fmt.Errorf("count revisions: %w", err)
	}
	expected, err := strconv.Atoi(strings.TrimSpace(countOut))
	if err != nil {
		return "", fmt.Errorf("count revisions: parse %q: %w", strings.TrimSpace(countOut), err)
	}

	logOut, err := g.run(ctx, "log", "--topo-order", "--pretty=format:"+recordSep+logFormat)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}

	c.BeginBulkLoad(expected)
	orderIdx := 1
	for _, record := range strings.Split(logOut, recordSep) {
		commit, ok := parseLogRecord(record)
		if !ok {
			continue
		}
		c.InsertDuringBulkLoad(commit, orderIdx)
		orderIdx++
	}
	if err := g.attachRefs(ctx, c); err != nil {
		c.EndBulkLoad()
		return "", err
	}
	c.EndBulkLoad()

	if err := g.RefreshWIP(ctx, c, headSha); err != nil {
		return "", err
	}
	return headSha, nil
}

// RefreshWIP recomputes the working-directory commit on top of head:
// current untracked files plus the raw index and cached diff blocks.
func (g *GitCLI) RefreshWIP(ctx context.Context, c *cache.Cache, head object.Hash) error {
	untrackedOut, err := g.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return fmt.Errorf("list untracked: %w", err)
	}
	var untracked []string
	for _, line := range strings.Split(untrackedOut, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			untracked = append(untracked, line)
		}
	}
	c.SetUntrackedFiles(untracked)

	// Raw colon-format blocks go to the cache's parser verbatim.
	indexDiff, err := g.run(ctx, "diff-index", "HEAD")
	if err != nil {
		return fmt.Errorf("diff index: %w", err)
	}
	cachedDiff, err := g.run(ctx, "diff-index", "--cached", "HEAD")
	if err != nil {
		return fmt.Errorf("diff index cached: %w", err)
	}

	c.RefreshWorkingDirectory(head, indexDiff, cachedDiff)
	return nil
}

// attachRefs enumerates refs and attaches them to their commits while
// the bulk window is still open.
func (g *GitCLI) attachRefs(ctx context.Context, c *cache.Cache) error {
	out, err := g.run(ctx, "for-each-ref", "--format=%(objectname) %(refname)")
	if err != nil {
		return fmt.Errorf("list refs: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		sha, refName, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(refName, "refs/heads/"):
			c.AttachReference(object.Hash(sha), object.RefLocalBranch, strings.TrimPrefix(refName, "refs/heads/"))
		case strings.HasPrefix(refName, "refs/remotes/"):
			c.AttachReference(object.Hash(sha), object.RefRemoteBranch, strings.TrimPrefix(refName, "refs/remotes/"))
		case strings.HasPrefix(refName, "refs/tags/"):
			c.AttachReference(object.Hash(sha), object.RefTag, strings.TrimPrefix(refName, "refs/tags/"))
		}
	}
	return nil
}

func (g *GitCLI) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Bin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// parseLogRecord turns one RS-delimited log record into a commit.
func parseLogRecord(record string) (object.Commit, bool) {
	if strings.TrimSpace(record) == "" {
		return object.Commit{}, false
	}
	fields := strings.SplitN(record, fieldSep, 6)
	if len(fields) != 6 {
		return object.Commit{}, false
	}

	sha := object.Hash(strings.TrimSpace(fields[0]))
	if sha.IsZero() {
		return object.Commit{}, false
	}

	var parents []object.Hash
	for _, p := range strings.Fields(fields[1]) {
		parents = append(parents, object.Hash(p))
	}

	authorDate, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return object.Commit{}, false
	}

	return object.NewCommit(sha, parents, fields[2], authorDate,
		strings.TrimSpace(fields[4]), strings.TrimRight(fields[5], "\n")), true
}
