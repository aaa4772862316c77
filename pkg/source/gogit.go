package source

import (
	"context"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitobj "github.com/go-git/go-git/v5/plumbing/object"

	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
)

// GoGit loads history by reading the repository directly with go-git,
// no git binary required. Commits arrive in committer-time order
// (newest first), which satisfies the cache's child-before-parent
// streaming precondition on linear histories and closely tracks
// --topo-order elsewhere. The working-directory diff blocks still
// need the git CLI; when no binary is available the WIP commit is
// built from the worktree's untracked list alone.
type GoGit struct {
	Dir string
}

// Load fills c from the repository at Dir and returns the HEAD hash.
func (g *GoGit) Load(ctx context.Context, c *cache.Cache) (object.Hash, error) {
	repo, err := git.PlainOpen(g.Dir)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	headSha := object.Hash(head.Hash().String())

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	var commits []object.Commit
	err = iter.ForEach(func(gc *gitobj.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, convertCommit(gc))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk log: %w", err)
	}

	c.BeginBulkLoad(len(commits))
	for i, commit := range commits {
		c.InsertDuringBulkLoad(commit, i+1)
	}
	if err := attachGoGitRefs(repo, c); err != nil {
		c.EndBulkLoad()
		return "", err
	}
	c.EndBulkLoad()

	if err := setUntrackedFromWorktree(repo, c); err != nil {
		return "", err
	}

	// The raw diff blocks for the WIP commit still come from the git
	// binary. Without one, the refresh degrades to the untracked list
	// gathered above so row 0 and the status summary stay populated.
	cli := &GitCLI{Dir: g.Dir}
	if err := cli.RefreshWIP(ctx, c, headSha); err != nil {
		c.RefreshWorkingDirectory(headSha, "", "")
	}
	return headSha, nil
}

func convertCommit(gc *gitobj.Commit) object.Commit {
	parents := make([]object.Hash, len(gc.ParentHashes))
	for i, p := range gc.ParentHashes {
		parents[i] = object.Hash(p.String())
	}

	subject, body, _ := strings.Cut(gc.Message, "\n")
	author := fmt.Sprintf("%s <%s>", gc.Author.Name, gc.Author.Email)

	return object.NewCommit(object.Hash(gc.Hash.String()), parents, author,
		gc.Author.When.Unix(), strings.TrimSpace(subject), strings.TrimSpace(body))
}

func attachGoGitRefs(repo *git.Repository, c *cache.Cache) error {
	refs, err := repo.References()
	if err != nil {
		return fmt.Errorf("list refs: %w", err)
	}
	return refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		sha := object.Hash(ref.Hash().String())
		name := ref.Name()
		switch {
		case name.IsBranch():
			c.AttachReference(sha, object.RefLocalBranch, name.Short())
		case name.IsRemote():
			c.AttachReference(sha, object.RefRemoteBranch, name.Short())
		case name.IsTag():
			c.AttachReference(sha, object.RefTag, name.Short())
		}
		return nil
	})
}

func setUntrackedFromWorktree(repo *git.Repository, c *cache.Cache) error {
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: nothing untracked to report.
		c.SetUntrackedFiles(nil)
		return nil
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("worktree status: %w", err)
	}
	var untracked []string
	for path, st := range status {
		if st.Worktree == git.Untracked {
			untracked = append(untracked, path)
		}
	}
	c.SetUntrackedFiles(untracked)
	return nil
}
