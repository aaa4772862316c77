// Package source feeds a revision cache from an actual repository,
// either by streaming the git binary's output or by reading the
// object database with go-git. The cache itself never talks to a
// repository; a Source is the collaborator that does.
package source

import (
	"context"

	"github.com/fmartz/revgraph/pkg/cache"
	"github.com/fmartz/revgraph/pkg/object"
)

// Source loads a repository's history into a cache: it opens the bulk
// window, streams commits newest first, attaches references while the
// window is still open, records the untracked list, and finally
// refreshes the working-directory commit. Returns the head hash.
type Source interface {
	Load(ctx context.Context, c *cache.Cache) (object.Hash, error)
}
