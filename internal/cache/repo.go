package cache

import (
	"strings"
	"time"
)

// Logical namespaces for repository-scoped entries. Composite keys are
// "<namespace>:<repository>:<path>" so invalidating one repository never
// disturbs another repository's entries or the global repository list.
const (
	nsRepoList = "repo_list"
	nsContents = "repo_contents"
	nsCommits  = "repo_commits"
)

// RepoCache layers repository-aware keys over a Store. It is the single
// domain cache shared by all request call sites in the process.
type RepoCache struct {
	store *Store[any]
}

// NewRepoCache creates a RepoCache over its own backing store.
func NewRepoCache(defaultTTL time.Duration, maxItems int, enabled bool) *RepoCache {
	return &RepoCache{store: NewStore[any](defaultTTL, maxItems, enabled)}
}

func key(namespace, repo, path string) string {
	return namespace + ":" + repo + ":" + path
}

// Repositories returns the cached organization repository list.
func (rc *RepoCache) Repositories() (any, bool) {
	return rc.store.Get(key(nsRepoList, "", ""))
}

// SetRepositories caches the organization repository list.
func (rc *RepoCache) SetRepositories(v any) {
	rc.store.Set(key(nsRepoList, "", ""), v)
}

// Contents returns the cached listing for a repository path.
func (rc *RepoCache) Contents(repo, path string) (any, bool) {
	return rc.store.Get(key(nsContents, repo, path))
}

// SetContents caches a repository path listing.
func (rc *RepoCache) SetContents(repo, path string, v any) {
	rc.store.Set(key(nsContents, repo, path), v)
}

// Commits returns the cached commit list for a repository.
func (rc *RepoCache) Commits(repo string) (any, bool) {
	return rc.store.Get(key(nsCommits, repo, ""))
}

// SetCommits caches a repository commit list.
func (rc *RepoCache) SetCommits(repo string, v any) {
	rc.store.Set(key(nsCommits, repo, ""), v)
}

// InvalidateRepository removes every entry scoped to the given repository,
// e.g. after an upload changed its contents. The global repository list is
// left alone.
func (rc *RepoCache) InvalidateRepository(repo string) {
	prefixes := []string{
		key(nsContents, repo, ""),
		key(nsCommits, repo, ""),
	}
	rc.store.DeleteFunc(func(k string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				return true
			}
		}
		return false
	})
}

// InvalidateAll drops everything, including the repository list.
func (rc *RepoCache) InvalidateAll() {
	rc.store.Clear()
}

// Stats exposes backing store occupancy for the status bar.
func (rc *RepoCache) Stats() Stats {
	return rc.store.Stats()
}
