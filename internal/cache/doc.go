package cache

// Package cache implements the in-memory TTL store that shields the app from
// GitHub API rate limits, plus the repository-scoped namespaces built on top
// of it. Expired entries are treated as absent and removed lazily; capacity
// eviction removes expired entries first, then the oldest-created ones.
