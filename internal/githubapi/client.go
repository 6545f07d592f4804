// Package githubapi is the thin client for the GitHub REST endpoints this
// app touches: organization repositories, repository contents, commits, and
// Pages. Listing calls go through the shared repository cache; every response
// feeds the rate-limit tracker.
package githubapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/cache"
	"github.com/lifetime-memories/repogallery/internal/rate"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "repogallery/1.0"
	defaultTimeout   = 10 * time.Second

	acceptHeader = "application/vnd.github.v3+json"
)

// Sentinel errors callers branch on.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrPagesNotEnabled = errors.New("github pages not enabled")
)

// Client talks to the GitHub REST API for one organization.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	org       string
	token     string
	userAgent string
	cache     *cache.RepoCache
	limits    *rate.Tracker
}

// Options configure a Client. Zero values fall back to defaults; Cache and
// Limits may be nil for uncached, untracked use (tests mostly).
type Options struct {
	BaseURL string
	Org     string
	Token   string
	Timeout time.Duration
	Cache   *cache.RepoCache
	Limits  *rate.Tracker
}

// NewClient builds a Client for the given organization.
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = defaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if opts.Org == "" {
		return nil, fmt.Errorf("organization is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		org:       opts.Org,
		token:     opts.Token,
		userAgent: defaultUserAgent,
		cache:     opts.Cache,
		limits:    opts.Limits,
	}, nil
}

// RateLimits exposes the tracker so views can surface the quota signal.
func (c *Client) RateLimits() *rate.Tracker {
	return c.limits
}

// Cache exposes the repository cache for status displays.
func (c *Client) Cache() *cache.RepoCache {
	return c.cache
}

// ListRepositories returns the organization's repositories, cached.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Repositories(); ok {
			if repos, ok := cached.([]Repository); ok {
				return repos, nil
			}
		}
	}

	var repos []Repository
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orgs/%s/repos", c.org), nil, &repos); err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	if c.cache != nil {
		c.cache.SetRepositories(repos)
	}
	return repos, nil
}

// CreateRepository creates a new auto-initialized photo repository with
// issues, projects and wiki disabled.
func (c *Client) CreateRepository(ctx context.Context, name, description string) (Repository, error) {
	if description == "" {
		description = "Image repository created by Repository Manager"
	}
	req := createRepoRequest{
		Name:        name,
		Description: description,
		AutoInit:    true,
	}

	var repo Repository
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/orgs/%s/repos", c.org), req, &repo); err != nil {
		return Repository{}, fmt.Errorf("create repository %q: %w", name, err)
	}
	if c.cache != nil {
		c.cache.InvalidateAll()
	}
	return repo, nil
}

// DeleteRepository removes a repository.
func (c *Client) DeleteRepository(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/repos/%s/%s", c.org, name), nil, nil); err != nil {
		return fmt.Errorf("delete repository %q: %w", name, err)
	}
	if c.cache != nil {
		c.cache.InvalidateAll()
	}
	return nil
}

// ListContents returns the directory listing for a repository path, cached.
// A missing path is an empty listing, not an error.
func (c *Client) ListContents(ctx context.Context, repo, path string) ([]ContentEntry, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Contents(repo, path); ok {
			if entries, ok := cached.([]ContentEntry); ok {
				return entries, nil
			}
		}
	}

	var entries []ContentEntry
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/contents/%s", c.org, repo, path), nil, &entries)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list contents of %s/%s: %w", repo, path, err)
	}
	if c.cache != nil {
		c.cache.SetContents(repo, path, entries)
	}
	return entries, nil
}

// DownloadFile fetches raw bytes from a download URL. This is the per-item
// fetch the gallery pipeline runs; the client timeout bounds it.
func (c *Client) DownloadFile(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s returned status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// UploadFile creates or updates a file in the repository and invalidates the
// repository's cached listings. sha is empty for new files.
func (c *Client) UploadFile(ctx context.Context, repo, path string, content []byte, message, sha string) error {
	req := uploadRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/%s/contents/%s", c.org, repo, path), req, nil); err != nil {
		return fmt.Errorf("upload %s to %s: %w", path, repo, err)
	}
	if c.cache != nil {
		c.cache.InvalidateRepository(repo)
	}
	return nil
}

// DeleteFile removes a file from the repository and invalidates its cached
// listings.
func (c *Client) DeleteFile(ctx context.Context, repo, path, sha, message string) error {
	req := deleteRequest{Message: message, SHA: sha}
	if err := c.doDeleteWithBody(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", c.org, repo, path), req); err != nil {
		return fmt.Errorf("delete %s from %s: %w", path, repo, err)
	}
	if c.cache != nil {
		c.cache.InvalidateRepository(repo)
	}
	return nil
}

// ListCommits returns the repository's recent commit history, cached.
func (c *Client) ListCommits(ctx context.Context, repo string) ([]Commit, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Commits(repo); ok {
			if commits, ok := cached.([]Commit); ok {
				return commits, nil
			}
		}
	}

	var commits []Commit
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/commits?per_page=100", c.org, repo), nil, &commits); err != nil {
		return nil, fmt.Errorf("list commits of %s: %w", repo, err)
	}
	if c.cache != nil {
		c.cache.SetCommits(repo, commits)
	}
	return commits, nil
}

// EnablePages turns on GitHub Pages for the repository from the default
// branch root.
func (c *Client) EnablePages(ctx context.Context, repo, branch string) error {
	if branch == "" {
		branch = "gh-pages"
	}
	var req enablePagesRequest
	req.Source.Branch = branch
	req.Source.Path = "/"

	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/pages", c.org, repo), req, nil); err != nil {
		return fmt.Errorf("enable pages for %s: %w", repo, err)
	}
	return nil
}

// PagesStatus queries the Pages build status. A 404 means the build
// infrastructure is not enabled for the repository and is reported as
// ErrPagesNotEnabled.
func (c *Client) PagesStatus(ctx context.Context, repo string) (PagesInfo, error) {
	var info PagesInfo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/pages", c.org, repo), nil, &info)
	if errors.Is(err, ErrNotFound) {
		return PagesInfo{}, ErrPagesNotEnabled
	}
	if err != nil {
		return PagesInfo{}, fmt.Errorf("pages status of %s: %w", repo, err)
	}
	return info, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(resp)
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doDeleteWithBody issues a DELETE carrying a JSON body, which the contents
// endpoint requires.
func (c *Client) doDeleteWithBody(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodDelete, path, body, nil)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
}

// observe feeds the rate tracker from response metadata and logs threshold
// crossings.
func (c *Client) observe(resp *http.Response) {
	if c.limits == nil {
		return
	}
	c.limits.UpdateFromHeader(resp.Header)
	switch c.limits.Level() {
	case rate.LevelCritical:
		log.Warn().Int("remaining", c.limits.Snapshot().Remaining).Msg("critical rate limit")
	case rate.LevelWarning:
		log.Warn().Int("remaining", c.limits.Snapshot().Remaining).Msg("rate limit warning")
	}
}
