// Package selfupdate checks GitHub releases for a newer kotoba build and
// replaces the running binary with it.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultOwner   = "abhisek"
	defaultRepo    = "kotoba"
	defaultAPIURL  = "https://api.github.com"
	defaultDLURL   = "https://github.com"
	defaultTimeout = 5 * time.Second
)

// Checker talks to the GitHub releases API.
type Checker struct {
	client          *http.Client
	baseURL         string
	downloadBaseURL string
	owner, repo     string
	goos, goarch    string
	execPath        func() (string, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithBaseURL overrides the releases API host.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = u }
}

// WithDownloadBaseURL overrides the asset download host.
func WithDownloadBaseURL(u string) Option {
	return func(c *Checker) { c.downloadBaseURL = u }
}

// WithRepo overrides the GitHub owner and repository.
func WithRepo(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func withPlatform(goos, goarch string) Option {
	return func(c *Checker) { c.goos, c.goarch = goos, goarch }
}

// NewChecker creates a Checker for the kotoba repository.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:          &http.Client{Timeout: defaultTimeout},
		baseURL:         defaultAPIURL,
		downloadBaseURL: defaultDLURL,
		owner:           defaultOwner,
		repo:            defaultRepo,
		goos:            runtime.GOOS,
		goarch:          runtime.GOARCH,
		execPath:        os.Executable,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// IsDevBuild reports whether version names a local build that has no
// matching release.
func IsDevBuild(version string) bool {
	switch version {
	case "", "(devel)", "dev":
		return true
	}
	return false
}

// Release is a published kotoba build.
type Release struct {
	Tag string
	URL string
}

// CheckInput describes the running build.
type CheckInput struct {
	Version string
}

// CheckResult reports the newest release.
type CheckResult struct {
	UpdateAvailable bool
	Latest          Release
}

type releaseJSON struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// Check compares input.Version with the latest release. Versions that
// are not valid semver, such as development builds, never report an
// update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	rel, err := c.fetchRelease(ctx, "latest")
	if err != nil {
		return nil, err
	}
	out := &CheckResult{Latest: rel}
	if cur := canonical(input.Version); cur != "" {
		out.UpdateAvailable = semver.Compare(canonical(rel.Tag), cur) > 0
	}
	return out, nil
}

// fetchRelease loads "latest" or "tags/<tag>" from the releases API.
func (c *Checker) fetchRelease(ctx context.Context, which string) (Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/%s", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo, which)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Release{}, fmt.Errorf("%w: %s", ErrNoRelease, which)
	case resp.StatusCode != http.StatusOK:
		return Release{}, fmt.Errorf("HTTP %d from releases API", resp.StatusCode)
	}

	var rel releaseJSON
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}
	if canonical(rel.TagName) == "" {
		return Release{}, fmt.Errorf("release tag %q is not a semantic version", rel.TagName)
	}
	return Release{Tag: rel.TagName, URL: rel.HTMLURL}, nil
}
