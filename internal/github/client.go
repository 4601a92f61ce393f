package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/playegkro/egk-updater/internal/failure"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

// Asset is a downloadable file attached to a release
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release represents the "latest release" resource
type Release struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Assets  []Asset `json:"assets"`
}

// Matcher selects a release asset by file name
type Matcher interface {
	Match(name string) bool
	String() string
}

type exactName string

func (m exactName) Match(name string) bool { return name == string(m) }
func (m exactName) String() string         { return string(m) }

// ExactName matches an asset whose name equals name
func ExactName(name string) Matcher {
	return exactName(name)
}

type prefixSuffix struct {
	prefix string
	suffix string
}

func (m prefixSuffix) Match(name string) bool {
	return len(name) >= len(m.prefix)+len(m.suffix) &&
		strings.HasPrefix(name, m.prefix) && strings.HasSuffix(name, m.suffix)
}

func (m prefixSuffix) String() string { return m.prefix + "*" + m.suffix }

// PrefixSuffix matches an asset named <prefix>*<suffix>
func PrefixSuffix(prefix, suffix string) Matcher {
	return prefixSuffix{prefix: prefix, suffix: suffix}
}

// FindAsset returns the first asset in feed order accepted by m
func (r *Release) FindAsset(m Matcher) (Asset, bool) {
	for _, asset := range r.Assets {
		if m.Match(asset.Name) {
			return asset, true
		}
	}
	return Asset{}, false
}

// Client handles GitHub releases API requests
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new releases client. An empty baseURL means DefaultAPIURL.
func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// LatestReleaseURL returns the API URL of the latest release of repo ("owner/name")
func (c *Client) LatestReleaseURL(repo string) string {
	return fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo)
}

// LatestRelease fetches the latest published release of repo
func (c *Client) LatestRelease(ctx context.Context, repo string) (*Release, error) {
	url := c.LatestReleaseURL(repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &failure.NetworkError{Op: "fetch latest release", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &failure.NetworkError{Op: "fetch latest release", URL: url, StatusCode: resp.StatusCode}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, &failure.NetworkError{Op: "parse release", URL: url, Err: err}
	}

	return &release, nil
}

// LatestAsset resolves the first asset of the latest release of repo accepted by m
func (c *Client) LatestAsset(ctx context.Context, repo string, m Matcher) (*Release, Asset, error) {
	release, err := c.LatestRelease(ctx, repo)
	if err != nil {
		return nil, Asset{}, err
	}

	asset, ok := release.FindAsset(m)
	if !ok {
		return release, Asset{}, &failure.AssetNotFoundError{Repo: repo, Asset: m.String()}
	}
	return release, asset, nil
}

// LatestAssetURL returns the browser download URL of the matching asset
func (c *Client) LatestAssetURL(ctx context.Context, repo string, m Matcher) (string, error) {
	_, asset, err := c.LatestAsset(ctx, repo, m)
	if err != nil {
		return "", err
	}
	return asset.BrowserDownloadURL, nil
}
