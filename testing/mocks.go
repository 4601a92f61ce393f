package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// MockReleaseServer serves a fake GitHub releases feed and the assets it lists
type MockReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	releases map[string]MockRelease
	files    map[string][]byte
	requests []string
}

// MockRelease is the latest release of one repository
type MockRelease struct {
	StatusCode int
	TagName    string
	Assets     []MockAsset
}

// MockAsset is a release asset. Body is served under /download/<repo>/<name>;
// a non-empty URL overrides the generated download URL.
type MockAsset struct {
	Name string
	URL  string
	Body []byte
}

// NewMockReleaseServer creates a new mock releases server
func NewMockReleaseServer(t *testing.T) *MockReleaseServer {
	t.Helper()

	mock := &MockReleaseServer{
		releases: make(map[string]MockRelease),
		files:    make(map[string][]byte),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.serve))
	t.Cleanup(mock.Server.Close)

	return mock
}

func (m *MockReleaseServer) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Path)
	m.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/repos/") && strings.HasSuffix(r.URL.Path, "/releases/latest"):
		repo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/repos/"), "/releases/latest")
		m.serveRelease(w, repo)
	case strings.HasPrefix(r.URL.Path, "/download/"):
		m.mu.Lock()
		body, ok := m.files[r.URL.Path]
		m.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockReleaseServer) serveRelease(w http.ResponseWriter, repo string) {
	m.mu.Lock()
	release, ok := m.releases[repo]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		return
	}
	if release.StatusCode != 0 && release.StatusCode != http.StatusOK {
		w.WriteHeader(release.StatusCode)
		json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(release.StatusCode)})
		return
	}

	type asset struct {
		Name string `json:"name"`
		URL  string `json:"browser_download_url,omitempty"`
	}
	payload := struct {
		TagName string  `json:"tag_name"`
		Assets  []asset `json:"assets"`
	}{TagName: release.TagName}
	for _, a := range release.Assets {
		payload.Assets = append(payload.Assets, asset{Name: a.Name, URL: m.assetURL(repo, a)})
	}
	json.NewEncoder(w).Encode(payload)
}

func (m *MockReleaseServer) assetURL(repo string, a MockAsset) string {
	if a.URL != "" {
		return a.URL
	}
	return m.URL + m.assetPath(repo, a.Name)
}

func (m *MockReleaseServer) assetPath(repo, name string) string {
	return fmt.Sprintf("/download/%s/%s", repo, name)
}

// SetRelease publishes release as the latest release of repo
func (m *MockReleaseServer) SetRelease(repo string, release MockRelease) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[repo] = release
	for _, a := range release.Assets {
		if a.Body != nil {
			m.files[m.assetPath(repo, a.Name)] = a.Body
		}
	}
}

// SetError makes the latest-release call for repo fail with statusCode
func (m *MockReleaseServer) SetError(repo string, statusCode int) {
	m.SetRelease(repo, MockRelease{StatusCode: statusCode})
}

// RequestCount returns the number of requests received
func (m *MockReleaseServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns the request paths received so far
func (m *MockReleaseServer) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
