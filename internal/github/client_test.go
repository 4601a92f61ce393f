package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playegkro/egk-updater/internal/failure"
)

func newFeed(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &paths
}

// TestLatestAssetURL_Scenario covers the feed returning an unrelated asset first
func TestLatestAssetURL_Scenario(t *testing.T) {
	body := `{"tag_name":"v3","assets":[{"name":"foo.zip"},{"name":"PLAY.EGK.RO.zip","browser_download_url":"http://x/y.zip"}]}`
	server, paths := newFeed(t, http.StatusOK, body)

	client := NewClient(server.URL, "test", nil)
	got, err := client.LatestAssetURL(context.Background(), "Eug3nK/MODSEGK", ExactName("PLAY.EGK.RO.zip"))
	if err != nil {
		t.Fatalf("LatestAssetURL() error = %v", err)
	}
	if got != "http://x/y.zip" {
		t.Errorf("LatestAssetURL() = %q, want %q", got, "http://x/y.zip")
	}
	if len(*paths) != 1 || (*paths)[0] != "/repos/Eug3nK/MODSEGK/releases/latest" {
		t.Errorf("unexpected request paths: %v", *paths)
	}
}

func TestLatestAssetURL_FirstMatchWins(t *testing.T) {
	body := `{"assets":[
		{"name":"README.md","browser_download_url":"http://x/readme"},
		{"name":"EGK-Core-2.1.jar","browser_download_url":"http://x/2.1"},
		{"name":"EGK-Core-2.0.jar","browser_download_url":"http://x/2.0"}]}`
	server, _ := newFeed(t, http.StatusOK, body)
	client := NewClient(server.URL, "test", nil)

	for i := 0; i < 3; i++ {
		got, err := client.LatestAssetURL(context.Background(), "Eug3nK/egkcore", PrefixSuffix("EGK-Core", ".jar"))
		if err != nil {
			t.Fatalf("LatestAssetURL() error = %v", err)
		}
		if got != "http://x/2.1" {
			t.Errorf("LatestAssetURL() = %q, want first match http://x/2.1", got)
		}
	}
}

func TestLatestAssetURL_NoMatch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		matcher Matcher
	}{
		{"empty asset list", `{"assets":[]}`, ExactName("PLAY.EGK.RO.zip")},
		{"missing assets field", `{}`, ExactName("PLAY.EGK.RO.zip")},
		{"prefix without suffix", `{"assets":[{"name":"EGK-Core-1.0.zip"}]}`, PrefixSuffix("EGK-Core", ".jar")},
		{"case differs", `{"assets":[{"name":"play.egk.ro.zip"}]}`, ExactName("PLAY.EGK.RO.zip")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newFeed(t, http.StatusOK, tt.body)
			client := NewClient(server.URL, "test", nil)

			got, err := client.LatestAssetURL(context.Background(), "o/r", tt.matcher)
			if got != "" {
				t.Errorf("LatestAssetURL() = %q, want empty", got)
			}
			var assetErr *failure.AssetNotFoundError
			if !errors.As(err, &assetErr) {
				t.Fatalf("LatestAssetURL() error = %v, want AssetNotFoundError", err)
			}
			if assetErr.Asset != tt.matcher.String() {
				t.Errorf("AssetNotFoundError.Asset = %q, want %q", assetErr.Asset, tt.matcher.String())
			}
		})
	}
}

func TestLatestRelease_HTTPError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, _ := newFeed(t, status, `{"message":"nope"}`)
			client := NewClient(server.URL, "test", nil)

			_, err := client.LatestRelease(context.Background(), "o/r")
			var netErr *failure.NetworkError
			if !errors.As(err, &netErr) {
				t.Fatalf("LatestRelease() error = %v, want NetworkError", err)
			}
			if netErr.StatusCode != status {
				t.Errorf("NetworkError.StatusCode = %d, want %d", netErr.StatusCode, status)
			}
		})
	}
}

func TestLatestRelease_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, "test", &http.Client{Timeout: time.Second})
	_, err := client.LatestRelease(context.Background(), "o/r")
	if failure.KindOf(err) != failure.KindNetwork {
		t.Errorf("LatestRelease() error = %v, want network kind", err)
	}
}

func TestLatestRelease_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "egk-updater/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, `{"tag_name":"v1.0.0"}`)
	}))
	defer server.Close()

	release, err := NewClient(server.URL+"/", "egk-updater/1.0", nil).LatestRelease(context.Background(), "o/r")
	if err != nil {
		t.Fatalf("LatestRelease() error = %v", err)
	}
	if release.TagName != "v1.0.0" {
		t.Errorf("TagName = %q, want v1.0.0", release.TagName)
	}
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		input   string
		want    bool
	}{
		{"exact hit", ExactName("PLAY.EGK.RO.zip"), "PLAY.EGK.RO.zip", true},
		{"exact miss", ExactName("PLAY.EGK.RO.zip"), "PLAY.EGK.RO.zip.sha1", false},
		{"core versioned", PrefixSuffix("EGK-Core", ".jar"), "EGK-Core-1.2.3.jar", true},
		{"core bare", PrefixSuffix("EGK-Core", ".jar"), "EGK-Core.jar", true},
		{"core wrong suffix", PrefixSuffix("EGK-Core", ".jar"), "EGK-Core-1.2.3.jar.asc", false},
		{"overlap too short", PrefixSuffix("EGK-Core", ".jar"), "EGK-Cor.jar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if got := PrefixSuffix("EGK-Core", ".jar").String(); got != "EGK-Core*.jar" {
		t.Errorf("String() = %q, want EGK-Core*.jar", got)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("with nil http client", func(t *testing.T) {
		client := NewClient("", "", nil)
		if client.httpClient.Timeout != 30*time.Second {
			t.Errorf("default timeout = %v, want 30s", client.httpClient.Timeout)
		}
		if got := client.LatestReleaseURL("o/r"); got != "https://api.github.com/repos/o/r/releases/latest" {
			t.Errorf("LatestReleaseURL() = %q", got)
		}
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 5 * time.Second}
		client := NewClient("http://feed.local/", "", custom)
		if client.httpClient != custom {
			t.Error("NewClient() did not keep the given HTTP client")
		}
		if got := client.LatestReleaseURL("o/r"); got != "http://feed.local/repos/o/r/releases/latest" {
			t.Errorf("LatestReleaseURL() = %q", got)
		}
	})
}

func TestLatestReleaseInvalidJSON(t *testing.T) {
	server, _ := newFeed(t, http.StatusOK, `{"tag_name": "v1", "assets": [`)
	client := NewClient(server.URL, "test", nil)

	_, err := client.LatestRelease(context.Background(), "Eug3nK/MODSEGK")
	var netErr *failure.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.Op != "parse release" || netErr.Err == nil {
		t.Errorf("NetworkError = %+v", netErr)
	}
	if failure.KindOf(err) != failure.KindNetwork {
		t.Errorf("KindOf() = %v, want network", failure.KindOf(err))
	}
}
