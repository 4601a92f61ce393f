package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"declined", ErrUserDeclined, KindDeclined},
		{"wrapped declined", fmt.Errorf("preflight: %w", ErrUserDeclined), KindDeclined},
		{"network", &NetworkError{Op: "GET", URL: "http://x", StatusCode: 500}, KindNetwork},
		{"wrapped network", fmt.Errorf("resolve: %w", &NetworkError{Op: "GET", URL: "http://x", Err: errors.New("refused")}), KindNetwork},
		{"asset", &AssetNotFoundError{Repo: "a/b", Asset: "x.zip"}, KindAssetNotFound},
		{"filesystem", Filesystem("remove", "/tmp/x", errors.New("busy")), KindFilesystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilesystem_NilPassthrough(t *testing.T) {
	if err := Filesystem("create", "/x", nil); err != nil {
		t.Errorf("Filesystem(nil) = %v, want nil", err)
	}
}

func TestErrorMessages(t *testing.T) {
	assetErr := &AssetNotFoundError{Repo: "Eug3nK/egkcore", Asset: "EGK-Core*.jar"}
	if !strings.Contains(assetErr.Error(), "EGK-Core*.jar") {
		t.Errorf("AssetNotFoundError should name the asset, got %q", assetErr.Error())
	}

	netErr := &NetworkError{Op: "fetch release", URL: "http://x", StatusCode: 404}
	if !strings.Contains(netErr.Error(), "HTTP 404") {
		t.Errorf("NetworkError should carry the status, got %q", netErr.Error())
	}

	inner := errors.New("connection refused")
	wrapped := &NetworkError{Op: "download", URL: "http://x", Err: inner}
	if !errors.Is(wrapped, inner) {
		t.Error("NetworkError should unwrap to its cause")
	}
}
