package install

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/playegkro/egk-updater/internal/failure"
	"github.com/playegkro/egk-updater/internal/state"
)

func TestCheck(t *testing.T) {
	f := newFixture(t)
	f.publishModpack(t, "v4", map[string]string{"mods/A.jar": "a"})
	f.publishCore("1.1", "EGK-Core-1.1.jar", "new")

	if err := os.MkdirAll(f.layout.Instance, 0755); err != nil {
		t.Fatal(err)
	}
	if err := state.Save(f.layout.Instance, &state.Record{ModpackTag: "v3", CoreTag: "1.1"}); err != nil {
		t.Fatal(err)
	}

	a, err := f.installer.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if a.ModpackTag != "v4" || a.CoreTag != "1.1" {
		t.Errorf("latest = %s/%s, want v4/1.1", a.ModpackTag, a.CoreTag)
	}
	if !a.ModpackOutdated() {
		t.Error("ModpackOutdated() = false, want true")
	}
	if a.CoreOutdated() {
		t.Error("CoreOutdated() = true, want false")
	}
	if len(f.prompts) != 0 {
		t.Errorf("Check should not prompt, got %v", f.prompts)
	}
	for _, p := range f.server.Requests() {
		if p != "/repos/Eug3nK/MODSEGK/releases/latest" && p != "/repos/Eug3nK/egkcore/releases/latest" {
			t.Errorf("unexpected request %s", p)
		}
	}
}

func TestCheckNothingInstalled(t *testing.T) {
	f := newFixture(t)
	f.publishModpack(t, "v1", map[string]string{"mods/A.jar": "a"})
	f.publishCore("1.0", "EGK-Core-1.0.jar", "x")

	a, err := f.installer.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !a.ModpackOutdated() || !a.CoreOutdated() {
		t.Errorf("expected both outdated, got %+v", a)
	}
}

func TestCheckFeedError(t *testing.T) {
	f := newFixture(t)
	f.server.SetError(testSources.ModpackRepo, http.StatusForbidden)

	_, err := f.installer.Check(context.Background())
	if failure.KindOf(err) != failure.KindNetwork {
		t.Errorf("KindOf(%v) = %v, want network", err, failure.KindOf(err))
	}
}
