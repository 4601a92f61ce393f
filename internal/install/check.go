package install

import (
	"context"

	"github.com/playegkro/egk-updater/internal/github"
	"github.com/playegkro/egk-updater/internal/state"
)

// Availability compares what is installed with the latest published releases
type Availability struct {
	Installed  state.Record
	ModpackTag string
	CoreTag    string
}

// ModpackOutdated reports whether a full install would bring a newer modpack
func (a Availability) ModpackOutdated() bool {
	return a.Installed.ModpackTag != a.ModpackTag
}

// CoreOutdated reports whether update-core would bring a newer jar
func (a Availability) CoreOutdated() bool {
	return a.Installed.CoreTag != a.CoreTag
}

// Check resolves the latest release of both feeds without changing anything on disk
func (in *Installer) Check(ctx context.Context) (Availability, error) {
	a := Availability{Installed: *state.LoadOrEmpty(in.Layout.Instance)}

	modpack, _, err := in.Releases.LatestAsset(ctx, in.Sources.ModpackRepo, github.ExactName(in.Sources.ModpackAsset))
	if err != nil {
		return a, err
	}
	a.ModpackTag = modpack.TagName

	core, _, err := in.Releases.LatestAsset(ctx, in.Sources.CoreRepo, github.PrefixSuffix(in.Sources.CorePrefix, in.Sources.CoreSuffix))
	if err != nil {
		return a, err
	}
	a.CoreTag = core.TagName

	return a, nil
}
