package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is stored inside the instance folder, so a full install resets it
const FileName = ".egk-updater.json"

// Record remembers which releases were installed last
type Record struct {
	ModpackTag string    `json:"modpack_tag,omitempty"`
	CoreTag    string    `json:"core_tag,omitempty"`
	CoreFile   string    `json:"core_file,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summary renders the record for the status footer
func (r *Record) Summary() string {
	if r == nil {
		return ""
	}
	var parts []string
	if r.ModpackTag != "" {
		parts = append(parts, "Modpack "+r.ModpackTag)
	}
	if r.CoreTag != "" {
		parts = append(parts, "EGK-Core "+r.CoreTag)
	}
	return strings.Join(parts, " | ")
}

// Load reads the record from dir. A missing record returns an error satisfying os.IsNotExist.
func Load(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse install record: %w", err)
	}
	return &r, nil
}

// LoadOrEmpty returns the stored record, or an empty one if none can be read
func LoadOrEmpty(dir string) *Record {
	r, err := Load(dir)
	if err != nil {
		return &Record{}
	}
	return r
}

// Save writes the record into dir
func Save(dir string, r *Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal install record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write install record: %w", err)
	}
	return nil
}
