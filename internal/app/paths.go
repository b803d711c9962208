package app

import (
	"os"
	"path/filepath"
)

// DefaultStateDir is the per-project state directory name.
const DefaultStateDir = ".slc"

// Paths holds all resolved filesystem paths for the state directory.
type Paths struct {
	Root       string // .slc/
	UsageDB    string // .slc/usage.db
	ConfigFile string // .slc/config.toml
}

// NewPaths constructs all resolved paths from a state directory.
func NewPaths(stateDir string) *Paths {
	return &Paths{
		Root:       stateDir,
		UsageDB:    filepath.Join(stateDir, "usage.db"),
		ConfigFile: filepath.Join(stateDir, "config.toml"),
	}
}

// EnsureDirs creates the state directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
