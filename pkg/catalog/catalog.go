// Package catalog provides the embedded component catalog: per-manager
// package sets and the tool repositories the installers work from.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

//go:embed catalog.yaml
var raw []byte

// ToolRepo describes a git repository to clone into the tools directory.
type ToolRepo struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ComposeSpec describes the standalone Docker Compose fallback artifact.
type ComposeSpec struct {
	Repo         string `yaml:"repo"`          // GitHub owner/repo for release lookup
	BinaryPath   string `yaml:"binary_path"`   // standalone binary destination
	DispatchPath string `yaml:"dispatch_path"` // dispatch script destination
}

// Catalog is the parsed component catalog.
type Catalog struct {
	BasePackages map[string][]string `yaml:"base_packages"`
	DevPackages  map[string][]string `yaml:"dev_packages"`
	ToolRepos    []ToolRepo          `yaml:"tool_repos"`
	Compose      ComposeSpec         `yaml:"compose"`
}

var (
	once    sync.Once
	loaded  *Catalog
	errLoad error
)

// Load parses the embedded catalog. The result is cached.
func Load() (*Catalog, error) {
	once.Do(func() {
		var c Catalog
		if err := yaml.Unmarshal(raw, &c); err != nil {
			errLoad = fmt.Errorf("failed to parse embedded catalog: %w", err)
			return
		}
		loaded = &c
	})
	return loaded, errLoad
}

// BaseFor returns the base package list for a manager.
func (c *Catalog) BaseFor(pm platform.PackageManager) []string {
	return c.BasePackages[pm.String()]
}

// DevFor returns the dev-tools package list for a manager.
func (c *Catalog) DevFor(pm platform.PackageManager) []string {
	return c.DevPackages[pm.String()]
}
