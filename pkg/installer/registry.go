package installer

import (
	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
	"github.com/jaspreet-dot-casa/machine-init/pkg/release"
)

// Registry holds the installers for one run in fixed priority order.
type Registry struct {
	installers []Installer
	byID       map[string]Installer
}

// RegistryOptions configures per-run installer behavior.
type RegistryOptions struct {
	// ToolsDir is the AI tool repository clone root.
	ToolsDir string
	// DockerUsers are added to the docker group after the engine installs.
	DockerUsers []string
	// ConfirmDockerReinstall is consulted when docker already exists.
	ConfirmDockerReinstall func() (bool, error)
	// Timezone and Locale feed the system configuration installer.
	Timezone string
	Locale   string
}

// NewRegistry builds all installers for the given profile.
func NewRegistry(exec execx.CommandExecutor, profile platform.SystemProfile, cat *catalog.Catalog, log *logging.Logger, opts RegistryOptions) *Registry {
	docker := NewDocker(exec, profile, cat, release.NewClient(), log)
	docker.Users = opts.DockerUsers
	docker.ConfirmReinstall = opts.ConfirmDockerReinstall

	sysconfig := NewSysConfig(exec, profile, log)
	sysconfig.Timezone = opts.Timezone
	sysconfig.Locale = opts.Locale

	installers := []Installer{
		NewBase(exec, profile, cat, log),
		docker,
		NewClaude(exec, log),
		NewDevTools(exec, profile, cat, log),
		sysconfig,
		NewAITools(cat, log, opts.ToolsDir),
	}

	byID := make(map[string]Installer, len(installers))
	for _, inst := range installers {
		byID[inst.ID()] = inst
	}

	return &Registry{installers: installers, byID: byID}
}

// All returns every installer in priority order.
func (r *Registry) All() []Installer {
	return r.installers
}

// Get returns the installer with the given ID.
func (r *Registry) Get(id string) (Installer, bool) {
	inst, ok := r.byID[id]
	return inst, ok
}

// Ordered filters the registry down to the selected IDs, returned in fixed
// priority order regardless of selection order.
func (r *Registry) Ordered(selected []string) []Installer {
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}

	var out []Installer
	for _, inst := range r.installers {
		if want[inst.ID()] {
			out = append(out, inst)
		}
	}
	return out
}
