package planner

import (
	"sort"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/makefile"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// Plan is the build plan of one generation run. Every planned entry is in
// exactly one of Modules (as a module's source), Copies or Covered.
type Plan struct {
	// Modules are the named modules in processing order
	Modules []soong.Module

	// Copies are the entries shipped with PRODUCT_COPY_FILES
	Copies []blobs.Entry

	// Covered are entries whose module is the other arch's dual-arch module
	Covered []blobs.Entry

	// Conflicts records every naming decision other than a plain registration
	Conflicts []Conflict

	// ProprietaryDir is where blobs live relative to the build root
	ProprietaryDir string
}

// Conflict describes how a module name collision was resolved.
type Conflict struct {
	// Path is the source path of the entry that collided
	Path string

	// Resolution is one of the Resolution constants
	Resolution string

	// Existing is the name already registered
	Existing string

	// Incoming is the name the entry was registered under, if any
	Incoming string
}

// Conflict resolutions
const (
	ResolutionSkipTwin = "skip_twin"
	ResolutionEject    = "eject"
	ResolutionRename   = "rename"
)

// NewPlan creates a new empty Plan.
func NewPlan(proprietaryDir string) *Plan {
	return &Plan{
		Modules:        []soong.Module{},
		Copies:         []blobs.Entry{},
		Covered:        []blobs.Entry{},
		Conflicts:      []Conflict{},
		ProprietaryDir: proprietaryDir,
	}
}

// HasConflicts returns true if any collision was resolved.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddConflict adds a conflict to the plan.
func (p *Plan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}

// CopyRules returns the copy rules of all copied entries.
func (p *Plan) CopyRules() []makefile.CopyRule {
	rules := make([]makefile.CopyRule, len(p.Copies))
	for i, entry := range p.Copies {
		rules[i] = makefile.BlobToFileCopy(entry, p.ProprietaryDir)
	}
	return rules
}

// Packages returns the sorted names of all planned modules.
func (p *Plan) Packages() []string {
	names := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		names[i] = m.Name
	}
	sort.Strings(names)
	return names
}
