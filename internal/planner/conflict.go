package planner

import (
	"fmt"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// pendingModule is a module together with the entry that defined it. The
// entry is only needed for collision checks and never leaves the planner.
type pendingModule struct {
	module soong.Module
	entry  blobs.Entry
}

type resolution int

const (
	resolveRegister resolution = iota
	resolveSkip
	resolveEject
	resolveRename
)

// registry tracks the names claimed in one planning run.
type registry struct {
	modules  map[string]*pendingModule
	order    []string
	counters map[string]int

	// twins maps the other-arch source of a dual-arch module to that module
	twins map[string]*pendingModule
}

func newRegistry() *registry {
	return &registry{
		modules:  make(map[string]*pendingModule),
		counters: make(map[string]int),
		twins:    make(map[string]*pendingModule),
	}
}

// check decides what to do with an entry whose candidate name is name.
func (r *registry) check(name string, entry blobs.Entry) (resolution, *pendingModule) {
	if owner, ok := r.twins[entry.SrcPath]; ok {
		return resolveSkip, owner
	}

	existing, ok := r.modules[name]
	if !ok {
		return resolveRegister, nil
	}

	// A library pair can't span partitions in one module
	if existing.module.IsDualArch() &&
		existing.entry.Filename() == entry.Filename() &&
		existing.entry.Partition != entry.Partition {
		return resolveEject, existing
	}
	return resolveRename, existing
}

// nextName returns the first free "<name>__N" with N starting at 2.
func (r *registry) nextName(name string) string {
	for {
		n, ok := r.counters[name]
		if !ok {
			n = 1
		}
		n++
		r.counters[name] = n

		candidate := fmt.Sprintf("%s__%d", name, n)
		if _, taken := r.modules[candidate]; !taken {
			return candidate
		}
	}
}

func (r *registry) register(m soong.Module, entry blobs.Entry) {
	pm := &pendingModule{module: m, entry: entry}
	r.modules[m.Name] = pm
	r.order = append(r.order, m.Name)

	if !m.IsDualArch() {
		return
	}
	for _, target := range []*soong.TargetSrcs{m.SharedLibrary.Arm, m.SharedLibrary.Arm64} {
		for _, src := range target.Srcs {
			if src != entry.SrcPath {
				r.twins[src] = pm
			}
		}
	}
}

// finish strips the defining entries and returns modules in registration order.
func (r *registry) finish() []soong.Module {
	modules := make([]soong.Module, len(r.order))
	for i, name := range r.order {
		modules[i] = r.modules[name].module
	}
	return modules
}
