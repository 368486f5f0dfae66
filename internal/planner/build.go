package planner

import (
	"sort"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// SortForNaming orders entries so that the entry which should keep an
// unsuffixed name comes first: non-XML before XML (XML modules install under
// their source filename, so renaming them changes nothing), then named
// dependencies, then by source path.
func SortForNaming(entries []blobs.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		aXML, bXML := a.Ext() == blobs.ExtXML, b.Ext() == blobs.ExtXML
		if aXML != bXML {
			return !aXML
		}
		if a.IsNamedDependency != b.IsNamedDependency {
			return a.IsNamedDependency
		}
		return a.SrcPath < b.SrcPath
	})
}

// BuildPlan plans how every entry is built. A classification error from the
// module synthesizer aborts planning.
func BuildPlan(entries []blobs.Entry, owner, proprietaryDir string) (*Plan, error) {
	sorted := make([]blobs.Entry, len(entries))
	copy(sorted, entries)
	SortForNaming(sorted)

	srcPaths := make(map[string]struct{}, len(sorted))
	for _, e := range sorted {
		srcPaths[e.SrcPath] = struct{}{}
	}

	plan := NewPlan(proprietaryDir)
	reg := newRegistry()

	for _, entry := range sorted {
		ext := entry.Ext()
		if !blobs.NeedsModuleBackend(entry, ext) {
			plan.Copies = append(plan.Copies, entry)
			continue
		}

		name := soong.ModuleName(entry)
		switch res, existing := reg.check(name, entry); res {
		case resolveSkip:
			plan.Covered = append(plan.Covered, entry)
			plan.AddConflict(Conflict{
				Path:       entry.SrcPath,
				Resolution: ResolutionSkipTwin,
				Existing:   existing.module.Name,
			})
			continue

		case resolveEject:
			plan.Copies = append(plan.Copies, entry)
			plan.AddConflict(Conflict{
				Path:       entry.SrcPath,
				Resolution: ResolutionEject,
				Existing:   existing.module.Name,
			})
			continue

		case resolveRename:
			renamed := reg.nextName(name)
			plan.AddConflict(Conflict{
				Path:       entry.SrcPath,
				Resolution: ResolutionRename,
				Existing:   name,
				Incoming:   renamed,
			})
			name = renamed
		}

		module, err := soong.BlobToModule(name, ext, owner, entry, srcPaths)
		if err != nil {
			return nil, err
		}
		reg.register(module, entry)
	}

	plan.Modules = reg.finish()
	return plan, nil
}
