package blobs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danieljhkim/vendorgen/internal/fsops"
)

// FileListHeader is written at the top of generated proprietary-files.txt files.
const FileListHeader = "# Generated by vendorgen; do not edit"

const presignedModifier = "PRESIGNED"

// ParseFileList parses a proprietary-files.txt style list.
//
// Each line is a source path, optionally prefixed with "-" to mark a named
// dependency and suffixed with ";MOD1|MOD2" modifiers. Blank lines and "#"
// comments are ignored. Entries are returned sorted by source path.
func ParseFileList(list string) ([]Entry, error) {
	var entries []Entry
	for lineNum, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		srcPath, modifiers, _ := strings.Cut(line, ";")
		isNamedDependency := strings.HasPrefix(srcPath, "-")
		srcPath = strings.TrimPrefix(srcPath, "-")

		if err := fsops.ValidateRelPath(srcPath); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
		}

		entry := EntryFromSrcPath(srcPath)
		entry.IsNamedDependency = isNamedDependency
		for _, mod := range strings.Split(modifiers, "|") {
			if strings.TrimSpace(mod) == presignedModifier {
				entry.IsPresigned = true
			}
		}
		entries = append(entries, entry)
	}

	SortBySrcPath(entries)
	return entries, nil
}

// SerializeFileList renders entries in the format read by ParseFileList.
func SerializeFileList(entries []Entry) string {
	var b strings.Builder
	b.WriteString(FileListHeader)
	b.WriteString("\n\n")
	for _, entry := range entries {
		if entry.IsNamedDependency {
			b.WriteByte('-')
		}
		b.WriteString(entry.SrcPath)
		if entry.IsPresigned {
			b.WriteString(";" + presignedModifier)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// SortBySrcPath sorts entries in place by source path.
func SortBySrcPath(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SrcPath < entries[j].SrcPath
	})
}
