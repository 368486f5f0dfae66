package blobs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/hash"
)

var (
	xmlVersion2Header = []byte(`<?xml version="2.0"`)
	xmlVersion1Header = []byte(`<?xml version="1.0"`)
)

// CopyStats summarizes a CopyBlobs run.
type CopyStats struct {
	Copied    int `json:"copied"`
	Patched   int `json:"patched"`
	Unchanged int `json:"unchanged"`

	// Symlinks are declared at build time instead of being copied
	Symlinks []Entry `json:"symlinks,omitempty"`
}

// CopyBlobs copies entries from the stock system at srcRoot into outDir,
// laid out by source path.
func CopyBlobs(fs fsops.FS, hasher hash.Hasher, entries []Entry, srcRoot, outDir string) (*CopyStats, error) {
	stats := &CopyStats{}
	for _, entry := range entries {
		readPath, err := ReadPath(fs, entry, srcRoot)
		if err != nil {
			return nil, err
		}
		outPath := filepath.Join(outDir, filepath.FromSlash(entry.SrcPath))

		info, err := fs.Lstat(readPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", readPath, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			stats.Symlinks = append(stats.Symlinks, entry)
			continue
		}

		if entry.Ext() == ExtXML {
			patched, err := copyPatchedXML(fs, readPath, outPath)
			if err != nil {
				return nil, err
			}
			if patched {
				stats.Patched++
				continue
			}
		}

		same, err := sameContent(fs, hasher, readPath, outPath)
		if err != nil {
			return nil, err
		}
		if same {
			stats.Unchanged++
			continue
		}

		if err := fs.CopyFile(readPath, outPath); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", entry.SrcPath, err)
		}
		stats.Copied++
	}
	return stats, nil
}

// ReadPath returns where an entry's content lives on the host.
func ReadPath(fs fsops.FS, entry Entry, srcRoot string) (string, error) {
	if entry.DiskSrcPath != "" {
		return entry.DiskSrcPath, nil
	}

	partRoot, ok, err := PartitionRoot(fs, entry.Partition, srcRoot)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("partition %s not found under %s", entry.Partition, srcRoot)
	}
	return filepath.Join(partRoot, filepath.FromSlash(entry.Path)), nil
}

// copyPatchedXML rewrites Qualcomm "version 2.0" XML headers, which the
// build's XML tooling rejects. It reports false when no patch was needed.
func copyPatchedXML(fs fsops.FS, src, dst string) (bool, error) {
	data, err := fs.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", src, err)
	}
	if !bytes.HasPrefix(data, xmlVersion2Header) {
		return false, nil
	}

	patched := append(append([]byte(nil), xmlVersion1Header...), data[len(xmlVersion2Header):]...)
	if err := fs.AtomicWrite(dst, patched, 0644); err != nil {
		return false, fmt.Errorf("failed to write patched %s: %w", dst, err)
	}
	return true, nil
}

func sameContent(fs fsops.FS, hasher hash.Hasher, src, dst string) (bool, error) {
	exists, err := fs.Exists(dst)
	if err != nil || !exists {
		return false, err
	}

	srcDigest, err := hasher.DigestFile(src)
	if err != nil {
		return false, fmt.Errorf("failed to digest %s: %w", src, err)
	}
	dstDigest, err := hasher.DigestFile(dst)
	if err != nil {
		return false, fmt.Errorf("failed to digest %s: %w", dst, err)
	}
	return srcDigest == dstDigest, nil
}
