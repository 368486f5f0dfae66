package soong

import (
	"path"
	"strings"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

const platformCertificate = "platform"

// nameExtensions are stripped from the basename to form a module name.
var nameExtensions = map[string]bool{
	blobs.ExtSharedObject: true,
	blobs.ExtApp:          true,
	blobs.ExtJar:          true,
	blobs.ExtXML:          true,
	blobs.ExtApex:         true,
}

// ModuleName returns the candidate module name for an entry.
func ModuleName(entry blobs.Entry) string {
	base := entry.Filename()
	ext := path.Ext(base)
	if nameExtensions[ext] {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// BlobToModule synthesizes the module declaration for one entry. srcPaths is
// the set of all entries' source paths in the run, used to find the other
// architecture of a shared library.
func BlobToModule(name, ext, owner string, entry blobs.Entry, srcPaths map[string]struct{}) (Module, error) {
	parts := entry.PathParts()
	m := Module{
		Name:  name,
		Owner: owner,
	}

	switch {
	// Scripts first so .sh files in bin/ don't become executables
	case ext == blobs.ExtScript:
		rel, err := relativeInstallPath(entry, parts, blobs.BinDir, "script")
		if err != nil {
			return Module{}, err
		}
		m.Kind = KindScript
		m.Script = &ScriptProps{
			Src:                 entry.SrcPath,
			RelativeInstallPath: rel,
		}

	case parts[0] == blobs.BinDir:
		rel, err := relativeInstallPath(entry, parts, blobs.BinDir, "executable")
		if err != nil {
			return Module{}, err
		}
		m.Kind = KindExecutable
		m.Executable = &ExecutableProps{
			Srcs:                []string{entry.SrcPath},
			Stem:                stemFor(name, entry.Filename()),
			RelativeInstallPath: rel,
			Prefer:              true,
		}

	case parts[0] == blobs.DspDir:
		rel, err := relativeInstallPath(entry, parts, blobs.DspDir, "dsp")
		if err != nil {
			return Module{}, err
		}
		m.Kind = KindDsp
		m.Dsp = &DspProps{
			Src:    entry.SrcPath,
			SubDir: rel,
		}

	case parts[0] == blobs.EtcDir:
		rel, err := relativeInstallPath(entry, parts, blobs.EtcDir, "etc")
		if err != nil {
			return Module{}, err
		}
		m.Kind = KindEtc
		if ext == blobs.ExtXML {
			m.Kind = KindEtcXML
		}
		m.Etc = &EtcProps{
			Src:             entry.SrcPath,
			FilenameFromSrc: true,
			SubDir:          rel,
		}

	case ext == blobs.ExtSharedObject:
		props, err := sharedLibrary(name, entry, parts, srcPaths)
		if err != nil {
			return Module{}, err
		}
		m.Kind = KindSharedLibrary
		m.SharedLibrary = props

	case ext == blobs.ExtApp:
		m.Kind = KindApp
		m.App = &AppProps{
			Apk:        entry.SrcPath,
			Presigned:  entry.IsPresigned,
			Privileged: parts[0] == blobs.PrivAppDir,
		}
		if !entry.IsPresigned {
			m.App.Certificate = platformCertificate
		}

	case ext == blobs.ExtJar:
		m.Kind = KindJar
		m.Jar = &JarProps{Jars: []string{entry.SrcPath}}

	case ext == blobs.ExtApex:
		m.Kind = KindApex
		m.Apex = &ApexProps{
			Src:    entry.SrcPath,
			Prefer: true,
		}

	default:
		return Module{}, &blobs.ClassificationError{
			Path: entry.SrcPath,
			Rule: "extension " + ext,
			Err:  ErrUnknownArtifactKind,
		}
	}

	m.setPartition(entry.Partition)
	return m, nil
}

// sharedLibrary builds the props of a native library, merging in the other
// architecture when its twin is part of the same run.
func sharedLibrary(name string, entry blobs.Entry, parts []string, srcPaths map[string]struct{}) (*SharedLibraryProps, error) {
	libDir := parts[0]
	var arch, otherDir string
	switch libDir {
	case blobs.LibDir32:
		arch, otherDir = string(Multilib32), blobs.LibDir64
	case blobs.LibDir64:
		arch, otherDir = string(Multilib64), blobs.LibDir32
	default:
		return nil, &blobs.ClassificationError{
			Path: entry.SrcPath,
			Rule: "shared library dir " + libDir,
			Err:  ErrUnknownLibDir,
		}
	}

	rel, err := relativeInstallPath(entry, parts, libDir, "shared library")
	if err != nil {
		return nil, err
	}

	props := &SharedLibraryProps{
		Stem:                stemFor(name, strings.TrimSuffix(entry.Filename(), blobs.ExtSharedObject)),
		RelativeInstallPath: rel,
		Multilib:            Multilib(arch),
		StripNone:           true,
		Prefer:              true,
	}

	own := &TargetSrcs{Srcs: []string{entry.SrcPath}}
	otherPath := path.Join(append([]string{otherDir}, parts[1:]...)...)
	otherSrc := partition.PartPathToSrcPath(entry.Partition, otherPath)
	if _, ok := srcPaths[otherSrc]; ok {
		props.Multilib = MultilibBoth
		other := &TargetSrcs{Srcs: []string{otherSrc}}
		if arch == string(Multilib32) {
			props.Arm, props.Arm64 = own, other
		} else {
			props.Arm, props.Arm64 = other, own
		}
		return props, nil
	}

	if arch == string(Multilib32) {
		props.Arm = own
	} else {
		props.Arm64 = own
	}
	return props, nil
}

// relativeInstallPath returns the directories between installDir and the
// filename, or "" when the file sits directly in installDir.
func relativeInstallPath(entry blobs.Entry, parts []string, installDir, rule string) (string, error) {
	if parts[0] != installDir {
		return "", &blobs.ClassificationError{
			Path: entry.SrcPath,
			Rule: rule + " in " + installDir + "/",
			Err:  ErrUnexpectedInstallDir,
		}
	}
	if len(parts) <= 2 {
		return "", nil
	}
	return strings.Join(parts[1:len(parts)-1], "/"), nil
}

func stemFor(name, installed string) string {
	if name == installed {
		return ""
	}
	return installed
}
