package soong

import (
	"github.com/danieljhkim/vendorgen/internal/partition"
)

// Kind is the Soong module type of a declaration.
type Kind string

// Module kinds emitted by vendorgen.
const (
	KindSharedLibrary Kind = "cc_prebuilt_library_shared"
	KindExecutable    Kind = "cc_prebuilt_binary"
	KindScript        Kind = "sh_binary"
	KindApp           Kind = "android_app_import"
	KindJar           Kind = "dex_import"
	KindApex          Kind = "prebuilt_apex"
	KindEtc           Kind = "prebuilt_etc"
	KindEtcXML        Kind = "prebuilt_etc_xml"
	KindDsp           Kind = "prebuilt_dsp"
)

// Multilib values for compile_multilib.
type Multilib string

const (
	Multilib32   Multilib = "32"
	Multilib64   Multilib = "64"
	MultilibBoth Multilib = "both"
)

// Module is one build module declaration. Exactly one of the kind-specific
// property pointers is set, matching Kind.
type Module struct {
	Kind  Kind   `json:"kind"`
	Name  string `json:"name"`
	Owner string `json:"owner"`

	SystemExtSpecific bool `json:"system_ext_specific,omitempty"`
	ProductSpecific   bool `json:"product_specific,omitempty"`
	SocSpecific       bool `json:"soc_specific,omitempty"`
	DeviceSpecific    bool `json:"device_specific,omitempty"`

	SharedLibrary *SharedLibraryProps `json:"shared_library,omitempty"`
	Executable    *ExecutableProps    `json:"executable,omitempty"`
	Script        *ScriptProps        `json:"script,omitempty"`
	App           *AppProps           `json:"app,omitempty"`
	Jar           *JarProps           `json:"jar,omitempty"`
	Apex          *ApexProps          `json:"apex,omitempty"`
	Etc           *EtcProps           `json:"etc,omitempty"`
	Dsp           *DspProps           `json:"dsp,omitempty"`
}

// TargetSrcs lists the sources of one architecture.
type TargetSrcs struct {
	Srcs []string `json:"srcs"`
}

// SharedLibraryProps describes a cc_prebuilt_library_shared.
type SharedLibraryProps struct {
	// Stem is empty when the installed name equals the module name
	Stem                string   `json:"stem,omitempty"`
	RelativeInstallPath string   `json:"relative_install_path,omitempty"`
	Multilib            Multilib `json:"compile_multilib"`

	Arm   *TargetSrcs `json:"android_arm,omitempty"`
	Arm64 *TargetSrcs `json:"android_arm64,omitempty"`

	StripNone     bool `json:"strip_none"`
	CheckElfFiles bool `json:"check_elf_files"`
	Prefer        bool `json:"prefer"`
}

// ExecutableProps describes a cc_prebuilt_binary.
type ExecutableProps struct {
	Srcs                []string `json:"srcs"`
	Stem                string   `json:"stem,omitempty"`
	RelativeInstallPath string   `json:"relative_install_path,omitempty"`
	CheckElfFiles       bool     `json:"check_elf_files"`
	Prefer              bool     `json:"prefer"`
}

// ScriptProps describes an sh_binary.
type ScriptProps struct {
	Src                 string `json:"src"`
	RelativeInstallPath string `json:"relative_install_path,omitempty"`
}

// AppProps describes an android_app_import.
type AppProps struct {
	Apk string `json:"apk"`

	// Presigned keeps the existing signature; otherwise Certificate is set
	Presigned   bool   `json:"presigned,omitempty"`
	Certificate string `json:"certificate,omitempty"`
	Privileged  bool   `json:"privileged,omitempty"`
	DexPreopt   bool   `json:"dex_preopt"`
}

// JarProps describes a dex_import.
type JarProps struct {
	Jars []string `json:"jars"`
}

// ApexProps describes a prebuilt_apex, always preferred over source modules.
type ApexProps struct {
	Src    string `json:"src"`
	Prefer bool   `json:"prefer"`
}

// EtcProps describes prebuilt_etc and prebuilt_etc_xml. The installed
// filename always comes from the source file.
type EtcProps struct {
	Src             string `json:"src"`
	FilenameFromSrc bool   `json:"filename_from_src"`
	SubDir          string `json:"sub_dir,omitempty"`
}

// DspProps describes a prebuilt_dsp.
type DspProps struct {
	Src    string `json:"src"`
	SubDir string `json:"sub_dir,omitempty"`
}

// IsDualArch reports whether m is a shared library built for both 32 and 64 bit.
func (m *Module) IsDualArch() bool {
	return m.Kind == KindSharedLibrary && m.SharedLibrary != nil && m.SharedLibrary.Multilib == MultilibBoth
}

// setPartition sets the placement flag for p. System, and the DLKM
// partitions which only carry copied kernel modules, have no flag.
func (m *Module) setPartition(p partition.Partition) {
	switch p {
	case partition.SystemExt:
		m.SystemExtSpecific = true
	case partition.Product:
		m.ProductSpecific = true
	case partition.Vendor:
		m.SocSpecific = true
	case partition.ODM:
		m.DeviceSpecific = true
	}
}
