package soong

import (
	"fmt"
	"strconv"
	"strings"
)

// BlueprintHeader is the first line of every generated Android.bp.
const BlueprintHeader = "// Generated by vendorgen; do not edit"

const indentUnit = "    "

// property is one Blueprint property. Value is a string, bool, []string or
// []property for a nested map.
type property struct {
	name  string
	value any
}

// SerializeBlueprint renders modules as Android.bp text. With namespace set,
// the file declares a soong_namespace so module names stay local to it.
func SerializeBlueprint(modules []Module, namespace bool) string {
	var b strings.Builder
	b.WriteString(BlueprintHeader)
	b.WriteString("\n")
	if namespace {
		b.WriteString("\nsoong_namespace {\n}\n")
	}
	for _, m := range modules {
		b.WriteString("\n")
		b.WriteString(SerializeModule(m))
		b.WriteString("\n")
	}
	return b.String()
}

// SerializeModule renders a single module declaration.
func SerializeModule(m Module) string {
	var b strings.Builder
	b.WriteString(string(m.Kind))
	b.WriteString(" ")
	writeMap(&b, moduleProperties(m), 0)
	return b.String()
}

func moduleProperties(m Module) []property {
	props := []property{
		{"name", m.Name},
		{"owner", m.Owner},
	}
	props = append(props, kindProperties(m)...)

	if m.SystemExtSpecific {
		props = append(props, property{"system_ext_specific", true})
	}
	if m.ProductSpecific {
		props = append(props, property{"product_specific", true})
	}
	if m.SocSpecific {
		props = append(props, property{"soc_specific", true})
	}
	if m.DeviceSpecific {
		props = append(props, property{"device_specific", true})
	}
	return props
}

func kindProperties(m Module) []property {
	var props []property
	add := func(name string, value any) {
		props = append(props, property{name, value})
	}
	addIf := func(name, value string) {
		if value != "" {
			add(name, value)
		}
	}

	switch {
	case m.SharedLibrary != nil:
		lib := m.SharedLibrary
		addIf("stem", lib.Stem)
		addIf("relative_install_path", lib.RelativeInstallPath)
		add("strip", []property{{"none", lib.StripNone}})
		var target []property
		if lib.Arm != nil {
			target = append(target, property{"android_arm", []property{{"srcs", lib.Arm.Srcs}}})
		}
		if lib.Arm64 != nil {
			target = append(target, property{"android_arm64", []property{{"srcs", lib.Arm64.Srcs}}})
		}
		add("target", target)
		add("compile_multilib", string(lib.Multilib))
		add("check_elf_files", lib.CheckElfFiles)
		add("prefer", lib.Prefer)

	case m.Executable != nil:
		exe := m.Executable
		add("srcs", exe.Srcs)
		addIf("stem", exe.Stem)
		addIf("relative_install_path", exe.RelativeInstallPath)
		add("check_elf_files", exe.CheckElfFiles)
		add("prefer", exe.Prefer)

	case m.Script != nil:
		add("src", m.Script.Src)
		addIf("relative_install_path", m.Script.RelativeInstallPath)

	case m.App != nil:
		app := m.App
		add("apk", app.Apk)
		if app.Presigned {
			add("presigned", true)
		}
		addIf("certificate", app.Certificate)
		if app.Privileged {
			add("privileged", true)
		}
		add("dex_preopt", []property{{"enabled", app.DexPreopt}})

	case m.Jar != nil:
		add("jars", m.Jar.Jars)

	case m.Apex != nil:
		add("src", m.Apex.Src)
		add("prefer", m.Apex.Prefer)

	case m.Etc != nil:
		add("src", m.Etc.Src)
		add("filename_from_src", m.Etc.FilenameFromSrc)
		addIf("sub_dir", m.Etc.SubDir)

	case m.Dsp != nil:
		add("src", m.Dsp.Src)
		addIf("sub_dir", m.Dsp.SubDir)
	}
	return props
}

func writeMap(b *strings.Builder, props []property, depth int) {
	b.WriteString("{\n")
	indent := strings.Repeat(indentUnit, depth+1)
	for _, p := range props {
		b.WriteString(indent)
		b.WriteString(p.name)
		b.WriteString(": ")
		writeValue(b, p.value, depth+1)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
}

func writeValue(b *strings.Builder, value any, depth int) {
	switch v := value.(type) {
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		b.WriteString("[" + strings.Join(quoted, ", ") + "]")
	case []property:
		writeMap(b, v, depth)
	default:
		panic(fmt.Sprintf("unsupported blueprint value %T", value))
	}
}
