package config

// Version is the ace toolchain's self-reported version string, printed by
// cmd/ace's version command.
const Version = "0.1.0"

// SourceFileExt is the canonical Ace source file extension.
const SourceFileExt = ".ace"

// BytecodeFileExt is the compiled-output extension cmd/ace writes.
const BytecodeFileExt = ".acec"

// SourceFileExtensions lists every extension the pipeline will attempt to
// load as Ace source, mirroring the teacher's constants.go shape of naming
// a primary extension plus accepted aliases.
var SourceFileExtensions = []string{SourceFileExt}

// TrimSourceExt strips a known source extension from name, if present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends in a known source extension.
func HasSourceExt(path string) bool {
	trimmed := TrimSourceExt(path)
	return trimmed != path
}

// Builtin type names, centralized so the analyzer, emitter, and VM never
// hard-code these strings independently (spec.md §3.3).
const (
	TypeUndefined = "Undefined"
	TypeAny       = "Any"
	TypeObject    = "Object"
	TypeInt       = "Int"
	TypeFloat     = "Float"
	TypeNumber    = "Number"
	TypeBoolean   = "Boolean"
	TypeString    = "String"
	TypeNull      = "Null"
	TypeFunction  = "Function"
	TypeArray     = "Array"
	TypeTuple     = "Tuple"
	TypeArgs      = "Args"
	TypeMaybe     = "Maybe"
	TypeConst     = "Const"
	TypeBlock     = "Block"
	TypeClosure   = "Closure"
	TypeGenerator = "Generator"
)

// Builtin free-function names (mirroring the teacher's constants.go
// function-name block). The analyzer does not declare or resolve these
// names, and no other package refers to them.
const (
	FuncPrint   = "print"
	FuncLen     = "len"
	FuncToStr   = "to_string"
)
