// Package diagnostics implements the error-reporting model of the Ace
// compiler: a single-writer list of leveled, located diagnostics shared by
// every compiler pass via the compilation unit.
package diagnostics

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-isatty"
)

// Location is a source position, totally ordered by (File, Line, Column).
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Less implements the total order over locations required by spec.md §3.1.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Level is the severity of a diagnostic.
type Level int

const (
	Info Level = iota
	Warning
	Fatal
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Fatal:
		return "error"
	default:
		return "unknown"
	}
}

// Kind is a stable, embedder-switchable diagnostic code. The original
// ace-lang compiler_error.hpp assigns a small integer per diagnostic kind;
// this keeps that property instead of only naming kinds by string.
type Kind int

const (
	// Lex errors
	KindUnexpectedChar Kind = iota
	KindUnterminatedString
	KindBadEscape

	// Syntax errors
	KindUnexpectedToken
	KindUnbalanced

	// Scope / name errors
	KindUndeclaredIdentifier
	KindRedeclaredIdentifier
	KindIdentifierIsModule
	KindIdentifierIsType
	KindAmbiguousIdentifier

	// Type errors
	KindMismatchedTypes
	KindNotAFunction
	KindNotADataMember
	KindUnsatisfiedContract

	// Module errors
	KindModuleNotImported
	KindModuleAlreadyDefined
	KindImportOutsideGlobal
	KindCouldNotOpenModule

	// Arity errors
	KindTooFewArgs
	KindTooManyArgs
	KindNamedArgNotFound
	KindArgAfterVarargs

	// Semantics errors
	KindConstModified
	KindCannotModifyRValue
	KindReturnOutsideFunction
	KindElseOutsideIf
	KindGenericParamRedeclared
	KindMissingTypeOrInitializer
	KindConstWithoutInitializer

	// Warnings
	KindUnreachableCode
	KindMissingSemicolon

	// Infos
	KindUnusedIdentifier
	KindNamingConvention

	// Emission errors (internal/emit): these should never fire for a
	// program that passed analysis clean, since the compiler only ever
	// requests storage-operation combinations the analyzer already
	// validated; a hit here means a compiler invariant broke.
	KindEmitUnsupported
)

// Diagnostic is a single reported error, warning, or info message.
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Loc     Location
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc, d.Level, d.Message)
}

// Bag is the compilation unit's single-writer error list (spec.md §3.6,
// §5 "single-writer during compilation").
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) add(level Level, kind Kind, loc Location, format string, args ...interface{}) {
	b.items = append(b.items, Diagnostic{
		Level:   level,
		Kind:    kind,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
	})
}

// Fatal records a fatal error. Analysis must continue within the current
// pass after a Fatal is recorded (spec.md §7); only code generation is
// gated on HasFatal.
func (b *Bag) Fatal(kind Kind, loc Location, format string, args ...interface{}) {
	b.add(Fatal, kind, loc, format, args...)
}

// Warn records a warning.
func (b *Bag) Warn(kind Kind, loc Location, format string, args ...interface{}) {
	b.add(Warning, kind, loc, format, args...)
}

// Info records an informational diagnostic.
func (b *Bag) Info(kind Kind, loc Location, format string, args ...interface{}) {
	b.add(Info, kind, loc, format, args...)
}

// HasFatal reports whether any fatal error has been recorded so far.
func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.Level == Fatal {
			return true
		}
	}
	return false
}

// All returns every recorded diagnostic, sorted by source location.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Loc.Less(out[j].Loc)
	})
	return out
}

// Len returns the number of recorded diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Printer renders diagnostics to a writer, using ANSI severity colors only
// when the writer is backed by a terminal.
type Printer struct {
	W      io.Writer
	color  bool
	forced bool
}

// NewPrinter builds a Printer for w, auto-detecting color support via
// isatty the way the teacher's own CLI gates colored output.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{W: w}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// SetColor forces color on or off, overriding isatty detection.
func (p *Printer) SetColor(on bool) {
	p.color = on
	p.forced = true
}

func (p *Printer) levelColor(l Level) string {
	if !p.color {
		return ""
	}
	switch l {
	case Fatal:
		return "\x1b[31m"
	case Warning:
		return "\x1b[33m"
	default:
		return "\x1b[36m"
	}
}

// Print renders every diagnostic in the bag, one per line.
func (p *Printer) Print(b *Bag) {
	reset := ""
	if p.color {
		reset = "\x1b[0m"
	}
	for _, d := range b.All() {
		fmt.Fprintf(p.W, "%s%s%s: %s: %s\n", p.levelColor(d.Level), d.Loc, reset, d.Level, d.Message)
	}
}
