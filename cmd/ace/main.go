// Command ace is the Ace toolchain's command-line front end: compile a
// source file to bytecode, run a source or compiled file on the register
// VM, or list a compiled file's disassembly.
//
// Grounded on the teacher's cmd/funxy/main.go dispatch style — a bare
// os.Args[1] switch, no flag package, no cobra — pared down to the three
// subcommands spec.md §6 actually specifies (the teacher's "test"/"build"/
// "-e"/embedded-bundle modes have no SPEC_FULL.md counterpart; there is no
// tree-walk backend to select between, so unlike the teacher there is no
// -BackendType build tag either).
package main

import (
	"fmt"
	"os"

	"github.com/ajmd17/ace-lang-sub001/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile", "-c", "--compile":
		err = runCompile(os.Args[2:])
	case "run", "-r", "--run":
		err = runRun(os.Args[2:])
	case "disasm", "--disasm", "decompile":
		err = runDisasm(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Println("ace " + config.Version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ace: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w *os.File) {
	fmt.Fprintf(w, `usage: ace <command> [arguments]

commands:
  compile <file.ace> [-o out.acec]   compile a source file to bytecode
  run <file.ace|file.acec>           compile (if needed) and run a file
  disasm <file.acec>                 list a compiled file's disassembly
  version                            print the toolchain version
  help                               show this message
`)
}
