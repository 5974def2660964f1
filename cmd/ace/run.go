package main

import (
	"fmt"
	"os"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/ajmd17/ace-lang-sub001/internal/config"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/vmrt"
)

// runRun implements `ace run <file>`: a .acec file loads straight onto the
// VM, a .ace file is compiled first (spec.md §6 "compile and run" path —
// there is no tree-walk fallback, so this is the only way to execute Ace
// source).
func runRun(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ace run <file.ace|file.acec>")
	}
	path := args[0]

	var file *bytecode.File
	if config.HasSourceExt(path) {
		compiled, errs, err := compileUnit(path)
		if errs.Len() > 0 {
			diagnostics.NewPrinter(os.Stderr).Print(errs)
		}
		if err != nil {
			return err
		}
		file = compiled
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		file, err = bytecode.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	vm := vmrt.NewVM(file)
	if err := vm.Run(); err != nil {
		return fmt.Errorf("uncaught exception: %w", err)
	}
	return nil
}
