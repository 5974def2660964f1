package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/ajmd17/ace-lang-sub001/internal/config"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/pipeline"
)

// runCompile implements `ace compile <file.ace> [-o out.acec]`.
func runCompile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ace compile <file.ace> [-o out.acec]")
	}
	sourcePath := args[0]
	outPath := config.TrimSourceExt(sourcePath) + config.BytecodeFileExt
	for i := 1; i < len(args)-1; i++ {
		if args[i] == "-o" {
			outPath = args[i+1]
		}
	}

	file, errs, err := compileUnit(sourcePath)
	if errs.Len() > 0 {
		diagnostics.NewPrinter(os.Stderr).Print(errs)
	}
	if err != nil {
		return err
	}

	data, err := file.Encode()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", sourcePath, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(data))
	return nil
}

// compileUnit loads the nearest ace.yaml (if any) and compiles sourcePath
// through a fresh pipeline.Unit, the way every ace subcommand that needs
// bytecode out of a source file does it.
func compileUnit(sourcePath string) (*bytecode.File, *diagnostics.Bag, error) {
	dir := filepath.Dir(sourcePath)
	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		return nil, diagnostics.NewBag(), fmt.Errorf("loading config: %w", err)
	}

	u, err := pipeline.NewUnit(cfg)
	if err != nil {
		return nil, diagnostics.NewBag(), err
	}
	defer u.Close()

	file, err := u.Compile(sourcePath)
	if err != nil {
		return nil, u.Errors, err
	}
	return file, u.Errors, nil
}
