package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/config"
	"github.com/ajmd17/ace-lang-sub001/internal/utils"
)

// resolution is the output of flattening an entry file's import graph: the
// combined statement list ready for a single Analyze/Optimize/Compile
// pass, plus a content hash covering every file that contributed to it
// (for the cache key).
type resolution struct {
	stmts []ast.Statement
	hash  string
}

// resolve flattens entryPath's local/module import graph into one
// resolution. A `local_import "path"` splices the target file's statements
// in place, in the importing scope (ast.LocalImportStatement's own doc
// comment); `import path [as alias]` wraps the target's statements in a
// synthetic ast.ModuleDeclaration so the existing Visit/Build handling for
// `module name { ... }` opens and closes that module's scope for free —
// the same AST shape a literal module declaration would produce, so
// neither the analyzer nor the emitter needs any import-specific code path
// beyond the no-ops ast.LocalImportStatement/ast.ModuleImportStatement
// already have.
func (u *Unit) resolve(entryPath string) (*resolution, error) {
	h := sha256.New()
	visited := make(map[string]bool)
	stmts, err := u.resolveFile(entryPath, visited, h)
	if err != nil {
		return nil, err
	}
	return &resolution{stmts: stmts, hash: hex.EncodeToString(h.Sum(nil))}, nil
}

func (u *Unit) resolveFile(path string, visited map[string]bool, h interface{ Write([]byte) (int, error) }) ([]ast.Statement, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: resolving %s: %w", path, err)
	}
	if visited[canon] {
		return nil, nil
	}
	visited[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading %s: %w", canon, err)
	}
	h.Write(data)

	prog, err := parseFile(canon, u.Errors)
	if err != nil {
		return nil, err
	}

	out := make([]ast.Statement, 0, len(prog.Statements))
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.LocalImportStatement:
			target, err := u.locateImport(canon, s.Path)
			if err != nil {
				return nil, err
			}
			inner, err := u.resolveFile(target, visited, h)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)

		case *ast.ModuleImportStatement:
			target, err := u.locateImport(canon, s.Path)
			if err != nil {
				return nil, err
			}
			name := s.Alias
			if name == "" {
				name = utils.ExtractModuleName(s.Path)
			}
			inner, err := u.resolveFile(target, visited, h)
			if err != nil {
				return nil, err
			}
			decl := &ast.ModuleDeclaration{Name: name, Body: inner}
			out = append(out, decl)

		default:
			out = append(out, stmt)
		}
	}
	return out, nil
}

// locateImport resolves importPath relative to fromFile's directory first
// (spec.md §3.7 "local and module import" are both path-based), then
// against each configured module search root, matching the teacher's own
// multi-root lookup in internal/modules (superseded here, see DESIGN.md).
func (u *Unit) locateImport(fromFile, importPath string) (string, error) {
	baseDir := filepath.Dir(fromFile)
	resolved := utils.ResolveImportPath(baseDir, importPath)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}

	candidates := []string{resolved}
	if !config.HasSourceExt(resolved) {
		candidates = append(candidates, resolved+config.SourceFileExt)
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}

	for _, root := range u.searchPaths {
		for _, c := range []string{importPath, importPath + config.SourceFileExt} {
			full := filepath.Join(root, c)
			if fileExists(full) {
				return full, nil
			}
		}
	}

	return "", fmt.Errorf("pipeline: cannot locate import %q from %s", importPath, fromFile)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
