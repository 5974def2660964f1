package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajmd17/ace-lang-sub001/internal/config"
	"github.com/ajmd17/ace-lang-sub001/internal/pipeline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUnit_CompileSingleFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ace", `
let add = func(a: Int, b: Int) -> Int { return a + b; };
let result = add(1, 2);
`)

	u, err := pipeline.NewUnit(&config.Config{Cache: false})
	require.NoError(t, err)
	defer u.Close()

	file, err := u.Compile(entry)
	require.NoError(t, err)
	require.NotNil(t, file)
	require.False(t, u.Errors.HasFatal(), "unexpected diagnostics: %v", u.Errors.All())
}

func TestUnit_CompileWithLocalAndModuleImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helpers.ace", `let helper_value = 42;`)
	writeFile(t, dir, "mathlib.ace", `let pi = 3;`)
	entry := writeFile(t, dir, "main.ace", `
local_import "helpers.ace";
import "mathlib.ace" as mathlib;

let total = helper_value + mathlib.pi;
`)

	u, err := pipeline.NewUnit(&config.Config{Cache: false})
	require.NoError(t, err)
	defer u.Close()

	file, err := u.Compile(entry)
	require.NoError(t, err, "diagnostics: %v", u.Errors.All())
	require.NotNil(t, file)
}

func TestUnit_CompileUsesCacheOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ace", `let x = 1;`)
	writeFile(t, dir, "ace.yaml", "cache: true\n")

	cfg, err := config.Load(filepath.Join(dir, "ace.yaml"))
	require.NoError(t, err)

	u, err := pipeline.NewUnit(cfg)
	require.NoError(t, err)
	defer u.Close()

	first, err := u.Compile(entry)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := u.Compile(entry)
	require.NoError(t, err)
	require.Equal(t, mustEncode(t, first), mustEncode(t, second))
}

func mustEncode(t *testing.T, f interface{ Encode() ([]byte, error) }) []byte {
	t.Helper()
	data, err := f.Encode()
	require.NoError(t, err)
	return data
}
