package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/nin/internal/picker"
)

type fixture struct {
	dir      string
	argsFile string
	issue    string
	editor   string
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	env      Env
	selected []string
}

// newFixture isolates the working directory and configuration, and points
// ninja, cbuild and the editor at the helper process.
func newFixture(t *testing.T, scenario string) *fixture {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	f := &fixture{
		dir:      dir,
		argsFile: filepath.Join(dir, "tool-args.txt"),
		issue:    filepath.Join(dir, "src", "main.c"),
		editor:   filepath.Join(dir, "editor-args.txt"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(f.issue), 0o755))
	require.NoError(t, os.WriteFile(f.issue, []byte("int main(void) {}\n"), 0o600))

	configPath := filepath.Join(dir, "nin-test.yaml")
	configYAML := fmt.Sprintf("ninja: %q\ncbuild: %q\neditor: %q\n",
		helperExe("ninja"), helperExe("cbuild"), helperExe("editor"))
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o600))

	t.Setenv("NIN_CONFIG", configPath)
	t.Setenv("NIN_EDITOR", "")
	t.Setenv("NIN_LOG_LEVEL", "")
	t.Setenv("NIN_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv(helperEnvKey, scenario)
	t.Setenv(helperArgsFile, f.argsFile)
	t.Setenv(helperIssue, f.issue)
	t.Setenv(helperEditor, f.editor)

	f.env = Env{
		Stdout:      &f.stdout,
		Stderr:      &f.stderr,
		Interactive: true,
		Select: func(_ context.Context, _ string, targets []string) (string, error) {
			f.selected = targets
			return "all", nil
		},
	}
	return f
}

func (f *fixture) run(newCmd func(Env) *cobra.Command, args ...string) int {
	return Execute(context.Background(), newCmd(f.env), args)
}

// invocations returns the argv of each build tool run, in order.
func (f *fixture) invocations(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.argsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNin_BuildsTargetAndCachesIt(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand, "-t", "app.elf")
	assert.Equal(t, ExitOK, code, f.stderr.String())

	assert.Equal(t, []string{"-C build app.elf"}, f.invocations(t))
	assert.Equal(t, "app.elf", readFile(t, filepath.Join("build", ".nin", "last_target")))

	out := f.stdout.String()
	assert.Contains(t, out, "Linking C executable app.elf")
	assert.Contains(t, out, "Finished in")
}

func TestNin_UsesCachedTarget(t *testing.T) {
	f := newFixture(t, "ok")
	require.NoError(t, os.MkdirAll(filepath.Join("out", ".nin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("out", ".nin", "last_target"), []byte("firmware.hex"), 0o600))

	code := f.run(NewNinCommand, "-b", "out")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"-C out firmware.hex"}, f.invocations(t))
}

func TestNin_CacheDirOverride(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand, "--cache_dir", "state", "-t", "all")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "all", readFile(t, filepath.Join("state", ".nin", "last_target")))
	assert.NoFileExists(t, filepath.Join("build", ".nin", "last_target"))
}

func TestNin_When_NoTargetAndNoCache(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand)
	assert.Equal(t, ExitFail, code)
	assert.Contains(t, f.stdout.String(), "No target specified and no cache found")
	assert.Empty(t, f.invocations(t), "build tool must not be started")
}

func TestNin_StopsAtFirstErrorAndOpensEditor(t *testing.T) {
	f := newFixture(t, "error")

	code := f.run(NewNinCommand, "-t", "app.elf")
	assert.Equal(t, ExitFail, code)

	out := f.stdout.String()
	assert.Contains(t, out, "error: expected ';'")
	assert.NotContains(t, out, "uart.c.obj")
	assert.Contains(t, out, "Error found, build stopped")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(f.editor)
		return err == nil && len(data) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "--reuse-window --goto "+f.issue+":14:1:", readFile(t, f.editor))
}

func TestNin_WarningsAsErrors(t *testing.T) {
	f := newFixture(t, "error")

	code := f.run(NewNinCommand, "-t", "app.elf", "-w")
	assert.Equal(t, ExitFail, code)
	assert.NotContains(t, f.stdout.String(), "error: expected ';'")
	assert.Contains(t, f.stdout.String(), "Warning found, build stopped")
}

func TestNin_SkipLetsBuildFinish(t *testing.T) {
	f := newFixture(t, "error")

	code := f.run(NewNinCommand, "-t", "app.elf", "--skip", "1")
	assert.Equal(t, ExitOK, code)

	out := f.stdout.String()
	assert.Contains(t, out, "Skipping error 1 of 1")
	assert.Contains(t, out, "uart.c.obj")
	assert.NoFileExists(t, f.editor)
}

func TestNin_PropagatesBuildToolExitCode(t *testing.T) {
	f := newFixture(t, "fail")

	code := f.run(NewNinCommand, "-t", "app.elf")
	assert.Equal(t, 3, code)
	assert.Contains(t, f.stdout.String(), "build stopped: subcommand failed")
}

func TestNin_CleanRunsBeforeBuild(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand, "-t", "app.elf", "-c")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"-C build clean", "-C build app.elf"}, f.invocations(t))
	assert.Contains(t, f.stdout.String(), "Cleaning... 4 files.")
}

func TestNin_FailedCleanIsAWarning(t *testing.T) {
	f := newFixture(t, "clean-fails")

	code := f.run(NewNinCommand, "-t", "app.elf", "-c")
	assert.Equal(t, ExitFail, code, "the build itself still runs and stops at the error")
	assert.Contains(t, f.stdout.String(), "Clean failed")
	assert.Len(t, f.invocations(t), 2)
}

func TestNin_InteractiveSelection(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand, "-i")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"app.elf", "all"}, f.selected)
	assert.Equal(t, []string{"-C build -t targets", "-C build all"}, f.invocations(t))
	assert.Equal(t, "all", readFile(t, filepath.Join("build", ".nin", "last_target")))
}

func TestNin_InteractiveSelection_When_NothingChosen(t *testing.T) {
	f := newFixture(t, "ok")
	f.env.Select = func(context.Context, string, []string) (string, error) {
		return "", picker.ErrNoSelection
	}

	code := f.run(NewNinCommand, "-i")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, f.stdout.String(), "No target selected")
	assert.Equal(t, []string{"-C build -t targets"}, f.invocations(t))
}

func TestNin_InteractiveSelection_When_NoTargets(t *testing.T) {
	f := newFixture(t, "no-targets")

	code := f.run(NewNinCommand, "-i")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, f.stdout.String(), "ninja found no targets in directory build")
	assert.Nil(t, f.selected)
}

func TestNin_InteractiveSelection_When_NotATerminal(t *testing.T) {
	f := newFixture(t, "ok")
	f.env.Interactive = false

	code := f.run(NewNinCommand, "-i")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, f.stdout.String(), "needs a terminal")
	assert.Empty(t, f.invocations(t))
}

func TestNin_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"target with interactive", []string{"-t", "all", "-i"}},
		{"unknown flag", []string{"--frobnicate"}},
		{"positional argument", []string{"all"}},
		{"skip not a number", []string{"-s", "many"}},
		{"negative skip", []string{"-t", "all", "-s", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "ok")
			code := f.run(NewNinCommand, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Empty(t, f.invocations(t))
		})
	}
}

func TestNin_When_ToolMissing(t *testing.T) {
	f := newFixture(t, "ok")
	cfg := filepath.Join(f.dir, "missing.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("ninja: nin-ninja-that-does-not-exist\n"), 0o600))
	t.Setenv("NIN_CONFIG", cfg)

	code := f.run(NewNinCommand, "-t", "all")
	assert.Equal(t, 127, code)
	assert.Contains(t, f.stdout.String(), "failed to start build tool")
}

func TestNin_Version(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewNinCommand, "--version")
	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(f.stdout.String(), "nin dev"))
	assert.Empty(t, f.invocations(t))
}

func TestCB_BuildsProjectAndCachesIt(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewCBCommand, "Blinky.csolution.yml")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"Blinky.csolution.yml --context-set --packs"}, f.invocations(t))
	assert.Equal(t, "Blinky.csolution.yml",
		readFile(t, filepath.Join(DefaultCBCacheRoot, ".cb", "last_csolution_yml")))
}

func TestCB_UsesCachedProjectAndCleans(t *testing.T) {
	f := newFixture(t, "ok")
	require.NoError(t, os.MkdirAll(filepath.Join("cache", ".cb"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("cache", ".cb", "last_csolution_yml"), []byte("Motor.csolution.yml"), 0o600))

	code := f.run(NewCBCommand, "--cache_dir", "cache", "-c")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{
		"Motor.csolution.yml --clean",
		"Motor.csolution.yml --context-set --packs",
	}, f.invocations(t))
}

func TestCB_When_NoProjectAndNoCache(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewCBCommand)
	assert.Equal(t, ExitFail, code)
	assert.Contains(t, f.stdout.String(), "No project file specified and no cache found")
	assert.Empty(t, f.invocations(t))
}

func TestCB_StopsAtFirstError(t *testing.T) {
	f := newFixture(t, "error")

	code := f.run(NewCBCommand, "Blinky.csolution.yml")
	assert.Equal(t, ExitFail, code)
	assert.NotContains(t, f.stdout.String(), "uart.c.obj")
}

func TestCB_RejectsExtraArguments(t *testing.T) {
	f := newFixture(t, "ok")

	code := f.run(NewCBCommand, "a.csolution.yml", "b.csolution.yml")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, f.stderr.String(), "Run 'cb --help' for usage.")
}
