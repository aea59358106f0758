package magetasks

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// LDFlags returns the linker flags that stamp build information into
// internal/version.
func LDFlags(version, commit, date string) string {
	return fmt.Sprintf("-s -w -X '%s/internal/version.Version=%s' -X '%s/internal/version.CommitHash=%s' -X '%s/internal/version.BuildDate=%s'",
		ModulePath, version, ModulePath, commit, ModulePath, date)
}

// BuildAll builds all binaries
func BuildAll() error {
	PrintH2Header("Build")

	ldflags := LDFlags(getGitVersion(), getGitCommit(), time.Now().UTC().Format(time.RFC3339))

	for _, name := range Binaries {
		if err := Run("Building "+name, "go", "build", "-ldflags", ldflags, "-o", BinPath(name), "./cmd/"+name); err != nil {
			PrintError("Build failed")
			return err
		}
		PrintSuccess(fmt.Sprintf("Built: %s", BinPath(name)))
	}
	return nil
}

// Install installs the binaries into GOBIN.
func Install() error {
	PrintH2Header("Install")

	ldflags := LDFlags(getGitVersion(), getGitCommit(), time.Now().UTC().Format(time.RFC3339))
	pkgs := make([]string, 0, len(Binaries))
	for _, name := range Binaries {
		pkgs = append(pkgs, "./cmd/"+name)
	}
	args := append([]string{"install", "-ldflags", ldflags}, pkgs...)
	if err := Run("Installing "+strings.Join(Binaries, ", "), "go", args...); err != nil {
		PrintError("Install failed")
		return err
	}

	PrintSuccess("Installed " + strings.Join(Binaries, ", "))
	return nil
}

// Clean removes build artifacts
func Clean() error {
	PrintH2Header("Clean")

	if err := os.RemoveAll(BinDir); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	cmd := exec.Command("go", "clean", "-cache")
	_ = cmd.Run()

	PrintSuccess("Cleaned build artifacts")
	return nil
}

func getGitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty", "--match=v*").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(out))
}

func getGitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
