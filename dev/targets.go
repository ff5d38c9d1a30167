//go:build targ

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Build builds the local casegen binary that Generate puts first on PATH.
func Build() error {
	fmt.Println("Building casegen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/casegen", "./casegen")
}

// Check fixes what can be fixed, then verifies coverage and lint.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(Tidy, ReorderDecls, CheckCoverage, Lint)
}

// CheckCoverage fails when any non-generated function is under the coverage threshold.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	const threshold = 80.0

	if err := targ.Deps(Test); err != nil {
		return err
	}

	report, err := output("go", "tool", "cover", "-func="+coverProfile)
	if err != nil {
		return err
	}

	lowest, lowestLine, err := lowestCoverage(report)
	if err != nil {
		return err
	}

	if lowest < threshold {
		return fmt.Errorf("%w: %.1f%% < %.1f%%: %s", errLowCoverage, lowest, threshold, lowestLine)
	}

	fmt.Printf("Lowest function coverage: %.1f%%\n", lowest)

	return nil
}

// CheckForFail runs every check without fixing anything, fastest first.
func CheckForFail() error {
	fmt.Println("Checking for failures...")

	return targ.Deps(ReorderDeclsCheck, LintForFail, GenerateCheck, TestForFail, CheckCoverage)
}

// Clean removes build and coverage output.
func Clean() {
	fmt.Println("Cleaning...")

	_ = os.Remove(coverProfile)
	_ = os.RemoveAll("bin")
}

// Fuzz fuzzes path splitting.
func Fuzz() error {
	fmt.Println("Fuzzing path segments...")
	return sh.Run("go", "test", "-run=^$", "-fuzz=FuzzSegments", "-fuzztime=30s", "./internal/core")
}

// Generate regenerates the UAT parameter lists with the local casegen.
func Generate() error {
	fmt.Println("Generating parameter lists...")
	return generate()
}

// GenerateCheck fails if any generated parameter list is out of date.
func GenerateCheck() error {
	fmt.Println("Checking generated parameter lists...")
	return generate("CASEGEN_CHECK=1")
}

// Lint lints the codebase, applying fixes.
func Lint() error {
	fmt.Println("Linting...")
	return lint()
}

// LintForFail lints without fixing and stops at the first issue per linter.
func LintForFail() error {
	fmt.Println("Linting for failures...")
	return lint("--fix=false", "--max-issues-per-linter=1", "--max-same-issues=1", "--allow-parallel-runners")
}

// Mutate runs the ooze mutation suite once the unit tests pass.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev", "-run=TestMutation")
}

// ReorderDecls rewrites hand-written files into go-reorder's section order.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")
	return reorderSources(true)
}

// ReorderDeclsCheck reports files out of section order with a diff, without writing.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")
	return reorderSources(false)
}

// Test runs the unit and UAT tests with the race detector and writes a coverage profile.
func Test() error {
	fmt.Println("Running tests...")

	// -count=1 so the coverage profile is always rewritten
	return goTest("-timeout=2m", "-race", "-count=1", "-coverprofile="+coverProfile,
		"-coverpkg=./internal/...,./match/...,./casegen/run/...")
}

// TestForFail runs the tests only for pass/fail, stopping at the first failure.
func TestForFail() error {
	fmt.Println("Running tests for failures...")
	return goTest("-timeout=30s", "-failfast")
}

// Tidy tidies go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

const coverProfile = "coverage.out"

// unexported variables.
var (
	errLowCoverage = errors.New("function coverage below threshold")
	errOutOfOrder  = errors.New("declarations out of order")
	percentPattern = regexp.MustCompile(`(\d+\.\d)%`)
)

// generate runs go generate with the locally-built casegen first on PATH.
func generate(extraEnv ...string) error {
	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Env = append(cmd.Env, extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// goTest regenerates, then runs go test over the whole module with flags.
func goTest(flags ...string) error {
	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run("go", append(append([]string{"test"}, flags...), "./...")...)
}

func isGeneratedFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 200)

	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return bytes.Contains(buf[:n], []byte("Code generated")), nil
}

func lint(flags ...string) error {
	return sh.Run("golangci-lint", append([]string{"run", "-c", "dev/golangci.toml"}, flags...)...)
}

// lowestCoverage finds the least-covered function in a `go tool cover -func` report.
// Generated files and the total line are skipped.
func lowestCoverage(report string) (float64, string, error) {
	lowest, lowestLine := 100.0, ""

	for line := range strings.SplitSeq(report, "\n") {
		if strings.Contains(line, "generated_") || strings.Contains(line, "total:") {
			continue
		}

		found := percentPattern.FindStringSubmatch(line)
		if found == nil {
			continue
		}

		percent, err := strconv.ParseFloat(found[1], 64)
		if err != nil {
			return 0, "", fmt.Errorf("bad coverage line %q: %w", line, err)
		}

		if percent < lowest {
			lowest, lowestLine = percent, line
		}
	}

	return lowest, lowestLine, nil
}

// output runs a command and captures stdout only.
func output(command string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := exec.Command(command, args...)
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

// reorderSources brings every hand-written file into section order. With fix unset it
// only prints the misplaced sections and a diff, and fails if any file would change.
func reorderSources(fix bool) error {
	files, err := sourceFiles()
	if err != nil {
		return err
	}

	changed := 0

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)
			continue
		}

		if reordered == string(content) {
			continue
		}

		changed++

		if fix {
			if err := os.WriteFile(path, []byte(reordered), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("  Reordered: %s\n", path)

			continue
		}

		reportOrder(path, string(content), reordered)
	}

	if fix {
		fmt.Printf("Reordered %d of %d file(s).\n", changed, len(files))

		return nil
	}

	if changed > 0 {
		return fmt.Errorf("%w: %d file(s); run 'targ reorder-decls' to fix", errOutOfOrder, changed)
	}

	fmt.Printf("All %d files are in order.\n", len(files))

	return nil
}

func reportOrder(path, content, reordered string) {
	fmt.Printf("\n%s:\n", path)

	if order, err := reorder.AnalyzeSectionOrder(content); err == nil {
		for i, section := range order.Sections {
			if section.Expected != i+1 {
				fmt.Printf("  %s is #%d, want #%d\n", section.Name, i+1, section.Expected)
			}
		}
	}

	fmt.Printf("\n%s\n", textdiff.Unified(path+" (current)", path+" (reordered)", content, reordered))
}

// sourceFiles lists the hand-written Go files, skipping generated files, vendor, hidden
// dirs, and underscore-prefixed dirs.
func sourceFiles() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("unable to walk %s: %w", path, err)
		}

		if entry.IsDir() {
			name := entry.Name()
			if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.Contains(path, "generated_") {
			return nil
		}

		generated, err := isGeneratedFile(path)
		if err != nil || generated {
			return err
		}

		files = append(files, path)

		return nil
	})

	return files, err
}
