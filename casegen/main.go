// casegen is a tool to generate the parameter list for a casetest template.
// To use it, install it with `go install github.com/toejough/casetest/casegen@latest`
// and in your test files, add a `//go:generate casegen <func>` comment, where <func> is a function or a
// <Type>.<Method> in the current package. By default, the generated variable will be named <func>Params. Add a
// `--name <var>` flag to choose a different name, and `--check` to fail instead of writing when the file on disk is
// out of date. The variable is written to generated_<var>.go, in the same package as the `//go:generate` comment.
package main

import (
	"fmt"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/casetest/casegen/run"
)

// main is the entry point of the casegen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader by parsing the directory's files directly.
type realPackageLoader struct{}

// Load parses every .go file in dir, test files included.
func (pl *realPackageLoader) Load(dir string) ([]*dst.File, error) {
	files, err := run.PackageDST(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %q: %w", dir, err)
	}

	return files, nil
}
