package run

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// PackageDST parses every .go file in dir, including test files, without type checking.
// Files that fail to parse are skipped.
func PackageDST(dir string) ([]*dst.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, entry.Name()))
	}

	if len(goFiles) == 0 {
		return nil, fmt.Errorf("%w: no .go files in %s", ErrNoPackage, dir)
	}

	dec := decorator.NewDecorator(token.NewFileSet())
	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		file, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: failed to parse any .go files in %s", ErrNoPackage, dir)
	}

	return files, nil
}
