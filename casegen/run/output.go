package run

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// paramsTemplate renders the parameter list in the grouped layout go-reorder produces. Whitespace is left to
// go/format.
var paramsTemplate = template.Must(template.New("params").Parse(`// Code generated by casegen. DO NOT EDIT.

package {{.Package}}

// {{.Section}} variables.
var (
	// {{.VarName}} lists the parameters of {{.Target}}, in order.
	{{.VarName}} = []string{ {{- range $i, $p := .Params}}{{if $i}}, {{end}}{{printf "%q" $p}}{{end -}} }
)
`))

// checkGeneratedCode compares code with what is on disk, printing a diff and returning ErrStale when they differ.
func checkGeneratedCode(code, filename string, fileSys FileSystem, out io.Writer) error {
	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == code {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (current)", filename+" (generated)", string(current), code))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// generateCode renders, formats, and reorders the generated file.
func generateCode(info generatorInfo, out io.Writer) (string, error) {
	var buf bytes.Buffer

	err := paramsTemplate.Execute(&buf, struct {
		Package, Section, Target, VarName string
		Params                            []string
	}{
		Package: info.pkgName,
		Section: section(info.varName),
		Target:  info.target,
		VarName: info.varName,
		Params:  info.params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", info.varName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", info.varName, err)
	}

	reordered, err := reorder.Source(string(formatted))
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", info.varName, err)

		return string(formatted), nil
	}

	return reordered, nil
}

// section names the go-reorder section a variable belongs in.
func section(varName string) string {
	if token.IsExported(varName) {
		return "Exported"
	}

	return "unexported"
}

// outputFilename is generated_<varName>.go, with _test when the package or the calling file is a test.
func outputFilename(varName, pkgName, goFile string) string {
	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") {
		return "generated_" + varName + "_test.go"
	}

	return "generated_" + varName + ".go"
}

// writeGeneratedCode writes code to filename.
func writeGeneratedCode(code, filename string, fileSys FileSystem, out io.Writer) error {
	const generatedFilePermissions = 0o600

	err := fileSys.WriteFile(filename, []byte(code), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}
