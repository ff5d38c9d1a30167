// Package run implements the main logic for the casegen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
)

// Exported variables.
var (
	ErrFuncNotFound = errors.New("function not found")
	ErrNoPackage    = errors.New("no package found")
	ErrStale        = errors.New("generated file is out of date")
	ErrUnnamedParam = errors.New("parameter has no usable name")
)

// FileSystem is what Run needs from the disk.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader loads the syntax of the package in a directory.
type PackageLoader interface {
	Load(dir string) ([]*dst.File, error)
}

// Run executes the casegen tool logic. It parses args, finds the named function or method in the package in the
// current directory, and writes a file declaring its parameter names in order. With --check, it compares instead of
// writing, printing a diff and returning ErrStale when the file on disk differs. CASEGEN_CHECK=1 in the environment
// does the same for every directive in a `go generate` run.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	files, err := pkgLoader.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load package: %w", err)
	}

	typeName, funcName := splitTarget(parsed.Func)

	decl, file, err := findFunc(files, typeName, funcName)
	if err != nil {
		return err
	}

	params, err := paramNames(decl)
	if err != nil {
		return fmt.Errorf("%s: %w", parsed.Func, err)
	}

	info := generatorInfo{
		pkgName: getEnv("GOPACKAGE"),
		target:  parsed.Func,
		varName: parsed.Name,
		params:  params,
	}

	if info.pkgName == "" {
		info.pkgName = file.Name.Name
	}

	if info.varName == "" {
		info.varName = defaultVarName(typeName, funcName)
	}

	code, err := generateCode(info, out)
	if err != nil {
		return err
	}

	filename := outputFilename(info.varName, info.pkgName, getEnv("GOFILE"))

	if parsed.Check || getEnv("CASEGEN_CHECK") == "1" {
		return checkGeneratedCode(code, filename, fileSys, out)
	}

	return writeGeneratedCode(code, filename, fileSys, out)
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Func  string `arg:"positional,required" help:"function to read parameters from (e.g. MyFunc or MyType.MyMethod)"`
	Name  string `arg:"--name"              help:"name for the generated variable (defaults to <func>Params)"`
	Check bool   `arg:"--check"             help:"fail if the generated file is missing or out of date, without writing"`
}

// generatorInfo holds information gathered for generation.
type generatorInfo struct {
	pkgName, target, varName string
	params                   []string
}

// defaultVarName is <func>Params, or <Type><Method>Params for methods, with the first rune lowered.
func defaultVarName(typeName, funcName string) string {
	name := typeName + funcName + "Params"

	first, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToLower(first)) + name[size:]
}

// findFunc finds the declaration of funcName, as a method of typeName when typeName is set.
func findFunc(files []*dst.File, typeName, funcName string) (*dst.FuncDecl, *dst.File, error) {
	for _, file := range files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*dst.FuncDecl)
			if !ok || funcDecl.Name.Name != funcName {
				continue
			}

			if receiverTypeName(funcDecl.Recv) == typeName {
				return funcDecl, file, nil
			}
		}
	}

	if typeName != "" {
		return nil, nil, fmt.Errorf("%w: method %s.%s", ErrFuncNotFound, typeName, funcName)
	}

	return nil, nil, fmt.Errorf("%w: %s", ErrFuncNotFound, funcName)
}

// paramNames returns the declared parameter names, in order.
func paramNames(decl *dst.FuncDecl) ([]string, error) {
	names := []string{}

	if decl.Type.Params == nil {
		return names, nil
	}

	for index, field := range decl.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, fmt.Errorf("%w: parameter %d is unnamed", ErrUnnamedParam, index)
		}

		for _, ident := range field.Names {
			if ident.Name == "_" {
				return nil, fmt.Errorf("%w: parameter %d is %q", ErrUnnamedParam, len(names), ident.Name)
			}

			names = append(names, ident.Name)
		}
	}

	return names, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "casegen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// receiverTypeName returns the base type name of a method receiver, or "" for plain functions.
func receiverTypeName(recv *dst.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}

	expr := recv.List[0].Type

	for {
		switch typed := expr.(type) {
		case *dst.StarExpr:
			expr = typed.X
		case *dst.IndexExpr:
			expr = typed.X
		case *dst.IndexListExpr:
			expr = typed.X
		case *dst.Ident:
			return typed.Name
		default:
			return ""
		}
	}
}

// splitTarget splits "Type.Method" into its parts. A plain function has no type.
func splitTarget(target string) (typeName, funcName string) {
	typeName, funcName, found := strings.Cut(target, ".")
	if !found {
		return "", target
	}

	return typeName, funcName
}
