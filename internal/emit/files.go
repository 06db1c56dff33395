package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
)

// SupportFile holds package-level helpers shared by generated files.
const SupportFile = "collectiongen_support.go"

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// GeneratedFile is a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file, e.g. "movies_comments_collection.go".
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

type fileData struct {
	Package   string
	Imports   []string
	Fragments []Fragment
}

var fileTemplate = template.Must(template.New("file").Parse(
	`// Code generated by collection-generator. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	"{{.}}"
{{end}})
{{end}}
{{range .Fragments}}{{.Code}}
{{end}}`))

// Assemble groups fragments into files, keeping the order in which files
// and fragments first appear. Every file is gofmt-ed; when formatting fails
// the unformatted source is written next to outputDir (if set) for
// inspection and an error is returned.
func Assemble(fragments []Fragment, target Target, outputDir string) ([]GeneratedFile, error) {
	var order []string

	byFile := make(map[string][]Fragment)

	for _, f := range fragments {
		if _, seen := byFile[f.File]; !seen {
			order = append(order, f.File)
		}

		byFile[f.File] = append(byFile[f.File], f)
	}

	files := make([]GeneratedFile, 0, len(order))

	for _, name := range order {
		file, err := assembleFile(name, byFile[name], target, outputDir)
		if err != nil {
			return nil, err
		}

		files = append(files, file)
	}

	return files, nil
}

func assembleFile(name string, fragments []Fragment, target Target, outputDir string) (GeneratedFile, error) {
	var importPaths []string

	for _, f := range fragments {
		for _, p := range f.Imports {
			if !slices.Contains(importPaths, p) {
				importPaths = append(importPaths, p)
			}
		}
	}

	slices.Sort(importPaths)

	var buf bytes.Buffer

	err := fileTemplate.Execute(&buf, fileData{
		Package:   target.Package,
		Imports:   importPaths,
		Fragments: fragments,
	})
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("executing file template for %s: %w", name, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(outputDir, name, buf.Bytes())

		return GeneratedFile{}, fmt.Errorf("formatting %s: %w", name, err)
	}

	return GeneratedFile{Filename: name, Content: formatted}, nil
}

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. It is best-effort.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}
