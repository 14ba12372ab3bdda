// Package templates ships the builtin plugin descriptors inside the binary.
package templates

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed builtin/*
var f embed.FS

var EmbedFileList []string

func init() {
	EmbedFileList, _ = EmbedFile()
}

// EmbedFile lists every descriptor file in the embedded set.
func EmbedFile() ([]string, error) {
	files := []string{}

	err := fs.WalkDir(f, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")) {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// ReadContent returns the raw YAML of one embedded descriptor.
func ReadContent(p string) ([]byte, error) {
	return f.ReadFile(p)
}

// CategoryAndName splits an embedded path builtin/<category>/<unit>.yaml into
// its registry coordinates, extension stripped.
func CategoryAndName(p string) (category string, name string) {
	rest := strings.TrimPrefix(p, "builtin/")
	category = path.Dir(rest)
	name = path.Base(rest)
	name = strings.TrimSuffix(name, path.Ext(name))
	return category, name
}
