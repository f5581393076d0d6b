package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Options controls how a table file is read.
type Options struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects the XLSX sheet; empty means the first sheet.
	SheetName string
}

// Loader reads one family of table formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader by file name and reads the whole table into memory.
// Every failure is returned as a *DataLoadError.
func Load(path string, opt Options) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, loadErr(path, err)
	}
	if info.IsDir() {
		return nil, loadErr(path, fmt.Errorf("is a directory"))
	}
	var l Loader = delimitedLoader{}
	for _, cand := range registry {
		if cand.CanLoad(path) {
			l = cand
			break
		}
	}
	t, err := l.Load(path, opt)
	if err != nil {
		return nil, loadErr(path, err)
	}
	if len(t.Columns) == 0 || t.Len() == 0 {
		return nil, loadErr(path, ErrEmpty)
	}
	if t.Name == "" {
		t.Name = filepath.Base(path)
	}
	log.Debug().Str("file", t.Name).Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("dataset loaded")
	return t, nil
}

func init() {
	Register(delimitedLoader{})
	Register(xlsxLoader{})
}
