package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bismuthsalamander/tracks/trackgo"
)

// puzzleLibrary lazily loads puzzle files from a directory, keyed by file
// name. Parsed puzzles are cached until the directory changes.
type puzzleLibrary struct {
	dir    string
	loaded map[string]*trackgo.Puzzle
}

func newPuzzleLibrary(dir string) *puzzleLibrary {
	return &puzzleLibrary{dir: dir, loaded: make(map[string]*trackgo.Puzzle)}
}

// SetDir points the library somewhere else and drops the cache.
func (pl *puzzleLibrary) SetDir(dir string) {
	pl.dir = dir
	pl.loaded = make(map[string]*trackgo.Puzzle)
}

func (pl *puzzleLibrary) Dir() string {
	return pl.dir
}

// Names lists the loadable puzzle files in the library directory.
func (pl *puzzleLibrary) Names() ([]string, error) {
	entries, err := os.ReadDir(pl.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load fetches a puzzle by file name, reading it on first use.
func (pl *puzzleLibrary) Load(name string) (*trackgo.Puzzle, error) {
	if p, ok := pl.loaded[name]; ok {
		return p, nil
	}
	p, err := trackgo.LoadPuzzleFile(filepath.Join(pl.dir, name))
	if err != nil {
		return nil, err
	}
	pl.loaded[name] = p
	return p, nil
}
