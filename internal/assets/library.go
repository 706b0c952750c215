// Package assets lists the audio files available to a round.
package assets

import (
	"os"
	"path"
	"sort"
	"strings"
)

// Library enumerates playable files per category. A category may be
// empty; callers decide what that means for the round.
type Library interface {
	List(category string) ([]string, error)
	// URL builds the client-facing path for one file of a category.
	URL(category, file string) string
}

// DirLibrary reads categories as subdirectories of a root on disk,
// one .mp3 per track. Listing is sorted so order is stable across calls.
type DirLibrary struct {
	Root string
}

func NewDirLibrary(root string) *DirLibrary {
	return &DirLibrary{Root: root}
}

func (l *DirLibrary) List(category string) ([]string, error) {
	entries, err := os.ReadDir(path.Join(l.Root, category))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp3") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (l *DirLibrary) URL(category, file string) string {
	return "/audio/" + category + "/" + file
}
