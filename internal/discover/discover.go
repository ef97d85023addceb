// Package discover lists the media files a batch run will process.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Kind tells whether an input needs its audio track extracted first.
type Kind int

const (
	// KindAudio files are decoded directly.
	KindAudio Kind = iota
	// KindVideo files go through audio extraction before decoding.
	KindVideo
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// InputFile is one discovered media file.
type InputFile struct {
	Path string
	Kind Kind
}

// Base returns the file name without directory and extension.
// Example: "in/lecture.01.mp4" -> "lecture.01"
func (f InputFile) Base() string {
	name := filepath.Base(f.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExtSet is a set of lower-cased file extensions with a leading dot.
type ExtSet map[string]struct{}

// NewExtSet normalizes extensions ("MP4", "mp4", ".mp4" -> ".mp4").
// Blank entries are ignored.
func NewExtSet(exts ...string) ExtSet {
	set := make(ExtSet, len(exts))
	for _, ext := range exts {
		if n := NormalizeExt(ext); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// NormalizeExt lower-cases ext and ensures a leading dot.
// Returns "" for blank input.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Has reports whether path's extension is in the set, case-insensitively.
func (s ExtSet) Has(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// List returns the extensions sorted, for messages and logs.
func (s ExtSet) List() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// String returns a sorted, comma-separated list.
func (s ExtSet) String() string {
	return strings.Join(s.List(), ", ")
}

// Files lists regular files directly inside dir whose extension is in video
// or audio. Video wins when an extension appears in both sets.
// The result follows the directory listing order (sorted by name).
// An empty result is not an error.
func Files(dir string, video, audio ExtSet) ([]InputFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputDir, dir, err)
	}

	var files []InputFile
	for _, entry := range entries {
		name := entry.Name()

		var kind Kind
		switch {
		case video.Has(name):
			kind = KindVideo
		case audio.Has(name):
			kind = KindAudio
		default:
			continue
		}

		path := filepath.Join(dir, name)
		if !isRegular(entry, path) {
			continue
		}
		files = append(files, InputFile{Path: path, Kind: kind})
	}
	return files, nil
}

// isRegular follows symlinks so a link to a regular file is accepted.
func isRegular(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
