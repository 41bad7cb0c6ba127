package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/botbridge/pkg/domain"
)

// Target is a resolved plugin location.
type Target struct {
	// Path is the absolute path of the source file to execute.
	Path string
	// Dir is the absolute directory sibling imports resolve against.
	Dir string
	// Manifest is set when the plugin was given as a directory with a manifest.
	Manifest *Manifest
}

// Name returns the manifest name, or the source file name without extension.
func (t Target) Name() string {
	if t.Manifest != nil && strings.TrimSpace(t.Manifest.Name) != "" {
		return t.Manifest.Name
	}
	base := filepath.Base(t.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Resolve turns a file or directory path into a Target.
// A directory resolves to its manifest's main file, or to DefaultMain.
// Every failure wraps domain.ErrLoad.
func Resolve(path string) (Target, error) {
	if strings.TrimSpace(path) == "" {
		return Target{}, fmt.Errorf("%w: empty plugin path", domain.ErrLoad)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, fmt.Errorf("%w: invalid path: %v", domain.ErrLoad, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}
	if !info.IsDir() {
		return Target{Path: abs, Dir: filepath.Dir(abs)}, nil
	}

	manifest, err := LoadManifest(abs)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}

	main := DefaultMain
	if manifest != nil && strings.TrimSpace(manifest.Main) != "" {
		main = manifest.Main
	}
	file := filepath.Join(abs, main)
	if rel, err := filepath.Rel(abs, file); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Target{}, fmt.Errorf("%w: main %q escapes plugin directory", domain.ErrLoad, main)
	}

	info, err = os.Stat(file)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}
	if info.IsDir() {
		return Target{}, fmt.Errorf("%w: main %q is a directory", domain.ErrLoad, main)
	}

	return Target{Path: file, Dir: abs, Manifest: manifest}, nil
}
