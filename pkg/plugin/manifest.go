package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMain is the file loaded when a plugin directory has no manifest.
const DefaultMain = "main.lua"

// ManifestFiles lists the manifest names looked up in a plugin directory, in order.
var ManifestFiles = []string{"plugin.yaml", "plugin.yml", "plugin.json"}

// Manifest describes a multi-file plugin project.
type Manifest struct {
	Name        string `yaml:"name" json:"name"`
	Main        string `yaml:"main" json:"main"`
	Description string `yaml:"description" json:"description"`
}

// LoadManifest reads the first manifest found in dir.
// It returns nil without error when the directory has none.
func LoadManifest(dir string) (*Manifest, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}

		var m Manifest
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", name, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &m); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", name, err)
			}
		}
		return &m, nil
	}
	return nil, nil
}
