package pulssi

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed presets/*.yml
var presetFS embed.FS

// Preset is a named settings snapshot, either shipped with the program or
// dropped by the user into the config directory as a yaml file.
type Preset struct {
	Name     string
	User     bool
	Settings Settings
}

// LoadPresets returns the built-in presets merged with user presets found
// under <UserConfigDir>/pulssi/presets, sorted by name. Preset files start
// from the default settings, so they only need to list the fields they
// change; files that fail strict parsing are skipped.
func LoadPresets() []Preset {
	var ret []Preset
	ret = appendPresetsFromFs(ret, presetFS, false)
	if configDir, err := os.UserConfigDir(); err == nil {
		userDir := filepath.Join(configDir, "pulssi")
		ret = appendPresetsFromFs(ret, os.DirFS(userDir), true)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// FindPreset returns the preset with the given name, if any.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func appendPresetsFromFs(ret []Preset, fsys fs.FS, userDefined bool) []Preset {
	fs.WalkDir(fsys, "presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		settings := DefaultSettings()
		if yaml.UnmarshalStrict(data, &settings) == nil {
			noExt := path[:len(path)-len(filepath.Ext(path))]
			name := strings.ReplaceAll(filepath.Base(noExt), "_", " ")
			ret = append(ret, Preset{Name: name, User: userDefined, Settings: settings.Clamp()})
		}
		return nil
	})
	return ret
}
