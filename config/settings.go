package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// tomlFile is one of the toml files docchat reads. A missing file is written
// from its template first, so users always have something to edit.
type tomlFile struct {
	name     string
	path     string
	template string
}

func systemConfigFile() tomlFile {
	return tomlFile{name: "system config", path: GetSettingsFilePath(), template: GenerateSystemConfigTemplate()}
}

func userConfigFile(dataDir string) tomlFile {
	return tomlFile{name: "user config", path: filepath.Join(dataDir, "config.toml"), template: GenerateUserConfigTemplate()}
}

func keybindingsFile(dataDir string) tomlFile {
	return tomlFile{name: "keybindings", path: filepath.Join(dataDir, "keybindings.toml"), template: GenerateKeybindingsTemplate()}
}

// load decodes the file into out, creating it from the template when missing.
// Keys that match no setting are rejected; a typo would otherwise leave the
// default silently in place.
func (f tomlFile) load(out any) error {
	if err := f.ensure(); err != nil {
		return err
	}

	meta, err := toml.DecodeFile(f.path, out)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", f.name, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("unknown keys in %s (%s): %s", f.name, f.path, strings.Join(keys, ", "))
	}
	return nil
}

func (f tomlFile) ensure() error {
	if FileExists(f.path) {
		return nil
	}
	if err := EnsureDir(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.name, err)
	}
	if err := os.WriteFile(f.path, []byte(f.template), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.name, err)
	}
	return nil
}

func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := systemConfigFile().load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	if err := userConfigFile(dataDir).load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
