package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/nate2211/github-analytics/internal/errors"
)

const (
	appDirName     = ".github-analytics"
	configFileName = "config.json"

	// DefaultPresetName is synthesized whenever a document would otherwise
	// have no presets.
	DefaultPresetName = "Default"
)

// Document is the persisted application state. Presets are named repo lists;
// exactly one is active at all times and Repos mirrors the active preset for
// consumers that only want "the current list".
type Document struct {
	Token         string              `json:"token"`
	RememberToken bool                `json:"remember_token"`
	Presets       map[string][]string `json:"presets"`
	ActivePreset  string              `json:"active_preset"`
	Repos         []string            `json:"repos"`
}

// AppDir returns the per-user application directory, creating it when
// missing.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads a document from path. A missing or unreadable file yields a
// fresh document rather than an error; the config is best-effort state, not
// a hard dependency.
func Load(path string) *Document {
	doc := &Document{}
	data, err := os.ReadFile(path)
	if err == nil {
		// a corrupt file is treated the same as a missing one
		_ = json.Unmarshal(data, doc)
	}
	doc.Normalize()
	return doc
}

// Normalize repairs the document invariants in place: at least one preset
// exists, ActivePreset names an existing preset, and Repos mirrors it.
func (d *Document) Normalize() {
	presets := map[string][]string{}
	for name, repos := range d.Presets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		presets[name] = cleanRepos(repos)
	}

	if len(presets) == 0 {
		// migrate a legacy flat repo list into the default preset
		presets[DefaultPresetName] = cleanRepos(d.Repos)
	}
	d.Presets = presets

	if _, ok := d.Presets[d.ActivePreset]; !ok {
		if _, ok := d.Presets[DefaultPresetName]; ok {
			d.ActivePreset = DefaultPresetName
		} else {
			d.ActivePreset = sortedNames(d.Presets)[0]
		}
	}
	d.Repos = d.Presets[d.ActivePreset]
}

// Save normalizes and writes the document. The token is persisted only when
// RememberToken is set; otherwise it is cleared before writing.
func (d *Document) Save(path string) error {
	d.Normalize()
	if !d.RememberToken {
		d.Token = ""
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// SetPreset creates or replaces a preset and makes it active.
func (d *Document) SetPreset(name string, repos []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewBadRequestError("preset name must not be empty")
	}
	repos = cleanRepos(repos)
	if len(repos) == 0 {
		return apperrors.NewBadRequestError("preset must contain at least one repository")
	}
	if d.Presets == nil {
		d.Presets = map[string][]string{}
	}
	d.Presets[name] = repos
	d.ActivePreset = name
	d.Repos = repos
	return nil
}

// RenamePreset moves a preset to a new name, following the active marker.
func (d *Document) RenamePreset(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.NewBadRequestError("preset name must not be empty")
	}
	repos, ok := d.Presets[oldName]
	if !ok {
		return apperrors.NewNotFoundError("preset " + oldName)
	}
	if newName == oldName {
		return nil
	}
	if _, exists := d.Presets[newName]; exists {
		return apperrors.NewBadRequestError("preset already exists: " + newName)
	}
	delete(d.Presets, oldName)
	d.Presets[newName] = repos
	if d.ActivePreset == oldName {
		d.ActivePreset = newName
	}
	return nil
}

// DeletePreset removes a preset. The last preset cannot be deleted; deleting
// the active preset promotes the first remaining name in sorted order.
func (d *Document) DeletePreset(name string) error {
	if _, ok := d.Presets[name]; !ok {
		return apperrors.NewNotFoundError("preset " + name)
	}
	if len(d.Presets) == 1 {
		return apperrors.NewBadRequestError("at least one preset must remain")
	}
	delete(d.Presets, name)
	if d.ActivePreset == name {
		d.ActivePreset = sortedNames(d.Presets)[0]
	}
	d.Repos = d.Presets[d.ActivePreset]
	return nil
}

// ApplyPreset makes an existing preset active.
func (d *Document) ApplyPreset(name string) error {
	repos, ok := d.Presets[name]
	if !ok {
		return apperrors.NewNotFoundError("preset " + name)
	}
	d.ActivePreset = name
	d.Repos = repos
	return nil
}

// ActiveRepos returns the repo list of the active preset.
func (d *Document) ActiveRepos() []string {
	return d.Presets[d.ActivePreset]
}

func cleanRepos(repos []string) []string {
	out := []string{}
	for _, r := range repos {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func sortedNames(presets map[string][]string) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
