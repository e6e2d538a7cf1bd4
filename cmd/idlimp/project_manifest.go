package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"idlimp/internal/errors"
)

const manifestName = "idlimp.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Import importConfig `toml:"import"`
}

// importConfig holds defaults for the import command. Relative paths are
// resolved against the manifest's directory.
type importConfig struct {
	Rules          string   `toml:"rules"`
	Namespace      string   `toml:"namespace"`
	Usings         []string `toml:"usings"`
	References     []string `toml:"references"`
	Comments       []string `toml:"comments"`
	CreateComments *bool    `toml:"create_comments"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "failed to stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	m := &projectManifest{Path: path, Root: filepath.Dir(path), Config: cfg}
	m.resolvePaths()
	return m, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, errors.MarkData(errors.Wrapf(err, "%s: failed to parse TOML", path))
	}
	if !meta.IsDefined("import") {
		return projectConfig{}, errors.MarkData(errors.WithHint(
			errors.Newf("%s: missing [import]", path),
			"an empty [import] table is enough to mark the project root"))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, errors.MarkData(errors.Newf("%s: unknown key %s", path, undecoded[0]))
	}
	return cfg, nil
}

func (m *projectManifest) resolvePaths() {
	c := &m.Config.Import
	if c.Rules != "" {
		c.Rules = m.abs(c.Rules)
	}
	for i := range c.References {
		c.References[i] = m.abs(c.References[i])
	}
	for i := range c.Comments {
		c.Comments[i] = m.abs(c.Comments[i])
	}
}

func (m *projectManifest) abs(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
