package profile

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// File is the persisted profile document.
type File struct {
	CurrentProfile string              `yaml:"currentProfile,omitempty"`
	CompatPolicy   string              `yaml:"compatPolicy,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles"`
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named profile or a NotFound error.
func (f *File) Get(name string) (*Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return nil, errdefs.NotFound("profile '%s' not found", name)
	}
	return p, nil
}

// Put adds or replaces a profile. The profile becomes current when no valid
// current profile exists yet, which covers the first profile ever written.
func (f *File) Put(p *Profile) {
	if f.Profiles == nil {
		f.Profiles = make(map[string]*Profile)
	}
	f.Profiles[p.Name] = p

	if _, ok := f.Profiles[f.CurrentProfile]; !ok {
		f.CurrentProfile = p.Name
	}
}

// SetCurrent marks an existing profile as current. Unknown names fail with
// NotFound and leave the current profile unchanged.
func (f *File) SetCurrent(name string) error {
	if _, err := f.Get(name); err != nil {
		return err
	}
	f.CurrentProfile = name
	return nil
}

// Current returns the current profile.
func (f *File) Current() (*Profile, error) {
	if len(f.Profiles) == 0 {
		return nil, errdefs.NotFound("no profiles configured - run 'cortex configure' first")
	}
	if f.CurrentProfile == "" {
		return nil, errdefs.NotFound("no current profile set - run 'cortex configure set-profile <name>'")
	}
	return f.Get(f.CurrentProfile)
}

// Resolve returns the profile named by override, or the current profile
// when override is empty.
func (f *File) Resolve(override string) (*Profile, error) {
	if override != "" {
		return f.Get(override)
	}
	return f.Current()
}

// Store reads and writes the profile file on an afero filesystem.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the profile file inside dir.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:   fs,
		path: filepath.Join(dir, config.ConfigFileName),
	}
}

// DefaultDir returns the config directory: $CORTEX_CONFIG_DIR when set,
// otherwise ~/.cortex.
func DefaultDir() (string, error) {
	if dir := os.Getenv(config.EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errdefs.Internal("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, config.ConfigDirName), nil
}

// Path returns the location of the profile file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the profile file. A missing file yields an empty document.
func (s *Store) Load() (*File, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, errdefs.Internal("failed to stat %s: %w", s.path, err)
	}
	if !exists {
		logging.Debug("Profile file %s does not exist yet", s.path)
		return &File{Profiles: make(map[string]*Profile)}, nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, errdefs.Internal("failed to read %s: %w", s.path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errdefs.Internal("failed to parse %s: %w", s.path, err)
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]*Profile)
	}
	for name, p := range f.Profiles {
		if p == nil {
			delete(f.Profiles, name)
			continue
		}
		p.Name = name
	}
	return &f, nil
}

// Save writes the profile file, creating the directory when needed.
// Concurrent writers are not coordinated; the last write wins.
func (s *Store) Save(f *File) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errdefs.Internal("failed to create %s: %w", filepath.Dir(s.path), err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return errdefs.Internal("failed to encode profiles: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return errdefs.Internal("failed to write %s: %w", s.path, err)
	}
	logging.Debug("Saved %d profiles to %s", len(f.Profiles), s.path)
	return nil
}
