package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"comicmeta/src/internal/stringsx"
)

// EnvAPIKey overrides the api_key setting when set.
const EnvAPIKey = "COMICVINE_API_KEY"

const (
	defaultBaseURL        = "https://comicvine.gamespot.com/api"
	defaultTimeoutSeconds = 30
)

// Prefs is the on-disk preference file.
type Prefs struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Default returns preferences with every optional field filled in.
func Default() Prefs {
	return Prefs{
		BaseURL:        defaultBaseURL,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Timeout returns the per-request timeout.
func (p Prefs) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p *Prefs) normalize() {
	p.APIKey = strings.TrimSpace(p.APIKey)
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.TimeoutSeconds == 0 {
		p.TimeoutSeconds = defaultTimeoutSeconds
	}
}

// Validate checks field values after normalization.
func (p Prefs) Validate() error {
	if p.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", p.TimeoutSeconds)
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", p.BaseURL)
	}
	return nil
}

// DefaultPath returns the preference file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "comicmeta", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "comicmeta", "config.toml"), nil
}

// Load parses the file at path. A missing file yields defaults and
// exists=false.
func Load(path string) (prefs Prefs, exists bool, err error) {
	prefs = Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prefs, false, nil
		}
		return Prefs{}, false, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Prefs{}, true, fmt.Errorf("parse config %s: %w", path, err)
	}
	prefs.normalize()
	if err := prefs.Validate(); err != nil {
		return Prefs{}, true, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return prefs, true, nil
}

// Save writes prefs to path, creating parent directories.
func Save(path string, prefs Prefs) error {
	prefs.normalize()
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// the file carries an API key
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Store holds the current preferences and reloads them when the file
// changes. It is safe for concurrent use.
type Store struct {
	path string

	mu      sync.RWMutex
	prefs   Prefs
	modTime time.Time
}

// Open loads the preference file at path, or DefaultPath when path is empty.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the preference file location.
func (s *Store) Path() string { return s.path }

// Reload re-reads the preference file.
func (s *Store) Reload() error {
	prefs, _, err := Load(s.path)
	if err != nil {
		return err
	}
	var mod time.Time
	if fi, err := os.Stat(s.path); err == nil {
		mod = fi.ModTime()
	}
	s.mu.Lock()
	s.prefs = prefs
	s.modTime = mod
	s.mu.Unlock()
	return nil
}

// Prefs returns the current preferences, reloading first if the file changed.
func (s *Store) Prefs() Prefs {
	s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// APIKey returns the effective API key: the environment override, else the
// file's key.
func (s *Store) APIKey() string {
	return stringsx.FirstNonEmpty(os.Getenv(EnvAPIKey), s.Prefs().APIKey)
}

// Configured reports whether an API key is available.
func (s *Store) Configured() bool { return s.APIKey() != "" }

// SetAPIKey stores key in the preference file.
func (s *Store) SetAPIKey(key string) error {
	prefs := s.Prefs()
	prefs.APIKey = key
	if err := Save(s.path, prefs); err != nil {
		return err
	}
	return s.Reload()
}

// refresh reloads when the file's modification time moved. A file that
// became unreadable or invalid keeps the last good preferences.
func (s *Store) refresh() {
	var mod time.Time
	if fi, err := os.Stat(s.path); err == nil {
		mod = fi.ModTime()
	}
	s.mu.RLock()
	same := mod.Equal(s.modTime)
	s.mu.RUnlock()
	if same {
		return
	}
	_ = s.Reload()
}
