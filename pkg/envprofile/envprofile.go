package envprofile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/magiconair/properties"

	"github.com/webappsteps/stepsub/pkg/logging"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

// DefaultProfile is always loaded first when its directory exists.
const DefaultProfile = "default"

// DefaultDir is the directory holding one sub-directory per profile.
const DefaultDir = "env"

// Common errors for profile loading.
var (
	ErrProfileNotFound = errors.New("environment profile not found")
	ErrParseProfile    = errors.New("invalid properties file")
)

type loader struct {
	dir        string
	profiles   []string
	processEnv bool
	environ    []string
	logger     *slog.Logger
}

// Option configures Load.
type Option func(*loader)

// WithDir sets the profile root directory. Defaults to "env".
func WithDir(dir string) Option {
	return func(l *loader) {
		if dir != "" {
			l.dir = dir
		}
	}
}

// WithProfiles selects the profiles layered on top of the default profile,
// lowest precedence first.
func WithProfiles(profiles ...string) Option {
	return func(l *loader) { l.profiles = profiles }
}

// WithProcessEnv controls whether the process environment is layered on top
// of the profile files. Enabled by default.
func WithProcessEnv(enabled bool) Option {
	return func(l *loader) { l.processEnv = enabled }
}

// WithEnviron replaces os.Environ as the process environment. Entries are
// KEY=VALUE strings.
func WithEnviron(environ []string) Option {
	return func(l *loader) { l.environ = environ }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load builds the environment layer. The default profile is read first,
// then each requested profile in order, then the process environment.
// Later sources override earlier ones.
func Load(opts ...Option) (substitute.Vars, error) {
	l := &loader{
		dir:        DefaultDir,
		processEnv: true,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	vars := substitute.Vars{}

	for _, profile := range l.order() {
		files, err := l.profileFiles(profile)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if err := loadProperties(file, vars); err != nil {
				return nil, err
			}
		}
		l.logger.Debug("loaded environment profile",
			slog.String("profile", profile),
			slog.Int("files", len(files)))
	}

	if l.processEnv {
		environ := l.environ
		if environ == nil {
			environ = os.Environ()
		}
		for _, kv := range environ {
			if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
				vars[key] = value
			}
		}
	}

	return vars, nil
}

// order returns the profiles to read: default first, then each requested
// profile once.
func (l *loader) order() []string {
	order := []string{DefaultProfile}
	for _, p := range l.profiles {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(order, p) {
			continue
		}
		order = append(order, p)
	}
	return order
}

// profileFiles lists the .properties files below a profile directory in
// lexical order. A missing default profile yields no files.
func (l *loader) profileFiles(profile string) ([]string, error) {
	root := filepath.Join(l.dir, profile)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		if profile == DefaultProfile {
			l.logger.Debug("no default environment profile", slog.String("dir", root))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s (looked in %s)", ErrProfileNotFound, profile, root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*.properties", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	slices.Sort(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return files, nil
}

// loadProperties merges one file into vars. Property expansion is off so
// ${...} references reach the substitution engine untouched.
func loadProperties(path string, vars substitute.Vars) error {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	p, err := loader.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrParseProfile, path, err)
	}

	for _, key := range p.Keys() {
		if value, ok := p.Get(key); ok {
			vars[key] = value
		}
	}
	return nil
}
