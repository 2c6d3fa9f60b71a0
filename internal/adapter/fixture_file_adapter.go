package adapter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

var (
	// ErrUnsupportedFixtureFormat is returned for files with an unknown extension.
	ErrUnsupportedFixtureFormat = errors.New("unsupported fixture format")
	// ErrInvalidFixture is returned when a fixture file is well formed but
	// its content breaks the fixture schema.
	ErrInvalidFixture = errors.New("invalid fixture")
)

// FixtureFileAdapter decodes fixture files into fixtures.
type FixtureFileAdapter interface {
	// Supports reports whether the file extension is a known fixture format.
	Supports(path m.Path) bool

	// Decode parses data read from file. Files without groups decode to no
	// fixtures.
	Decode(file m.File, data []byte) ([]m.Fixture, error)
}

// LocalFixtureFileAdapter decodes YAML and TOML fixture files.
type LocalFixtureFileAdapter struct{}

// NewLocalFixtureFileAdapter constructs a LocalFixtureFileAdapter.
func NewLocalFixtureFileAdapter() *LocalFixtureFileAdapter {
	return &LocalFixtureFileAdapter{}
}

type fixtureDocument struct {
	Groups []fixtureGroup `yaml:"groups" toml:"groups"`
}

type fixtureGroup struct {
	Name    string         `yaml:"name" toml:"name"`
	Expect  string         `yaml:"expect" toml:"expect"`
	Sources []fixtureEntry `yaml:"sources" toml:"sources"`
}

// fixtureEntry is either a bare source string or a table with options.
type fixtureEntry struct {
	Source     string `yaml:"source" toml:"source"`
	Skip       string `yaml:"skip" toml:"skip"`
	Limitation string `yaml:"limitation" toml:"limitation"`
}

func (e *fixtureEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Source = node.Value
		return nil
	}

	type plain fixtureEntry

	return node.Decode((*plain)(e))
}

func (e *fixtureEntry) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		e.Source = v
	case map[string]any:
		for key, dst := range map[string]*string{
			"source":     &e.Source,
			"skip":       &e.Skip,
			"limitation": &e.Limitation,
		} {
			raw, ok := v[key]
			if !ok {
				continue
			}

			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%w: %q must be a string", ErrInvalidFixture, key)
			}

			*dst = s
		}
	default:
		return fmt.Errorf("%w: source entry must be a string or a table, got %T", ErrInvalidFixture, data)
	}

	return nil
}

// Supports reports whether the file has a YAML or TOML extension.
func (a *LocalFixtureFileAdapter) Supports(path m.Path) bool {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".yaml", ".yml", ".toml":
		return true
	}

	return false
}

// Decode parses a fixture file and validates every group.
func (a *LocalFixtureFileAdapter) Decode(file m.File, data []byte) ([]m.Fixture, error) {
	var doc fixtureDocument

	switch strings.ToLower(filepath.Ext(string(file.FullPath))) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", file.ShortPath, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode toml %s: %w", file.ShortPath, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFixtureFormat, file.ShortPath)
	}

	owner := file

	var fixtures []m.Fixture

	names := make(map[string]bool, len(doc.Groups))

	for gi, group := range doc.Groups {
		if strings.TrimSpace(group.Name) == "" {
			return nil, fmt.Errorf("%w: %s: group %d has no name", ErrInvalidFixture, file.ShortPath, gi)
		}

		if names[group.Name] {
			return nil, fmt.Errorf("%w: %s: duplicate group %q", ErrInvalidFixture, file.ShortPath, group.Name)
		}

		names[group.Name] = true

		expect := m.Expectation(group.Expect)
		if !expect.Valid() {
			return nil, fmt.Errorf("%w: %s: group %q expects %q (want %q or %q)",
				ErrInvalidFixture, file.ShortPath, group.Name, group.Expect, m.ExpectArrow, m.ExpectNonArrow)
		}

		for i, entry := range group.Sources {
			if strings.TrimSpace(entry.Source) == "" {
				return nil, fmt.Errorf("%w: %s: group %q source %d is empty", ErrInvalidFixture, file.ShortPath, group.Name, i)
			}

			fixtures = append(fixtures, m.Fixture{
				ID:         m.FixtureID(file.ShortPath, group.Name, i),
				File:       &owner,
				Group:      group.Name,
				Index:      i,
				Source:     entry.Source,
				Expect:     expect,
				Skip:       entry.Skip,
				Limitation: entry.Limitation,
			})
		}
	}

	return fixtures, nil
}
