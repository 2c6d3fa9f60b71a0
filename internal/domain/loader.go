package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"arrowcheck.dev/pkg/arrowcheck/internal/adapter"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

const recursiveSuffix = "..."

// FixtureLoader discovers fixture files and decodes their fixtures.
type FixtureLoader interface {
	Load(ctx context.Context, paths []m.Path, exclude ...string) ([]m.FixtureFile, error)
}

type fixtureLoader struct {
	adapter.SourceFSAdapter
	adapter.FixtureFileAdapter
}

// NewFixtureLoader builds a FixtureLoader on top of the filesystem and
// fixture decoding adapters.
func NewFixtureLoader(fsAdapter adapter.SourceFSAdapter, fixtureAdapter adapter.FixtureFileAdapter) FixtureLoader {
	return &fixtureLoader{
		SourceFSAdapter:    fsAdapter,
		FixtureFileAdapter: fixtureAdapter,
	}
}

// Load resolves path patterns (`dir`, `dir/...`, or a single file) and
// returns the decoded fixture files sorted by path. No paths means `./...`.
// Files matching an exclude regex and files without fixtures are dropped.
func (l *fixtureLoader) Load(ctx context.Context, paths []m.Path, exclude ...string) ([]m.FixtureFile, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"./" + recursiveSuffix}
	}

	cwd, err := l.Abs(".")
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[m.Path]bool)

	var files []m.FixtureFile

	for _, pattern := range paths {
		candidates, err := l.candidates(pattern)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			abs, err := l.Abs(candidate)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", candidate, err)
			}

			if seen[abs] {
				continue
			}

			seen[abs] = true

			short := l.shortPath(cwd, abs)
			if isExcluded(short, excludes) {
				slog.Debug("excluded fixture file", "path", short)
				continue
			}

			file, err := l.loadFile(abs, short)
			if err != nil {
				return nil, err
			}

			if len(file.Fixtures) == 0 {
				slog.Debug("skipping file without fixtures", "path", short)
				continue
			}

			files = append(files, file)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].File.ShortPath < files[j].File.ShortPath
	})

	slog.Info("loaded fixture files", "files", len(files))

	return files, nil
}

func (l *fixtureLoader) candidates(pattern m.Path) ([]m.Path, error) {
	root, recursive := splitPattern(pattern)

	info, err := l.FileInfo(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		if !l.Supports(root) {
			return nil, fmt.Errorf("%w: %s", adapter.ErrUnsupportedFixtureFormat, root)
		}

		return []m.Path{root}, nil
	}

	var candidates []m.Path

	err = l.Walk(root, recursive, func(path m.Path) error {
		if l.Supports(path) {
			candidates = append(candidates, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return candidates, nil
}

func (l *fixtureLoader) loadFile(abs, short m.Path) (m.FixtureFile, error) {
	data, err := l.ReadFile(abs)
	if err != nil {
		return m.FixtureFile{}, fmt.Errorf("read %s: %w", short, err)
	}

	hash, err := l.HashFile(abs)
	if err != nil {
		return m.FixtureFile{}, fmt.Errorf("hash %s: %w", short, err)
	}

	file := m.File{FullPath: abs, ShortPath: short, Hash: hash}

	fixtures, err := l.Decode(file, data)
	if err != nil {
		return m.FixtureFile{}, err
	}

	return m.FixtureFile{File: file, Fixtures: fixtures}, nil
}

func (l *fixtureLoader) shortPath(cwd, abs m.Path) m.Path {
	rel, err := l.RelPath(cwd, abs)
	if err != nil || strings.HasPrefix(string(rel), "..") {
		return m.Path(filepath.ToSlash(string(abs)))
	}

	return m.Path(filepath.ToSlash(string(rel)))
}

// splitPattern turns `dir/...` into (dir, true) and anything else into
// (path, false).
func splitPattern(pattern m.Path) (m.Path, bool) {
	p := filepath.ToSlash(string(pattern))

	if p == recursiveSuffix {
		return ".", true
	}

	if !strings.HasSuffix(p, "/"+recursiveSuffix) {
		return pattern, false
	}

	root := strings.TrimSuffix(p, "/"+recursiveSuffix)
	if root == "" {
		root = "/"
	}

	return m.Path(filepath.FromSlash(root)), true
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func isExcluded(path m.Path, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(string(path)) {
			return true
		}
	}

	return false
}
