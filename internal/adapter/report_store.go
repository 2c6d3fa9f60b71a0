package adapter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

const (
	reportExt     = ".yaml"
	indexFileName = "index.msgpack"
)

// ReportStore persists per-file reports and the cache index between runs.
type ReportStore interface {
	// NewRunID returns a fresh identifier for a run.
	NewRunID() string
	// SaveReports writes one report file per fixture file into dir.
	SaveReports(dir m.Path, reports []m.Report) error
	// LoadReports reads every report in dir, sorted by fixture file path.
	// A missing directory yields no reports.
	LoadReports(dir m.Path) ([]m.Report, error)
	// LoadIndex returns the fixture file hashes recorded by the last run.
	LoadIndex(dir m.Path) (CacheIndex, error)
	// SaveIndex replaces the cache index in dir.
	SaveIndex(dir m.Path, index CacheIndex) error
	// PruneReports removes reports and index entries for fixture files that
	// no longer exist and returns the fixture paths it dropped.
	PruneReports(dir m.Path) ([]m.Path, error)
}

// CacheIndex maps absolute fixture file paths to the content hash their
// stored report was produced from.
type CacheIndex map[m.Path]string

// Fresh reports whether file is unchanged since its report was written.
func (c CacheIndex) Fresh(file m.File) bool {
	hash, ok := c[file.FullPath]
	return ok && file.Hash != "" && hash == file.Hash
}

// LocalReportStore keeps reports as YAML files and the index as msgpack.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// NewRunID returns a random UUID.
func (s *LocalReportStore) NewRunID() string {
	return uuid.NewString()
}

// SaveReports writes reports named after the fixture file they describe, so a
// rerun of the same file replaces its previous report.
func (s *LocalReportStore) SaveReports(dir m.Path, reports []m.Report) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	for _, report := range reports {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode report for %s: %w", report.File.ShortPath, err)
		}

		path := filepath.Join(string(dir), ReportFileName(report.File.FullPath))
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write report %s: %w", path, err)
		}
	}

	return nil
}

// LoadReports reads every report file in dir.
func (s *LocalReportStore) LoadReports(dir m.Path) ([]m.Report, error) {
	entries, err := os.ReadDir(string(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var reports []m.Report

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), reportExt) {
			continue
		}

		path := filepath.Join(string(dir), entry.Name())

		// #nosec G304 - path is built from the reports directory listing
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", path, err)
		}

		var report m.Report
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", path, err)
		}

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].File.ShortPath < reports[j].File.ShortPath
	})

	return reports, nil
}

// LoadIndex reads the cache index. A missing index is an empty one.
func (s *LocalReportStore) LoadIndex(dir m.Path) (CacheIndex, error) {
	path := filepath.Join(string(dir), indexFileName)

	// #nosec G304 - path is inside the configured reports directory
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return CacheIndex{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read cache index: %w", err)
	}

	var raw map[string]string
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode cache index: %w", err)
	}

	index := make(CacheIndex, len(raw))
	for path, hash := range raw {
		index[m.Path(path)] = hash
	}

	return index, nil
}

// SaveIndex writes the cache index.
func (s *LocalReportStore) SaveIndex(dir m.Path, index CacheIndex) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	raw := make(map[string]string, len(index))
	for path, hash := range index {
		raw[string(path)] = hash
	}

	data, err := msgpack.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode cache index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(string(dir), indexFileName), data, 0o600); err != nil {
		return fmt.Errorf("write cache index: %w", err)
	}

	return nil
}

// PruneReports deletes the reports of fixture files that were removed from
// disk and drops those files from the cache index.
func (s *LocalReportStore) PruneReports(dir m.Path) ([]m.Path, error) {
	reports, err := s.LoadReports(dir)
	if err != nil {
		return nil, err
	}

	index, err := s.LoadIndex(dir)
	if err != nil {
		return nil, err
	}

	var pruned []m.Path

	for _, report := range reports {
		if exists(report.File.FullPath) {
			continue
		}

		path := filepath.Join(string(dir), ReportFileName(report.File.FullPath))
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pruned, fmt.Errorf("remove stale report %s: %w", path, err)
		}

		delete(index, report.File.FullPath)
		pruned = append(pruned, report.File.FullPath)
	}

	indexChanged := len(pruned) > 0

	for path := range index {
		if !exists(path) {
			delete(index, path)

			indexChanged = true
		}
	}

	if indexChanged {
		if err := s.SaveIndex(dir, index); err != nil {
			return pruned, err
		}
	}

	return pruned, nil
}

func exists(path m.Path) bool {
	_, err := os.Stat(string(path))
	return !errors.Is(err, fs.ErrNotExist)
}

// ReportFileName derives a stable report file name from a fixture file path.
func ReportFileName(fixturePath m.Path) string {
	sum := sha256.Sum256([]byte(fixturePath))
	return fmt.Sprintf("%x%s", sum[:8], reportExt)
}
