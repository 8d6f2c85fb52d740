// Package store implements the Project Store (C1): a directory-per-project,
// human-readable record store rooted at a data directory. Each project's
// record is serialized as TOML at "<data>/projects/<slug>/project.toml".
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/config"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

// ErrProjectNotFound is returned when a record file does not exist for the
// requested slug.
var ErrProjectNotFound = errors.New("project not found")

// Store persists and enumerates project records on disk.
type Store struct {
	paths  config.Paths
	logger *slog.Logger
}

func New(paths config.Paths, logger *slog.Logger) *Store {
	return &Store{paths: paths, logger: logger}
}

// ListSlugs returns the sorted set of slugs whose directory contains a
// record file. The file's contents are not parsed here.
func (s *Store) ListSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.paths.ProjectsDir())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		recordPath := s.paths.ProjectRecordPath(entry.Name())
		if _, err := os.Stat(recordPath); err == nil {
			slugs = append(slugs, entry.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Load reads and decodes the record for slug. It fails with
// ErrProjectNotFound if the record file is absent.
func (s *Store) Load(slug string) (*models.ProjectRecord, error) {
	path := s.paths.ProjectRecordPath(slug)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrProjectNotFound
	}

	var record models.ProjectRecord
	if _, err := toml.DecodeFile(path, &record); err != nil {
		return nil, fmt.Errorf("decode project record %s: %w", slug, err)
	}
	return &record, nil
}

// LoadAll loads every record found by ListSlugs, skipping and logging any
// that fail to parse rather than aborting startup for one bad record.
func (s *Store) LoadAll() ([]*models.ProjectRecord, error) {
	slugs, err := s.ListSlugs()
	if err != nil {
		return nil, err
	}

	records := make([]*models.ProjectRecord, 0, len(slugs))
	for _, slug := range slugs {
		record, err := s.Load(slug)
		if err != nil {
			s.logger.Warn("failed to load project", "slug", slug, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Save creates the project's directory tree as needed and writes the
// record atomically: encode to a temporary sibling file, then rename over
// the canonical path.
func (s *Store) Save(record *models.ProjectRecord) error {
	dir := s.paths.ProjectDir(record.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create project dir %s: %w", record.Slug, err)
	}

	path := s.paths.ProjectRecordPath(record.Slug)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp record file: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(record); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode project record %s: %w", record.Slug, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp record file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp record file into place: %w", err)
	}
	return nil
}

// Delete recursively removes a project's entire on-disk directory (record,
// cloned repo, logs). It is idempotent: deleting an already-absent project
// is not an error.
func (s *Store) Delete(slug string) error {
	dir := s.paths.ProjectDir(slug)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove project dir %s: %w", slug, err)
	}
	return nil
}
