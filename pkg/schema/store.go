package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
	yaml "gopkg.in/yaml.v3"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
)

// Store reads and writes schemas in a directory, one file per table. Loaded
// schemas are cached; a Store is safe for concurrent use.
type Store struct {
	dir      string
	expected int
	cache    *xsync.Map[bdat.Label, *Schema]
}

// Option configures a Store.
type Option func(*Store)

// WithExpectedVersion overrides the schema version the store accepts.
func WithExpectedVersion(v int) Option {
	return func(s *Store) { s.expected = v }
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      dir,
		expected: CurrentVersion,
		cache:    xsync.NewMap[bdat.Label, *Schema](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a table's schema is stored in.
func (s *Store) Path(table bdat.Label) string {
	return filepath.Join(s.dir, fileName(table))
}

// Load returns the schema for table. It fails with bdaterr.ErrMissingSchema
// when the table is anonymous or has no schema file, and with
// *bdaterr.OutdatedSchemaError when the file's version is not the expected
// one. A file whose table field names another table is rejected. Concurrent
// loads of one table read the file once. Returned schemas are shared and must
// not be modified.
func (s *Store) Load(table bdat.OptLabel) (*Schema, error) {
	label, ok := table.Get()
	if !ok {
		return nil, bdaterr.ErrMissingSchema
	}

	var readErr error
	sch, _ := s.cache.LoadOrCompute(label, func() (*Schema, bool) {
		sch, err := s.read(label)
		if err != nil {
			// Failures are not cached.
			readErr = err
			return nil, true
		}
		return sch, false
	})
	if readErr != nil {
		return nil, readErr
	}
	return sch, nil
}

// read decodes and checks the schema file of label.
func (s *Store) read(label bdat.Label) (*Schema, error) {
	path := s.Path(label)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("schema file not found", "table", label, "path", path)
		return nil, bdaterr.ErrMissingSchema
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}

	var sch Schema
	if err := yaml.Unmarshal(data, &sch); err != nil {
		return nil, fmt.Errorf("decoding schema %s: %w", path, err)
	}
	if sch.Version != s.expected {
		return nil, &bdaterr.OutdatedSchemaError{Table: string(label), Found: sch.Version, Expected: s.expected}
	}
	if err := sch.validate(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	switch sch.Table {
	case "":
		sch.Table = label
	case label:
	default:
		return nil, fmt.Errorf("schema %s describes table %s, not %s", path, sch.Table, label)
	}

	slog.Debug("loaded schema", "table", label, "columns", len(sch.Columns), "path", path)
	return &sch, nil
}

// Save writes sch to the store, stamping it with the store's version.
func (s *Store) Save(sch *Schema) error {
	if sch.Table == "" {
		return &bdaterr.MissingArgumentError{Name: "table name"}
	}
	if err := sch.validate(); err != nil {
		return fmt.Errorf("schema for %s: %w", sch.Table, err)
	}
	out := *sch
	out.Version = s.expected
	out.Columns = append([]bdat.Column(nil), sch.Columns...)
	if sch.BaseID != nil {
		base := *sch.BaseID
		out.BaseID = &base
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encoding schema for %s: %w", sch.Table, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding schema for %s: %w", sch.Table, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating schema directory: %w", err)
	}
	path := s.Path(sch.Table)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing schema %s: %w", path, err)
	}
	s.cache.Store(sch.Table, &out)
	slog.Debug("saved schema", "table", sch.Table, "path", path)
	return nil
}

// Forget drops every cached schema so the next Load reads from disk again.
func (s *Store) Forget() {
	s.cache.Clear()
}

// fileName maps a table label to a file name, replacing anything that would
// escape the schema directory.
func fileName(table bdat.Label) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, string(table))
	if name == "." || name == ".." {
		name = strings.ReplaceAll(name, ".", "_")
	}
	return name + Extension
}
