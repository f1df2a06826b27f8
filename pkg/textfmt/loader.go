package textfmt

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
)

// supportedExtensions are the file extensions read as table documents.
var supportedExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// LoaderOptions configures document loading.
type LoaderOptions struct {
	// Paths are files or directories to load. Directories contribute every
	// supported file directly inside them, except names starting with "_".
	Paths []string
}

// ReadFile reads one document. A document without a name takes the file name
// without its extension.
func ReadFile(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, &bdaterr.UnknownFileTypeError{Type: ext}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	if doc.Name == nil {
		name := bdat.Label(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		doc.Name = &name
	}
	return doc, nil
}

// LoadDocuments loads every document named by opts. All read errors are
// collected and reported together. Documents come back sorted by source path.
func LoadDocuments(ctx context.Context, opts LoaderOptions) ([]*Document, error) {
	if len(opts.Paths) == 0 {
		return nil, &bdaterr.MissingArgumentError{Name: "input path"}
	}

	files, err := expandPaths(opts.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no table files found in: %v", opts.Paths)
	}

	var docs []*Document
	var errorMessages []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ReadFile(path)
		if err != nil {
			errorMessages = append(errorMessages, err.Error())
			continue
		}
		docs = append(docs, doc)
	}

	if len(errorMessages) > 0 {
		return nil, fmt.Errorf("table errors:\n%s", strings.Join(errorMessages, "\n"))
	}

	if err := checkDuplicateNames(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// expandPaths resolves directories to the supported files inside them and
// removes duplicate paths.
func expandPaths(paths []string) ([]string, error) {
	seen := make(map[string]string)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		if _, ok := seen[abs]; !ok {
			seen[abs] = path
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), "_") {
				continue
			}
			if supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				add(filepath.Join(p, e.Name()))
			}
		}
	}
	return slices.Sorted(maps.Values(seen)), nil
}

// checkDuplicateNames rejects two files describing the same table, which
// would otherwise overwrite each other's output.
func checkDuplicateNames(docs []*Document) error {
	bySource := make(map[bdat.Label]string, len(docs))
	for _, d := range docs {
		if d.Name == nil {
			continue
		}
		if prev, ok := bySource[*d.Name]; ok {
			return fmt.Errorf("table %s is defined in both %s and %s", *d.Name, prev, d.Source)
		}
		bySource[*d.Name] = d.Source
	}
	return nil
}
