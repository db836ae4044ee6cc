package storage

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/pstuifzand/myorganisms/internal/importer"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

// TaxonomyStore handles loading and saving the taxonomy document
type TaxonomyStore struct {
	FilePath string
	// RootPath optionally selects the tree inside a larger JSON file
	RootPath string
}

// NewTaxonomyStore creates a new store for the given file path
func NewTaxonomyStore(filePath, rootPath string) *TaxonomyStore {
	return &TaxonomyStore{
		FilePath: filePath,
		RootPath: rootPath,
	}
}

// Load reads the taxonomy from disk. The format is detected from the file
// extension, so indented text and YAML taxonomies load directly too.
func (s *TaxonomyStore) Load() (*taxonomy.Document, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}

	doc, err := importer.Import(data, s.FilePath, importer.Options{RootPath: s.RootPath})
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy %s: %w", s.FilePath, err)
	}
	return doc, nil
}

// Save writes the document as JSON
func (s *TaxonomyStore) Save(doc *taxonomy.Document) error {
	if doc == nil || doc.Tree == nil {
		return taxonomy.ErrEmptyTaxonomy
	}

	// Ensure directory exists
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FileExists checks if the taxonomy file exists
func (s *TaxonomyStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}
