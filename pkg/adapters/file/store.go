// Package file stores curve documents as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/sinew/pkg/curves"
	"github.com/aretw0/sinew/pkg/domain"
)

// Store implements ports.CurveStore using the local filesystem.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".sinew/curves".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".sinew", "curves")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("document name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(s.BasePath, name+".json"), nil
}

// Save writes the document atomically.
func (s *Store) Save(ctx context.Context, name string, doc domain.CurveDocument) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return curves.WriteFile(p, doc)
}

// Load reads a document back.
func (s *Store) Load(ctx context.Context, name string) (domain.CurveDocument, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	doc, err := curves.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, err
}

// Delete removes the document file.
func (s *Store) Delete(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// List returns stored document names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}
