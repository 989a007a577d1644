package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"catalog-service/models"

	"github.com/google/uuid"
)

// FileProductRepository persists the catalog as one JSON document holding an
// array of records. Every mutation is a read-modify-write of the whole file,
// serialized through a single-writer mutex so concurrent mutations cannot
// lose each other's changes, and flushed via temp file + rename so a crash
// cannot tear the document. A file that fails to parse is an unrecoverable
// storage fault: every operation returns the parse error until the file is
// replaced out of band.
type FileProductRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileProductRepository creates the data directory and an empty catalog
// document if none exists yet.
func NewFileProductRepository(path string) (*FileProductRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeJSONAtomic(path, []models.Product{}); err != nil {
			return nil, err
		}
	}
	return &FileProductRepository{path: path}, nil
}

func (r *FileProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return err
	}
	products = append(products, *product)
	return writeJSONAtomic(r.path, products)
}

func (r *FileProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product
			return writeJSONAtomic(r.path, products)
		}
	}
	return ErrNotFound
}

func (r *FileProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load()
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	return writeJSONAtomic(r.path, kept)
}

// load reads and parses the catalog document. Callers must hold the mutex.
func (r *FileProductRepository) load() ([]models.Product, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", r.path, err)
	}
	return products, nil
}

// writeJSONAtomic rewrites path through a temp file in the same directory so
// readers never observe a partially written document.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
