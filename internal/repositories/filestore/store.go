// Package filestore keeps the catalogue in a single JSON document on disk. It backs the
// same repository interfaces as Postgres and is meant for demos and single-node setups.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
)

const (
	seqProducts   = "products"
	seqCategories = "categories"
	seqAdmins     = "admins"
)

type adminRecord struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type document struct {
	Categories []*models.Category `json:"categories"`
	Products   []*models.Product  `json:"products"`
	Admins     []*adminRecord     `json:"admins"`
	Sequences  map[string]int64   `json:"sequences"`
}

type Store struct {
	path string

	mu  sync.RWMutex
	doc document

	locksMu  sync.Mutex
	rowLocks map[int64]chan struct{}

	now func() time.Time
}

// Open loads the document at path, or starts an empty one when the file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		rowLocks: make(map[int64]chan struct{}),
		now:      time.Now,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("Database file not found, starting empty", slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("reading database file: %w", err)
	default:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("parsing database file: %w", err)
		}
	}

	s.initSequences()

	slog.Info("✅ File store loaded",
		slog.String("path", path),
		slog.Int("products", len(s.doc.Products)),
		slog.Int("categories", len(s.doc.Categories)),
	)

	return s, nil
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Store {
	return repository.NewStore(&productRepo{s: s}, &categoryRepo{s: s}, &adminRepo{s: s}, nil)
}

// initSequences seeds missing counters from the highest id on disk. After that ids only
// ever come from the counters, so a deleted id is never handed out again.
func (s *Store) initSequences() {
	if s.doc.Sequences == nil {
		s.doc.Sequences = make(map[string]int64)
	}

	seed := func(name string, ids []int64) {
		for _, id := range ids {
			if id > s.doc.Sequences[name] {
				s.doc.Sequences[name] = id
			}
		}
	}

	productIDs := make([]int64, 0, len(s.doc.Products))
	for _, p := range s.doc.Products {
		productIDs = append(productIDs, p.ID)
	}

	categoryIDs := make([]int64, 0, len(s.doc.Categories))
	for _, c := range s.doc.Categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	adminIDs := make([]int64, 0, len(s.doc.Admins))
	for _, a := range s.doc.Admins {
		adminIDs = append(adminIDs, a.ID)
	}

	seed(seqProducts, productIDs)
	seed(seqCategories, categoryIDs)
	seed(seqAdmins, adminIDs)
}

// nextID must be called with mu held for writing.
func (s *Store) nextID(name string) int64 {
	s.doc.Sequences[name]++

	return s.doc.Sequences[name]
}

// save writes the document atomically. Must be called with mu held for writing.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding database file: %w", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".database-*.json")
	if err != nil {
		return fmt.Errorf("writing database file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing database file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing database file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing database file: %w", err)
	}

	return nil
}

func (s *Store) rowLock(id int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.rowLocks[id]
	if !ok {
		lock = make(chan struct{}, 1)
		s.rowLocks[id] = lock
	}

	return lock
}

// lockRow blocks until the row lock for id is held or ctx is done.
func (s *Store) lockRow(ctx context.Context, id int64) (func(), error) {
	lock := s.rowLock(id)

	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for lock on product %d: %w", id, ctx.Err())
	}
}

func cloneProduct(p *models.Product) *models.Product {
	c := *p
	c.Specifications = maps.Clone(p.Specifications)
	if c.Specifications == nil {
		c.Specifications = map[string]string{}
	}

	if p.ImageURL != nil {
		url := *p.ImageURL
		c.ImageURL = &url
	}

	c.CategoryName = nil

	return &c
}

func (s *Store) productIndex(id int64) int {
	for i, p := range s.doc.Products {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) categoryIndex(id int64) int {
	for i, c := range s.doc.Categories {
		if c.ID == id {
			return i
		}
	}

	return -1
}
