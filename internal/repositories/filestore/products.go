package filestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
)

type productRepo struct {
	s *Store
}

func (r *productRepo) CreateProduct(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now().UTC()
	product.ID = r.s.nextID(seqProducts)
	product.CreatedAt = now
	product.UpdatedAt = now

	r.s.doc.Products = append(r.s.doc.Products, cloneProduct(product))

	if err := r.s.save(); err != nil {
		r.s.doc.Products = r.s.doc.Products[:len(r.s.doc.Products)-1]
		return err
	}

	return nil
}

func (r *productRepo) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.productIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}

	product := cloneProduct(r.s.doc.Products[i])

	if c := r.s.categoryIndex(product.CategoryID); c >= 0 {
		name := r.s.doc.Categories[c].Name
		product.CategoryName = &name
	}

	return product, nil
}

// UpdateProduct waits for the row lock, so it lands either before a checkout locks the row or
// after that checkout commits. Unless setStock is set the stock read under the lock is kept.
func (r *productRepo) UpdateProduct(ctx context.Context, product *models.Product, setStock bool) error {
	unlock, err := r.s.lockRow(ctx, product.ID)
	if err != nil {
		return err
	}
	defer unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.productIndex(product.ID)
	if i < 0 {
		return repository.ErrNotFound
	}

	previous := r.s.doc.Products[i]

	if !setStock {
		product.StockQuantity = previous.StockQuantity
	}
	product.CreatedAt = previous.CreatedAt
	product.UpdatedAt = r.s.now().UTC()
	r.s.doc.Products[i] = cloneProduct(product)

	if err := r.s.save(); err != nil {
		r.s.doc.Products[i] = previous
		return err
	}

	return nil
}

func (r *productRepo) DeleteProduct(ctx context.Context, id int64) error {
	unlock, err := r.s.lockRow(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.productIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}

	previous := r.s.doc.Products
	r.s.doc.Products = slices.Delete(slices.Clone(previous), i, i+1)

	if err := r.s.save(); err != nil {
		r.s.doc.Products = previous
		return err
	}

	return nil
}

func matchesFilter(p *models.Product, filter models.ProductFilter) bool {
	if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
		return false
	}

	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) && !strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}

	if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
		return false
	}

	if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
		return false
	}

	return true
}

func compareProducts(field string, a, b *models.Product) int {
	switch field {
	case models.SortByPrice:
		return a.Price.Cmp(b.Price)
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return cmp.Compare(a.Name, b.Name)
	}
}

func (r *productRepo) ListProducts(_ context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	r.s.mu.RLock()
	matched := make([]*models.Product, 0, len(r.s.doc.Products))
	for _, p := range r.s.doc.Products {
		if matchesFilter(p, filter) {
			matched = append(matched, cloneProduct(p))
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b *models.Product) int {
		c := compareProducts(filter.SortField, a, b)
		if filter.SortDesc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	total := len(matched)

	start := min(filter.Offset(), total)
	end := start + min(max(filter.Limit, 0), total-start)

	return matched[start:end], total, nil
}

func (r *productRepo) BeginStockTx(_ context.Context) (repository.StockTx, error) {
	return &stockTx{s: r.s, staged: make(map[int64]int64)}, nil
}

// stockTx holds row locks from LockStock until Commit or Rollback. Decrements are
// staged in memory and written to the document, and to disk, only on Commit.
type stockTx struct {
	s       *Store
	unlocks []func()
	locked  map[int64]bool
	staged  map[int64]int64
	order   []int64
	done    bool
}

func (t *stockTx) LockStock(ctx context.Context, ids []int64) (map[int64]int64, error) {
	if t.done {
		return nil, fmt.Errorf("stock transaction already finished")
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	if t.locked == nil {
		t.locked = make(map[int64]bool, len(sorted))
	}

	for _, id := range sorted {
		if t.locked[id] {
			continue
		}

		unlock, err := t.s.lockRow(ctx, id)
		if err != nil {
			return nil, err
		}

		t.unlocks = append(t.unlocks, unlock)
		t.locked[id] = true
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	stock := make(map[int64]int64, len(sorted))
	for _, id := range sorted {
		if i := t.s.productIndex(id); i >= 0 {
			stock[id] = t.s.doc.Products[i].StockQuantity
		}
	}

	return stock, nil
}

func (t *stockTx) DecrementStock(_ context.Context, id, quantity int64) error {
	if t.done {
		return fmt.Errorf("stock transaction already finished")
	}

	if !t.locked[id] {
		return fmt.Errorf("decrementing stock for product %d: row is not locked", id)
	}

	t.s.mu.RLock()
	i := t.s.productIndex(id)
	var current int64
	if i >= 0 {
		current = t.s.doc.Products[i].StockQuantity
	}
	t.s.mu.RUnlock()

	if i < 0 {
		return fmt.Errorf("decrementing stock for product %d: %w", id, repository.ErrNotFound)
	}

	if current-t.staged[id]-quantity < 0 {
		return fmt.Errorf("decrementing stock for product %d: %w", id, repository.ErrConstraintViolation)
	}

	if _, seen := t.staged[id]; !seen {
		t.order = append(t.order, id)
	}
	t.staged[id] += quantity

	return nil
}

func (t *stockTx) Commit() error {
	if t.done {
		return fmt.Errorf("stock transaction already finished")
	}
	defer t.release()

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	previous := make(map[int]models.Product, len(t.order))
	now := t.s.now().UTC()

	for _, id := range t.order {
		i := t.s.productIndex(id)
		if i < 0 {
			t.restore(previous)
			return fmt.Errorf("committing stock for product %d: %w", id, repository.ErrNotFound)
		}

		p := t.s.doc.Products[i]
		previous[i] = *p

		p.StockQuantity -= t.staged[id]
		p.UpdatedAt = now
	}

	if err := t.s.save(); err != nil {
		t.restore(previous)
		return err
	}

	return nil
}

func (t *stockTx) restore(previous map[int]models.Product) {
	for i, p := range previous {
		*t.s.doc.Products[i] = p
	}
}

func (t *stockTx) Rollback() error {
	if t.done {
		return nil
	}

	t.release()

	return nil
}

func (t *stockTx) release() {
	t.done = true
	t.staged = nil

	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}

	t.unlocks = nil
}
