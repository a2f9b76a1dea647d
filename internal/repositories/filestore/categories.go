package filestore

import (
	"cmp"
	"context"
	"slices"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
)

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) CreateCategory(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now().UTC()
	category.ID = r.s.nextID(seqCategories)
	category.CreatedAt = now
	category.UpdatedAt = now

	stored := *category
	r.s.doc.Categories = append(r.s.doc.Categories, &stored)

	if err := r.s.save(); err != nil {
		r.s.doc.Categories = r.s.doc.Categories[:len(r.s.doc.Categories)-1]
		return err
	}

	return nil
}

func (r *categoryRepo) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.categoryIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}

	category := *r.s.doc.Categories[i]

	return &category, nil
}

func (r *categoryRepo) UpdateCategory(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.categoryIndex(category.ID)
	if i < 0 {
		return repository.ErrNotFound
	}

	previous := r.s.doc.Categories[i]

	category.CreatedAt = previous.CreatedAt
	category.UpdatedAt = r.s.now().UTC()

	stored := *category
	r.s.doc.Categories[i] = &stored

	if err := r.s.save(); err != nil {
		r.s.doc.Categories[i] = previous
		return err
	}

	return nil
}

func (r *categoryRepo) DeleteCategory(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.categoryIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}

	previous := r.s.doc.Categories
	r.s.doc.Categories = slices.Delete(slices.Clone(previous), i, i+1)

	if err := r.s.save(); err != nil {
		r.s.doc.Categories = previous
		return err
	}

	return nil
}

func (r *categoryRepo) ListCategories(_ context.Context) ([]*models.Category, error) {
	r.s.mu.RLock()
	categories := make([]*models.Category, 0, len(r.s.doc.Categories))
	for _, c := range r.s.doc.Categories {
		category := *c
		categories = append(categories, &category)
	}
	r.s.mu.RUnlock()

	slices.SortFunc(categories, func(a, b *models.Category) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return categories, nil
}

type adminRepo struct {
	s *Store
}

func (r *adminRepo) CreateAdmin(_ context.Context, admin *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.doc.Admins {
		if a.Username == admin.Username {
			return repository.ErrDuplicate
		}
	}

	admin.ID = r.s.nextID(seqAdmins)
	admin.CreatedAt = r.s.now().UTC()

	r.s.doc.Admins = append(r.s.doc.Admins, &adminRecord{
		ID:           admin.ID,
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
	})

	if err := r.s.save(); err != nil {
		r.s.doc.Admins = r.s.doc.Admins[:len(r.s.doc.Admins)-1]
		return err
	}

	return nil
}

func (r *adminRepo) GetAdminByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.doc.Admins {
		if a.Username == username {
			return &models.Admin{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash, CreatedAt: a.CreatedAt}, nil
		}
	}

	return nil, repository.ErrNotFound
}
