package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories"
)

// UserRepository is the in-memory user store
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.s.write(func(d *data) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, user.Email) {
				return repositories.ErrDuplicate
			}
		}
		now := time.Now()
		user.ID = d.id()
		user.State = models.LifecycleActive
		user.CreatedAt, user.UpdatedAt = now, now
		d.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.s.read(func(d *data) error {
		u, ok := d.users[id]
		if !ok || !u.IsActive() {
			return repositories.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	err := r.s.read(func(d *data) error {
		for _, id := range ids {
			if u, ok := d.users[id]; ok && u.IsActive() {
				out[id] = &u
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role models.RoleType) ([]models.User, error) {
	var out []models.User
	err := r.s.read(func(d *data) error {
		for _, u := range d.users {
			if u.RoleType == role && u.IsActive() {
				out = append(out, u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return userLess(&out[i], &out[j]) })
	return out, err
}

func userLess(a, b *models.User) bool {
	if a.LastName != b.LastName {
		return a.LastName < b.LastName
	}
	if a.FirstName != b.FirstName {
		return a.FirstName < b.FirstName
	}
	return a.ID < b.ID
}
