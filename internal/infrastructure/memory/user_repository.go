package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository construye el repositorio sobre el almacén.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	defer r.store.guard(false)()
	for _, x := range r.store.users {
		if strings.EqualFold(x.Username, u.Username) || strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.store.users[u.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.store.guard(false)()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	defer r.store.guard(false)()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
