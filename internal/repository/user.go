package repository

import (
	"context"

	"github.com/proxchat/backend/internal/entity"
	"github.com/proxchat/backend/pkg/errorx"
	"github.com/proxchat/backend/pkg/idutil"

	"github.com/puzpuzpuz/xsync"
)

type UserRepository interface {
	Create(ctx context.Context, name, passwordHash string) (int64, error)
	GetByID(ctx context.Context, id int64) (entity.User, bool)
	GetByName(ctx context.Context, name string) (entity.User, bool)
	UpdatePosition(ctx context.Context, id int64, lat, lon float64)
	Count(ctx context.Context) int
}

// userRepository keeps all accounts in memory. Records are shared as
// immutable snapshots: a position update swaps in a fresh copy of the record
// instead of mutating it in place, so readers never observe a torn write.
type userRepository struct {
	ids   idutil.Allocator
	users *xsync.MapOf[int64, *entity.User]

	// names maps display name to user id. It is the arbiter of name
	// uniqueness: an id is published here only once the record exists.
	names *xsync.MapOf[string, int64]
}

func NewUserRepository() *userRepository {
	return &userRepository{
		users: xsync.NewTypedMapOf[int64, *entity.User](idutil.HashInt64),
		names: xsync.NewMapOf[int64](),
	}
}

// Create registers a new account. The record is stored before the name
// index is published, and the index insert arbitrates uniqueness: of two
// concurrent calls with the same name exactly one wins, and the loser
// withdraws its provisional record.
func (r *userRepository) Create(ctx context.Context, name, passwordHash string) (int64, error) {
	id := r.ids.Next()
	r.users.Store(id, &entity.User{ID: id, Name: name, PasswordHash: passwordHash})

	if _, taken := r.names.LoadOrStore(name, id); taken {
		r.users.Delete(id)
		return 0, errorx.New(errorx.AlreadyExists, "username %s is already taken", name)
	}

	return id, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (entity.User, bool) {
	u, ok := r.users.Load(id)
	if !ok {
		return entity.User{}, false
	}

	return *u, true
}

func (r *userRepository) GetByName(ctx context.Context, name string) (entity.User, bool) {
	id, ok := r.names.Load(name)
	if !ok {
		return entity.User{}, false
	}

	return r.GetByID(ctx, id)
}

// UpdatePosition overwrites the stored position of a user. Unknown ids are
// ignored: a position report racing a disconnect is expected.
func (r *userRepository) UpdatePosition(ctx context.Context, id int64, lat, lon float64) {
	u, ok := r.users.Load(id)
	if !ok {
		return
	}

	clone := *u
	clone.Lat, clone.Lon = lat, lon
	r.users.Store(id, &clone)
}

func (r *userRepository) Count(ctx context.Context) int {
	return r.users.Size()
}
