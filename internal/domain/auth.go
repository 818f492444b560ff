package domain

import (
	"context"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/repository"
	"github.com/proxchat/backend/pkg/crypto"
	"github.com/proxchat/backend/pkg/errorx"
)

type AuthDomain interface {
	Login(ctx context.Context, username, password string) (int64, error)
	Register(ctx context.Context, username, password string) (int64, error)
}

type authDomain struct {
	cfg      config.AuthConfigs
	userRepo repository.UserRepository
}

func NewAuthDomain(cfg config.AuthConfigs, userRepo repository.UserRepository) *authDomain {
	return &authDomain{cfg: cfg, userRepo: userRepo}
}

// Login verifies a username and password and returns the user id. The
// returned error is the same for an unknown username and a wrong password.
// Note that the KDF only runs on the known-username path, so the two
// failures differ in timing even though they are indistinguishable in the
// response.
func (d *authDomain) Login(ctx context.Context, username, password string) (int64, error) {
	user, ok := d.userRepo.GetByName(ctx, username)
	if !ok {
		return 0, errorx.New(errorx.Unauthenticated, "invalid credentials")
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return 0, errorx.New(errorx.Unauthenticated, "invalid credentials")
	}

	return user.ID, nil
}

// Register creates an account with a freshly derived password hash. The
// name uniqueness check and the insert are atomic in the repository, so two
// concurrent registrations of one name cannot both succeed.
func (d *authDomain) Register(ctx context.Context, username, password string) (int64, error) {
	hash, err := crypto.HashPassword(password, d.cfg.PBKDF2Iterations)
	if err != nil {
		return 0, errorx.Unknown
	}

	return d.userRepo.Create(ctx, username, hash)
}
