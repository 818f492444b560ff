package domain

import (
	"context"
	"testing"

	"github.com/proxchat/backend/config"
	"github.com/proxchat/backend/internal/repository"
	"github.com/proxchat/backend/pkg/errorx"

	"github.com/stretchr/testify/require"
)

func newTestAuthDomain() (*authDomain, repository.UserRepository) {
	userRepo := repository.NewUserRepository()
	// Low iteration count to keep the test fast.
	return NewAuthDomain(config.AuthConfigs{PBKDF2Iterations: 10}, userRepo), userRepo
}

func Test_authDomain_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestAuthDomain()

	registered, err := d.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	loggedIn, err := d.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	require.Equal(t, registered, loggedIn)
}

func Test_authDomain_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestAuthDomain()

	_, err := d.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	_, err = d.Login(ctx, "alice", "battery staple")
	require.Error(t, err)
}

func Test_authDomain_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestAuthDomain()

	_, err := d.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	// An unknown username and a wrong password must produce the same
	// external signal.
	_, unknownUser := d.Login(ctx, "nobody", "whatever")
	_, wrongPassword := d.Login(ctx, "alice", "whatever")
	require.Equal(t, unknownUser, wrongPassword)
}

func Test_authDomain_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestAuthDomain()

	_, err := d.Register(ctx, "alice", "first")
	require.NoError(t, err)

	_, err = d.Register(ctx, "alice", "second")
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// The original credentials still work.
	_, err = d.Login(ctx, "alice", "first")
	require.NoError(t, err)
	_, err = d.Login(ctx, "alice", "second")
	require.Error(t, err)
}

func Test_authDomain_PasswordsAreHashed(t *testing.T) {
	ctx := context.Background()
	d, userRepo := newTestAuthDomain()

	_, err := d.Register(ctx, "alice", "plaintext")
	require.NoError(t, err)

	u, ok := userRepo.GetByName(ctx, "alice")
	require.True(t, ok)
	require.NotContains(t, u.PasswordHash, "plaintext")
}
