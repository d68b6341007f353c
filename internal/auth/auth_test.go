package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

func newTestService(t *testing.T) (*Service, store.UserStore) {
	t.Helper()
	seed := models.User{
		Username:     "admin",
		PasswordHash: SHA256Hex("admin123"),
		Role:         models.RoleLeader,
		DisplayName:  "Administrador",
	}
	s, err := store.NewCSV(zap.NewNop(), t.TempDir(), seed)
	require.NoError(t, err)
	return NewService(s, nil), s
}

func TestSHA256Hex(t *testing.T) {
	// well-known digest, matches what older data files carry
	assert.Equal(t,
		"240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9",
		SHA256Hex("admin123"))
}

func TestVerifyLogin(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.VerifyLogin("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLeader, u.Role)
	assert.Equal(t, "Administrador", u.DisplayName)

	// wrong password and unknown user fail the same way
	_, err = svc.VerifyLogin("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.VerifyLogin("nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDigestsPassword(t *testing.T) {
	svc, users := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "s3cret", models.RoleEmployee, "Maria Silva"))

	u, err := users.FindUser("maria")
	require.NoError(t, err)
	assert.Equal(t, SHA256Hex("s3cret"), u.PasswordHash)

	_, err = svc.VerifyLogin("maria", "s3cret")
	assert.NoError(t, err)
}

func TestCreateUserDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.CreateUser("maria", "a", models.RoleEmployee, "Maria"))
	err := svc.CreateUser("maria", "b", models.RoleEmployee, "Outra Maria")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdateUserKeepsPasswordWhenBlank(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.CreateUser("maria", "s3cret", models.RoleEmployee, "Maria Silva"))

	require.NoError(t, svc.UpdateUser("maria", "Maria S. Costa", models.RoleEmployee, ""))
	_, err := svc.VerifyLogin("maria", "s3cret")
	assert.NoError(t, err)

	require.NoError(t, svc.UpdateUser("maria", "Maria S. Costa", models.RoleEmployee, "nova"))
	_, err = svc.VerifyLogin("maria", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.VerifyLogin("maria", "nova")
	assert.NoError(t, err)
}

func TestDeleteLastLeaderRejected(t *testing.T) {
	svc, users := newTestService(t)

	err := svc.DeleteUser("admin")
	assert.ErrorIs(t, err, store.ErrLastLeader)

	// with a second leader the delete goes through
	require.NoError(t, svc.CreateUser("chefe", "x", models.RoleLeader, "Chefe"))
	require.NoError(t, svc.DeleteUser("admin"))

	all, err := users.ListUsers()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "chefe", all[0].Username)
}
