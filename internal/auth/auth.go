package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

// ErrInvalidCredentials covers both unknown username and wrong password, so a
// failed login never reveals which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DigestFunc turns a plaintext password into the stored digest. The store
// only ever sees digests; the algorithm is swappable here.
type DigestFunc func(plain string) string

// SHA256Hex is the default digest, matching the persisted users table.
func SHA256Hex(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Service owns everything that touches plaintext passwords: login
// verification and user management on top of a UserStore.
type Service struct {
	users  store.UserStore
	digest DigestFunc
}

func NewService(users store.UserStore, digest DigestFunc) *Service {
	if digest == nil {
		digest = SHA256Hex
	}
	return &Service{users: users, digest: digest}
}

// Digest exposes the configured digest function, used when seeding the
// bootstrap account.
func (s *Service) Digest(plain string) string {
	return s.digest(plain)
}

func (s *Service) VerifyLogin(username, password string) (*models.User, error) {
	u, err := s.users.FindUser(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.PasswordHash != s.digest(password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) CreateUser(username, password string, role models.Role, displayName string) error {
	return s.users.CreateUser(models.User{
		Username:     username,
		PasswordHash: s.digest(password),
		Role:         role,
		DisplayName:  displayName,
	})
}

// UpdateUser applies a partial update; an empty newPassword keeps the current
// one.
func (s *Service) UpdateUser(username, displayName string, role models.Role, newPassword string) error {
	upd := store.UserUpdate{
		DisplayName: &displayName,
		Role:        &role,
	}
	if newPassword != "" {
		h := s.digest(newPassword)
		upd.PasswordHash = &h
	}
	return s.users.UpdateUser(username, upd)
}

func (s *Service) DeleteUser(username string) error {
	return s.users.DeleteUser(username)
}
