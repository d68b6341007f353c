package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

var testSeed = models.User{
	Username:     "admin",
	PasswordHash: "digest-of-admin123",
	Role:         models.RoleLeader,
	DisplayName:  "Administrador",
}

func newTestCSV(t *testing.T) (*CSV, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewCSV(zap.NewNop(), dir, testSeed)
	require.NoError(t, err)
	return s, dir
}

func TestBootstrapSeedsUsersOnce(t *testing.T) {
	s, dir := newTestCSV(t)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, testSeed, users[0])

	// reopening the same directory must not reseed
	require.NoError(t, s.CreateUser(models.User{Username: "maria", Role: models.RoleEmployee}))
	s2, err := NewCSV(zap.NewNop(), dir, testSeed)
	require.NoError(t, err)
	users, err = s2.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateOrderAssignsSequentialIDs(t *testing.T) {
	s, _ := newTestCSV(t)

	for i := 1; i <= 3; i++ {
		o, err := s.CreateOrder("100", "Alice")
		require.NoError(t, err)
		assert.Equal(t, i, o.ID)
	}

	// max+1, so deleting a middle order does not shift later ids
	require.NoError(t, s.DeleteOrder(2))
	o, err := s.CreateOrder("200", "Alice")
	require.NoError(t, err)
	assert.Equal(t, 4, o.ID)
}

func TestCreateOrderInitialState(t *testing.T) {
	s, _ := newTestCSV(t)

	o, err := s.CreateOrder("123", "Alice")
	require.NoError(t, err)

	assert.Equal(t, 1, o.ID)
	assert.Equal(t, "123", o.Number)
	assert.Equal(t, "Alice", o.Assignee)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Empty(t, o.StartedAt)
	assert.Empty(t, o.CompletedAt)
}

func TestApplyStatusLifecyclePersisted(t *testing.T) {
	s, _ := newTestCSV(t)

	t1 := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 10, 16, 45, 0, 0, time.UTC)
	clock := t1
	s.now = func() time.Time { return clock }

	o, err := s.CreateOrder("123", "Alice")
	require.NoError(t, err)

	got, err := s.ApplyStatus(o.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, "10/03/2024 09:30", got.StartedAt)
	assert.Empty(t, got.CompletedAt)

	clock = t1.Add(time.Hour)
	got, err = s.ApplyStatus(o.ID, models.StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, "10/03/2024 09:30", got.StartedAt, "pause must not touch the start time")

	clock = t2
	_, err = s.ApplyStatus(o.ID, models.StatusDone)
	require.NoError(t, err)

	// re-read from disk
	final, err := s.FindOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, final.Status)
	assert.Equal(t, "10/03/2024 09:30", final.StartedAt)
	assert.Equal(t, "10/03/2024 16:45", final.CompletedAt)
}

func TestApplyStatusIllegalLeavesFileUntouched(t *testing.T) {
	s, _ := newTestCSV(t)

	o, err := s.CreateOrder("123", "Alice")
	require.NoError(t, err)
	_, err = s.ApplyStatus(o.ID, models.StatusDone)
	require.NoError(t, err)

	_, err = s.ApplyStatus(o.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	final, err := s.FindOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, final.Status)
}

func TestApplyStatusNotFound(t *testing.T) {
	s, _ := newTestCSV(t)
	_, err := s.ApplyStatus(99, models.StatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersFilters(t *testing.T) {
	s, _ := newTestCSV(t)

	a, _ := s.CreateOrder("1", "Alice")
	_, _ = s.CreateOrder("2", "Bruno")
	_, _ = s.CreateOrder("3", "Alice")
	_, err := s.ApplyStatus(a.ID, models.StatusInProgress)
	require.NoError(t, err)

	all, err := s.ListOrders(OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alice, err := s.ListOrders(OrderFilter{Assignee: "Alice"})
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	busy, err := s.ListOrders(OrderFilter{Status: models.StatusInProgress})
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, a.ID, busy[0].ID)

	both, err := s.ListOrders(OrderFilter{Assignee: "Alice", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, both, 1)
}

func TestOrdersRoundTrip(t *testing.T) {
	s, dir := newTestCSV(t)

	_, err := s.CreateOrder("10", "Alice")
	require.NoError(t, err)
	_, err = s.CreateOrder("20", "Bruno")
	require.NoError(t, err)
	_, err = s.ApplyStatus(1, models.StatusInProgress)
	require.NoError(t, err)

	before, err := s.ListOrders(OrderFilter{})
	require.NoError(t, err)

	reopened, err := NewCSV(zap.NewNop(), dir, testSeed)
	require.NoError(t, err)
	after, err := reopened.ListOrders(OrderFilter{})
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestLoadBackfillsMissingColumns(t *testing.T) {
	s, dir := newTestCSV(t)

	// an older users file without role and nome_completo columns
	content := "username,password\njoao,abc123\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usuarios.csv"), []byte(content), 0644))

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "joao", users[0].Username)
	assert.Equal(t, "abc123", users[0].PasswordHash)
	assert.Equal(t, models.RoleEmployee, users[0].Role)
	assert.Empty(t, users[0].DisplayName)

	// orders file missing the timestamp columns
	orderContent := "ID,Pedido,Funcionário,Status\n1,50,Alice,Pendente\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pedidos.csv"), []byte(orderContent), 0644))

	orders, err := s.ListOrders(OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].StartedAt)
	assert.Empty(t, orders[0].CompletedAt)
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	s, _ := newTestCSV(t)
	orders, err := s.ListOrders(OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	s, dir := newTestCSV(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pedidos.csv"), []byte("\"unterminated\n1,2"), 0644))

	orders, err := s.ListOrders(OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUpdateAssigneeAndDelete(t *testing.T) {
	s, _ := newTestCSV(t)

	o, err := s.CreateOrder("77", "Alice")
	require.NoError(t, err)

	require.NoError(t, s.UpdateAssignee(o.ID, "Bruno"))
	got, err := s.FindOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", got.Assignee)

	assert.ErrorIs(t, s.UpdateAssignee(42, "x"), ErrNotFound)

	require.NoError(t, s.DeleteOrder(o.ID))
	_, err = s.FindOrder(o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(o.ID), ErrNotFound)
}

func TestUserLifecycle(t *testing.T) {
	s, _ := newTestCSV(t)

	require.NoError(t, s.CreateUser(models.User{
		Username: "maria", PasswordHash: "h1", Role: models.RoleEmployee, DisplayName: "Maria",
	}))
	assert.ErrorIs(t, s.CreateUser(models.User{Username: "maria"}), ErrAlreadyExists)

	name := "Maria Silva"
	require.NoError(t, s.UpdateUser("maria", UserUpdate{DisplayName: &name}))
	u, err := s.FindUser("maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", u.DisplayName)
	assert.Equal(t, "h1", u.PasswordHash, "untouched fields keep their values")

	assert.ErrorIs(t, s.UpdateUser("nobody", UserUpdate{}), ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser("nobody"), ErrNotFound)
}

func TestLastLeaderProtection(t *testing.T) {
	s, _ := newTestCSV(t)

	// sole leader: delete and demotion both rejected, store unchanged
	assert.ErrorIs(t, s.DeleteUser("admin"), ErrLastLeader)
	emp := models.RoleEmployee
	assert.ErrorIs(t, s.UpdateUser("admin", UserUpdate{Role: &emp}), ErrLastLeader)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleLeader, users[0].Role)

	// a second leader lifts the restriction
	require.NoError(t, s.CreateUser(models.User{Username: "chefe", Role: models.RoleLeader}))
	require.NoError(t, s.DeleteUser("admin"))
}
