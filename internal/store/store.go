package store

import (
	"errors"
	"strconv"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

var (
	// ErrNotFound is returned when a user or order does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned on a duplicate username.
	ErrAlreadyExists = errors.New("username already exists")
	// ErrLastLeader is returned when a delete or role change would leave the
	// system without any leader account.
	ErrLastLeader = errors.New("cannot remove the last leader")
)

// OrderFilter narrows a listing. Zero values mean "all".
type OrderFilter struct {
	Assignee string
	Status   models.Status
}

func (f OrderFilter) Matches(o models.Order) bool {
	if f.Assignee != "" && o.Assignee != f.Assignee {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

// UserUpdate is a partial update; nil fields are left untouched. The username
// itself is immutable once created.
type UserUpdate struct {
	DisplayName  *string
	Role         *models.Role
	PasswordHash *string
}

type UserStore interface {
	ListUsers() ([]models.User, error)
	FindUser(username string) (*models.User, error)
	CreateUser(u models.User) error
	UpdateUser(username string, upd UserUpdate) error
	DeleteUser(username string) error
}

type OrderStore interface {
	ListOrders(f OrderFilter) ([]models.Order, error)
	FindOrder(id int) (*models.Order, error)
	// CreateOrder assigns id = max(existing)+1, or 1 for an empty store.
	// New orders start in Pendente with both timestamps empty.
	CreateOrder(number, assignee string) (*models.Order, error)
	UpdateAssignee(id int, assignee string) error
	DeleteOrder(id int) error
	// ApplyStatus runs the order's status transition and persists the
	// result. Returns models.ErrIllegalTransition without persisting when
	// the transition is not allowed.
	ApplyStatus(id int, to models.Status) (*models.Order, error)
}

// OrderColumns is the persisted (and exported) column layout of the orders
// table, in fixed order.
var OrderColumns = []string{"ID", "Pedido", "Funcionário", "Status", "Data Início", "Data Conclusão"}

// UserColumns is the persisted column layout of the users table.
var UserColumns = []string{"username", "password", "role", "nome_completo"}

// OrderRecord renders an order as one row in OrderColumns order. Shared by
// the flat-file backend and the report writers.
func OrderRecord(o models.Order) []string {
	return []string{
		strconv.Itoa(o.ID),
		o.Number,
		o.Assignee,
		string(o.Status),
		o.StartedAt,
		o.CompletedAt,
	}
}
