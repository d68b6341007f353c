package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

const (
	ordersFile = "pedidos.csv"
	usersFile  = "usuarios.csv"
)

// CSV persists both tables as flat files under a data directory. Every
// operation reads the whole file, mutates in memory and rewrites the whole
// file; concurrent writers race and the last write wins. A missing file is an
// empty table; a corrupt one degrades to empty instead of failing the
// request.
type CSV struct {
	logger *zap.Logger
	dir    string
	mu     sync.Mutex
	now    func() time.Time
}

// NewCSV creates the data directory if needed and seeds the users table with
// the given bootstrap account when the file does not exist yet.
func NewCSV(logger *zap.Logger, dir string, seed models.User) (*CSV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	s := &CSV{
		logger: logger,
		dir:    dir,
		now:    time.Now,
	}
	if _, err := os.Stat(s.path(usersFile)); os.IsNotExist(err) {
		if err := s.saveUsers([]models.User{seed}); err != nil {
			return nil, err
		}
		logger.Info("seeded users table", zap.String("username", seed.Username))
	}
	return s, nil
}

func (s *CSV) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readTable loads a file as header + rows and returns a lookup from column
// name to index. Missing file and unreadable content both come back as an
// empty table.
func (s *CSV) readTable(name string) (map[string]int, [][]string) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to open table", zap.String("file", name), zap.Error(err))
		}
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		s.logger.Warn("corrupt table, treating as empty", zap.String("file", name), zap.Error(err))
		return nil, nil
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[h] = i
	}
	return cols, records[1:]
}

func (s *CSV) writeTable(name string, header []string, rows [][]string) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// cell returns the named column of a row, or def when the column is absent
// from the file (older files may miss newer columns).
func cell(cols map[string]int, row []string, name, def string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return def
	}
	return row[i]
}

//
// orders table
//

func (s *CSV) loadOrders() []models.Order {
	cols, rows := s.readTable(ordersFile)
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.Atoi(cell(cols, row, "ID", ""))
		if err != nil {
			s.logger.Warn("skipping order row with bad id", zap.Strings("row", row))
			continue
		}
		orders = append(orders, models.Order{
			ID:          id,
			Number:      cell(cols, row, "Pedido", ""),
			Assignee:    cell(cols, row, "Funcionário", ""),
			Status:      models.Status(cell(cols, row, "Status", "")),
			StartedAt:   cell(cols, row, "Data Início", ""),
			CompletedAt: cell(cols, row, "Data Conclusão", ""),
		})
	}
	return orders
}

func (s *CSV) saveOrders(orders []models.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRecord(o))
	}
	return s.writeTable(ordersFile, OrderColumns, rows)
}

func (s *CSV) ListOrders(f OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Order
	for _, o := range s.loadOrders() {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *CSV) FindOrder(id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.loadOrders() {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (s *CSV) CreateOrder(number, assignee string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders()
	maxID := 0
	for _, o := range orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	o := models.Order{
		ID:       maxID + 1,
		Number:   number,
		Assignee: assignee,
		Status:   models.StatusPending,
	}
	orders = append(orders, o)
	if err := s.saveOrders(orders); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *CSV) UpdateAssignee(id int, assignee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders()
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Assignee = assignee
			return s.saveOrders(orders)
		}
	}
	return ErrNotFound
}

func (s *CSV) DeleteOrder(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders()
	for i := range orders {
		if orders[i].ID == id {
			orders = append(orders[:i], orders[i+1:]...)
			return s.saveOrders(orders)
		}
	}
	return ErrNotFound
}

func (s *CSV) ApplyStatus(id int, to models.Status) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders()
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if err := orders[i].ApplyStatus(to, s.now()); err != nil {
			return nil, err
		}
		if err := s.saveOrders(orders); err != nil {
			return nil, err
		}
		o := orders[i]
		return &o, nil
	}
	return nil, ErrNotFound
}

//
// users table
//

func (s *CSV) loadUsers() []models.User {
	cols, rows := s.readTable(usersFile)
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, models.User{
			Username:     cell(cols, row, "username", ""),
			PasswordHash: cell(cols, row, "password", ""),
			Role:         models.Role(cell(cols, row, "role", string(models.RoleEmployee))),
			DisplayName:  cell(cols, row, "nome_completo", ""),
		})
	}
	return users
}

func (s *CSV) saveUsers(users []models.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Username, u.PasswordHash, string(u.Role), u.DisplayName})
	}
	return s.writeTable(usersFile, UserColumns, rows)
}

func (s *CSV) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers(), nil
}

func (s *CSV) FindUser(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadUsers() {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *CSV) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers()
	for _, existing := range users {
		if existing.Username == u.Username {
			return ErrAlreadyExists
		}
	}
	return s.saveUsers(append(users, u))
}

func (s *CSV) UpdateUser(username string, upd UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers()
	for i := range users {
		if users[i].Username != username {
			continue
		}
		if upd.Role != nil && users[i].Role == models.RoleLeader && *upd.Role != models.RoleLeader &&
			countLeaders(users) <= 1 {
			return ErrLastLeader
		}
		if upd.DisplayName != nil {
			users[i].DisplayName = *upd.DisplayName
		}
		if upd.Role != nil {
			users[i].Role = *upd.Role
		}
		if upd.PasswordHash != nil {
			users[i].PasswordHash = *upd.PasswordHash
		}
		return s.saveUsers(users)
	}
	return ErrNotFound
}

func (s *CSV) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers()
	for i := range users {
		if users[i].Username != username {
			continue
		}
		if users[i].Role == models.RoleLeader && countLeaders(users) <= 1 {
			return ErrLastLeader
		}
		return s.saveUsers(append(users[:i], users[i+1:]...))
	}
	return ErrNotFound
}

func countLeaders(users []models.User) int {
	n := 0
	for _, u := range users {
		if u.Role == models.RoleLeader {
			n++
		}
	}
	return n
}
