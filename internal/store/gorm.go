package store

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
)

// Gorm is the database-backed store. It keeps the same semantics as the flat
// files, including explicit max+1 id assignment, so switching backends does
// not change observable behavior.
type Gorm struct {
	logger *zap.Logger
	db     *gorm.DB
	now    func() time.Time
}

// NewGorm connects with retries, runs migrations and seeds the bootstrap
// account when no leader exists yet.
func NewGorm(logger *zap.Logger, dialector gorm.Dialector, seed models.User) (*Gorm, error) {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{})
		if err == nil {
			break
		}
		logger.Warn("failed to connect to db",
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		return nil, err
	}

	s := &Gorm{logger: logger, db: db, now: time.Now}
	if err := s.seedLeader(seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Gorm) seedLeader(seed models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleLeader).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := s.db.Create(&seed).Error; err != nil {
		return err
	}
	s.logger.Info("seeded leader account", zap.String("username", seed.Username))
	return nil
}

//
// orders
//

func (s *Gorm) ListOrders(f OrderFilter) ([]models.Order, error) {
	q := s.db.Order("id asc")
	if f.Assignee != "" {
		q = q.Where("assignee = ?", f.Assignee)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Gorm) FindOrder(id int) (*models.Order, error) {
	var o models.Order
	if err := s.db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Gorm) CreateOrder(number, assignee string) (*models.Order, error) {
	var o models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxID int
		if err := tx.Model(&models.Order{}).
			Select("COALESCE(MAX(id), 0)").
			Scan(&maxID).Error; err != nil {
			return err
		}
		o = models.Order{
			ID:       maxID + 1,
			Number:   number,
			Assignee: assignee,
			Status:   models.StatusPending,
		}
		return tx.Create(&o).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Gorm) UpdateAssignee(id int, assignee string) error {
	res := s.db.Model(&models.Order{}).Where("id = ?", id).Update("assignee", assignee)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) DeleteOrder(id int) error {
	res := s.db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ApplyStatus(id int, to models.Status) (*models.Order, error) {
	var o models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := o.ApplyStatus(to, s.now()); err != nil {
			return err
		}
		return tx.Save(&o).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

//
// users
//

func (s *Gorm) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Gorm) FindUser(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Gorm) CreateUser(u models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ?", u.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	return s.db.Create(&u).Error
}

func (s *Gorm) UpdateUser(username string, upd UserUpdate) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("username = ?", username).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if upd.Role != nil && u.Role == models.RoleLeader && *upd.Role != models.RoleLeader {
			n, err := s.leaderCount(tx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return ErrLastLeader
			}
		}
		if upd.DisplayName != nil {
			u.DisplayName = *upd.DisplayName
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if upd.PasswordHash != nil {
			u.PasswordHash = *upd.PasswordHash
		}
		return tx.Save(&u).Error
	})
}

func (s *Gorm) DeleteUser(username string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("username = ?", username).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if u.Role == models.RoleLeader {
			n, err := s.leaderCount(tx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return ErrLastLeader
			}
		}
		return tx.Delete(&u).Error
	})
}

func (s *Gorm) leaderCount(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Model(&models.User{}).Where("role = ?", models.RoleLeader).Count(&n).Error
	return n, err
}
