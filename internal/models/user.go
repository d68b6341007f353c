package models

type Role string

const (
	RoleLeader   Role = "lider"
	RoleEmployee Role = "funcionario"
)

func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleEmployee
}

// Label is the human-facing name shown on screens.
func (r Role) Label() string {
	if r == RoleLeader {
		return "Líder"
	}
	return "Funcionário"
}

// ID is only meaningful on the database backend, where it preserves
// insertion order. The CSV backend keys users by username and leaves it zero.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	DisplayName  string `gorm:"size:100"`
}
