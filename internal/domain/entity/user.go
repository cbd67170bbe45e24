package entity

import "time"

// Roles válidos para User.
const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPERADMIN"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Username     string // único
	Email        string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // USER, SUPERADMIN
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
