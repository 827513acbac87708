package domain

import "time"

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleCourtOwner UserRole = "court_owner"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanManageCourt reports whether the user may act on behalf of the sport
// center that owns a court.
func (u *User) CanManageCourt(centerOwnerID int64) bool {
	return u.Role == RoleAdmin || (u.Role == RoleCourtOwner && u.ID == centerOwnerID)
}
