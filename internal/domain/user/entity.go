package user

import "time"

type Role string

const (
	RoleManager  Role = "manager"  // Can view team-wide records and exports
	RoleEmployee Role = "employee" // Regular employee
)

// User is the credential-store identity an attendance record points at.
// The attendance core references users by ID and never owns them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeCode *string
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
