package user

import "context"

// UserRepository is the credential-store contract the attendance core
// consumes: lookup by id and by external employee code, both of which may
// report not-found.
type UserRepository interface {
	// Create persists a new user. The email and employee code uniqueness
	// invariants are enforced here.
	Create(ctx context.Context, newUser User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (User, error)

	// ListByRole returns all users with the given role.
	ListByRole(ctx context.Context, role Role) ([]User, error)

	// CountByRole counts users with the given role.
	CountByRole(ctx context.Context, role Role) (int64, error)
}
