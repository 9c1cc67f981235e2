package auth

import "context"

// AuthService issues and resolves identities for the HTTP layer.
type AuthService interface {
	// Register creates a user and returns it with a fresh token pair.
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)

	// Login verifies credentials and returns the user with a token pair.
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)

	// Me returns the authenticated user resolved from the request claims.
	Me(ctx context.Context) (UserResponse, error)
}
