package auth

import (
	"context"

	"github.com/mmynk/together/internal/models"
)

// Authenticator defines the interface for admin console authentication.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// CreateStaff creates a user that may sign in to the admin console.
	CreateStaff(ctx context.Context, username, email, credential string) (*models.User, error)

	// Authenticate verifies the credentials of a staff user and returns it.
	// Non-staff users are rejected like wrong passwords.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
