package adminrepo

import (
	"context"

	"github.com/tripmatch-app/tripmatch-api/internal/domain"
)

// Repository reads admin grants. Grants are managed out of band; the core
// only ever checks membership.
type Repository interface {
	// IsAdmin reports whether user holds moderation privilege. A missing
	// grant is the normal false case, not an error.
	IsAdmin(ctx context.Context, user domain.UserID) (bool, error)
}
