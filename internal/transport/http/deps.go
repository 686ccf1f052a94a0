package http

import (
	"context"

	"github.com/somsu123/peerpath-final/internal/domain"
	"github.com/somsu123/peerpath-final/internal/infrastructure/mail"
)

// UserRepository is the minimal interface the router requires from the
// credential store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetOTP(ctx context.Context, email, code string, expiresAt int64) error
	ConsumeOTP(ctx context.Context, email, code string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo UserRepository
	Mailer   mail.Mailer
}
