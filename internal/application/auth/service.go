// Package auth implements the OTP-based signup and login flow.
//
// Every path through register, login and resend ends in the same place: a
// fresh 6-digit code attached to the credential record and mailed out, with
// the client told to come back via verify-otp. Verification is the only
// operation that yields an authenticated identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/somsu123/peerpath-final/internal/domain"
	"github.com/somsu123/peerpath-final/internal/infrastructure/mail"
	"github.com/somsu123/peerpath-final/internal/pkg/id"
	"github.com/somsu123/peerpath-final/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// E-mail subjects, one per issuing operation.
const (
	subjectRegister = "Verify your PeerPath account 🔐"
	subjectLogin    = "Login Verification OTP 🔐"
	subjectResend   = "Resend Verification OTP 🔐"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (next string, err error)
	CheckUser(ctx context.Context, email string) (exists bool, err error)
	Login(ctx context.Context, req LoginRequest) (next string, err error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.UserIdentity, error)
	ResendOTP(ctx context.Context, email string) (next string, err error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetOTP(ctx context.Context, email, code string, expiresAt int64) error
	ConsumeOTP(ctx context.Context, email, code string) error
}

type service struct {
	repo   userStore
	mailer mail.Mailer
	// spawn dispatches the fire-and-forget e-mail send. Tests replace it
	// with an inline call.
	spawn func(fn func())
}

type ServiceDeps struct {
	UserRepo userStore
	Mailer   mail.Mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.UserRepo,
		mailer: deps.Mailer,
		spawn:  func(fn func()) { go fn() },
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if len(req.Password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrBadRequest)
	}
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", fmt.Errorf("user already exists, please login: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return "", err
	}
	if err := s.issueAndSend(ctx, email, subjectRegister); err != nil {
		return "", err
	}
	return domain.NextVerifyOTP, nil
}

func (s *service) CheckUser(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, error) {
	email := domain.NormalizeEmail(req.Email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrBadRequest)
	}
	// Login never completes in one step: a fresh OTP replaces any live one,
	// even for an already verified account.
	if err := s.issueAndSend(ctx, email, subjectLogin); err != nil {
		return "", err
	}
	return domain.NextVerifyOTP, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.UserIdentity, error) {
	email := domain.NormalizeEmail(req.Email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Exact string comparison; a consumed challenge (empty code) can never
	// match a required non-empty submission.
	if !u.HasOTP() || u.OTPCode != req.OTP {
		return nil, fmt.Errorf("invalid OTP: %w", domain.ErrBadRequest)
	}
	if time.Now().Unix() >= u.OTPExpiresAt {
		return nil, fmt.Errorf("OTP expired: %w", domain.ErrBadRequest)
	}
	// Conditional on the stored code: a concurrent re-issue loses the race
	// here and surfaces as an invalid OTP.
	if err := s.repo.ConsumeOTP(ctx, email, req.OTP); err != nil {
		return nil, err
	}
	return &domain.UserIdentity{Name: u.Name, Email: u.Email}, nil
}

func (s *service) ResendOTP(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if _, err := s.repo.GetByEmail(ctx, email); err != nil {
		return "", err
	}
	if err := s.issueAndSend(ctx, email, subjectResend); err != nil {
		return "", err
	}
	return domain.NextVerifyOTP, nil
}

// issueAndSend draws a fresh code, commits it to the record (overwriting any
// outstanding challenge) and dispatches the e-mail best-effort. By the time
// the mail goes out the code is already stored, so a provider outage never
// fails the request — delivery errors are logged and swallowed.
func (s *service) issueAndSend(ctx context.Context, email, subject string) error {
	code, expiresAt, err := otp.New()
	if err != nil {
		return err
	}
	if err := s.repo.SetOTP(ctx, email, code, expiresAt); err != nil {
		return err
	}
	body := otpEmailBody(code)
	s.spawn(func() {
		if err := s.mailer.SendEmail(email, subject, body); err != nil {
			slog.Error("OTP email failed", "to", email, "err", err)
		}
	})
	return nil
}

func otpEmailBody(code string) string {
	return fmt.Sprintf(`Hello,

To complete your verification, please use the One-Time Password (OTP) below:

Your OTP: %s

This OTP is valid for the next 10 minutes.
Please do not share this code with anyone for security reasons.
If you did not request this verification, you can safely ignore this email.

Warm regards,
Team PeerPath`, code)
}
