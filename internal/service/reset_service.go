// Package service provides application business logic (recipes, users, resets, etc.).
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gastronauta/internal/mailer"
	"gastronauta/internal/models"
	"gastronauta/internal/observability"
	"gastronauta/internal/repository"
	"gastronauta/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// ResetService implements the password reset flow. The raw secret is handed
// to the user exactly once, inside the emailed link; only its SHA-256 hash is
// stored.
type ResetService struct {
	userRepo      repository.UserRepository
	mail          mailer.Mailer
	resetLinkBase string
	now           func() time.Time
}

// NewResetService returns a new ResetService.
func NewResetService(userRepo repository.UserRepository, mail mailer.Mailer, resetLinkBase string) *ResetService {
	return &ResetService{
		userRepo:      userRepo,
		mail:          mail,
		resetLinkBase: resetLinkBase,
		now:           time.Now,
	}
}

// generateResetSecret returns the raw secret and its stored hash.
func generateResetSecret() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, hex.EncodeToString(sum[:]), nil
}

// hashResetSecret maps a presented secret to its stored form.
func hashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RequestReset issues a fresh reset secret for the account behind email and
// mails the link. A second request overwrites the first: only the newest
// secret redeems. Returns NotFound for unknown emails; the HTTP layer decides
// whether to reveal that.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		observability.ResetRequests.WithLabelValues("error").Inc()
		return err
	}
	if user == nil {
		observability.ResetRequests.WithLabelValues("unknown_email").Inc()
		return models.NewNotFoundError("User", email)
	}

	raw, hash, err := generateResetSecret()
	if err != nil {
		observability.ResetRequests.WithLabelValues("error").Inc()
		return models.NewInternalError(err)
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, hash, s.now().Add(resetTokenTTL)); err != nil {
		observability.ResetRequests.WithLabelValues("error").Inc()
		return err
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.resetLinkBase, raw)
	if err := s.mail.SendResetLink(ctx, user.Email, user.Username, resetURL); err != nil {
		observability.ResetRequests.WithLabelValues("mail_error").Inc()
		return models.NewInternalError(err)
	}

	observability.ResetRequests.WithLabelValues("sent").Inc()
	return nil
}

// Redeem exchanges a valid reset secret for a new password. Wrong and expired
// secrets are indistinguishable to the caller. On success the stored hash and
// expiry are cleared, so the secret is single-use.
func (s *ResetService) Redeem(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return models.NewInvalidOrExpiredError()
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByValidResetToken(ctx, hashResetSecret(rawToken), s.now())
	if err != nil {
		return err
	}
	if user == nil {
		observability.ResetRequests.WithLabelValues("redeem_rejected").Inc()
		return models.NewInvalidOrExpiredError()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.userRepo.RedeemReset(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	observability.ResetRequests.WithLabelValues("redeemed").Inc()
	return nil
}
