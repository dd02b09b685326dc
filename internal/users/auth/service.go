// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/ctxutil"
	"github.com/taibuivan/stonemedia/internal/platform/sec"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
)

// Service implements admin sign-in and allowlist management.
type Service struct {
	verifier  IdentityVerifier
	allowlist Allowlist
	tokens    TokenProvider
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new auth [Service].
func NewService(verifier IdentityVerifier, allowlist Allowlist, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		verifier:  verifier,
		allowlist: allowlist,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// # Sign-in

/*
SignIn exchanges an identity-provider token for an API session.

Description: The email must be verified by the provider and present on the
allowlist. Matching is case-insensitive.

Parameters:
  - context: context.Context
  - idToken: string

Returns:
  - Session: Signed session token with its role
  - error: Unauthorized for a bad token, Forbidden when not allowlisted
*/
func (service *Service) SignIn(context context.Context, idToken string) (Session, error) {
	if idToken == "" {
		return Session{}, validate.RequiredError(FieldIDToken, "ID token is required")
	}

	identity, err := service.verifier.VerifyIDToken(context, idToken)
	if err != nil {
		service.logger.Warn("admin_sign_in_rejected", slog.String("reason", "invalid_token"), slog.String("error", err.Error()))
		return Session{}, apperr.Unauthorized("Invalid or expired sign-in token")
	}

	email := NormalizeEmail(identity.Email)
	if email == "" || !identity.EmailVerified {
		return Session{}, apperr.Forbidden("email is not verified")
	}

	role, allowed, err := service.allowlist.Role(context, email)
	if err != nil {
		return Session{}, err
	}
	if !allowed {
		service.logger.Warn("admin_sign_in_rejected", slog.String("reason", "not_allowlisted"), slog.String("email", email))
		return Session{}, apperr.Forbidden("email is not on the admin allowlist")
	}

	token, err := service.tokens.GenerateAccessToken(identity.UID, email, string(role), constants.AdminSessionTTL)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}

	service.logger.Info("admin_signed_in", slog.String("email", email), slog.String("role", string(role)))

	return Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   service.now().Add(constants.AdminSessionTTL),
		Email:       email,
		Role:        role,
	}, nil
}

// # Allowlist Management

// Members returns every allowlist entry.
func (service *Service) Members(context context.Context) ([]Member, error) {
	return service.allowlist.List(context)
}

/*
Grant allowlists an email with a role, replacing any previous role.

Parameters:
  - context: context.Context
  - email: string
  - role: sec.UserRole

Returns:
  - Member: The stored entry
  - error: Validation or storage errors
*/
func (service *Service) Grant(context context.Context, email string, role sec.UserRole) (Member, error) {
	email = NormalizeEmail(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	validator.Custom(FieldRole, !role.IsValid(), "Role must be admin or editor")
	if err := validator.Err(); err != nil {
		return Member{}, err
	}

	if err := service.allowlist.Grant(context, email, role); err != nil {
		return Member{}, err
	}

	service.logger.Info("allowlist_granted",
		slog.String("email", email),
		slog.String("role", string(role)),
		slog.String("actor", ctxutil.Actor(context)),
	)
	return Member{Email: email, Role: role}, nil
}

// Revoke removes an email from the allowlist. Operators cannot revoke themselves.
func (service *Service) Revoke(context context.Context, email string) error {
	email = NormalizeEmail(email)

	if claims := ctxutil.GetAuthUser(context); claims != nil && NormalizeEmail(claims.Email) == email {
		return apperr.Conflict("You cannot revoke your own access")
	}

	if err := service.allowlist.Revoke(context, email); err != nil {
		return err
	}

	service.logger.Info("allowlist_revoked",
		slog.String("email", email),
		slog.String("actor", ctxutil.Actor(context)),
	)
	return nil
}

/*
Seed grants the admin role to every configured email.

Description: Runs at startup so the operators named in ADMIN_EMAILS can
always sign in. Existing entries are overwritten with admin.
*/
func (service *Service) Seed(context context.Context, emails []string) error {
	for _, raw := range emails {
		email := NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if err := service.allowlist.Grant(context, email, sec.RoleAdmin); err != nil {
			return err
		}
	}

	service.logger.Info("allowlist_seeded", slog.Int("count", len(emails)))
	return nil
}
