// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

// # Allowlist Data Access

// Allowlist defines the data access contract for admin access policy.
type Allowlist interface {

	/*
		Role returns the role granted to an email.

		Parameters:
		  - context: context.Context
		  - email: string (Normalized)

		Returns:
		  - sec.UserRole: Granted role
		  - bool: False when the email is not allowlisted
		  - error: Connectivity errors
	*/
	Role(context context.Context, email string) (sec.UserRole, bool, error)

	// List returns every entry ordered by email.
	List(context context.Context) ([]Member, error)

	// Grant adds or updates an entry.
	Grant(context context.Context, email string, role sec.UserRole) error

	// Revoke removes an entry. It returns NotFound when the email is absent.
	Revoke(context context.Context, email string) error
}

// # Identity Provider

// IdentityVerifier checks ID tokens issued by the identity provider.
type IdentityVerifier interface {
	VerifyIDToken(context context.Context, idToken string) (Identity, error)
}

// # Session Signing

// TokenProvider defines the contract for generating session tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}
