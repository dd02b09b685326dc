// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements admin identity for the CMS.

There are no passwords here. An operator signs in with Google on the admin
panel, the resulting Firebase ID token is exchanged for a short-lived API
session, and access is granted only to emails on the allowlist.

# Architecture

  - Identity: a verified Google identity (Firebase ID token).
  - Allowlist: a Redis hash of email → role, seeded from ADMIN_EMAILS and
    editable at runtime without a rebuild.
  - Session: an RS256 JWT carrying email and role.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/stonemedia/internal/platform/sec"
)

// # Domain Entities

// Identity is a verified sign-in presented by the identity provider.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Member is one allowlist entry.
type Member struct {
	Email string       `json:"email"`
	Role  sec.UserRole `json:"role"`
}

// Session is the API session issued after a successful sign-in.
type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Email       string       `json:"email"`
	Role        sec.UserRole `json:"role"`
}

// NormalizeEmail is the allowlist key form of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

const (
	FieldIDToken = "idToken"
	FieldEmail   = "email"
	FieldRole    = "role"
)
