// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier implements [IdentityVerifier] with the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier wraps a Firebase Auth client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// VerifyIDToken checks signature, audience and expiry of a Google sign-in token.
func (verifier *FirebaseVerifier) VerifyIDToken(context context.Context, idToken string) (Identity, error) {
	token, err := verifier.client.VerifyIDToken(context, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("firebase_verify_id_token_failed: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)

	return Identity{UID: token.UID, Email: email, EmailVerified: verified}, nil
}

// ErrProviderNotConfigured is returned by [UnconfiguredVerifier].
var ErrProviderNotConfigured = errors.New("identity provider is not configured")

// UnconfiguredVerifier rejects every sign-in. It stands in when no Firebase
// project is configured so the API still serves public routes.
type UnconfiguredVerifier struct{}

func (UnconfiguredVerifier) VerifyIDToken(context.Context, string) (Identity, error) {
	return Identity{}, ErrProviderNotConfigured
}
