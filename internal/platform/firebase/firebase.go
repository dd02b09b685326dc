// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package firebase initialises the Firebase Admin SDK used by the studio API.

Two products are consumed:

  - Auth: verification of Google sign-in ID tokens presented by the admin panel.
  - Storage: the Cloud Storage bucket holding source media and generated HLS output.

The SDK app is created once at startup and passed explicitly to the consumers.
*/
package firebase

import (
	"context"
	"fmt"
	"os"

	gcs "cloud.google.com/go/storage"
	fbsdk "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config carries the settings needed to reach Firebase.
type Config struct {
	ProjectID       string
	CredentialsPath string
	StorageBucket   string
}

// App wraps the Firebase SDK app.
type App struct {
	app    *fbsdk.App
	bucket string
}

// NewApp creates the SDK app. An empty credentials path falls back to
// Application Default Credentials (the Cloud Run service account).
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	var options []option.ClientOption

	if cfg.CredentialsPath != "" {
		if _, err := os.Stat(cfg.CredentialsPath); err != nil {
			return nil, fmt.Errorf("firebase: credentials file not found: %s: %w", cfg.CredentialsPath, err)
		}
		options = append(options, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := fbsdk.NewApp(ctx, &fbsdk.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to initialize app: %w", err)
	}

	return &App{app: app, bucket: cfg.StorageBucket}, nil
}

// Auth returns the Firebase Auth client.
func (app *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := app.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to get auth client: %w", err)
	}
	return client, nil
}

// Bucket returns the configured Cloud Storage bucket handle.
func (app *App) Bucket(ctx context.Context) (*gcs.BucketHandle, error) {
	client, err := app.app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to get storage client: %w", err)
	}

	bucket, err := client.Bucket(app.bucket)
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to open bucket %q: %w", app.bucket, err)
	}
	return bucket, nil
}
