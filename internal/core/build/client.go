// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package build talks to the external HLS packaging service.

The service is triggered once per build and works asynchronously: an
accepted trigger only means the job was queued. The final outcome reaches
the API through the callback [Report], and the admin panel observes it by
polling the project record with a [Poller].
*/
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
)

// maxResponseBytes caps how much of the build service reply is kept.
const maxResponseBytes = 1 << 20

var (
	// ErrNotConfigured means the endpoint or the shared secret is missing.
	ErrNotConfigured = errors.New("build service endpoint or secret is not configured")

	// ErrUnreachable means the trigger request never got a response.
	ErrUnreachable = errors.New("build service is unreachable")
)

// HTTPDoer describes the HTTP client used to reach the build service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the build service's answer to a trigger.
type Result struct {
	StatusCode int
	OK         bool   // The service's own "ok" acknowledgement
	Error      string // The service's "error" message, if any
	Body       []byte // Raw JSON reply, "{}" when the reply was not JSON
}

// Accepted reports whether the job was queued: HTTP success and ok=true.
func (result Result) Accepted() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300 && result.OK
}

// Client triggers builds on the external service.
type Client struct {
	baseURL string
	secret  string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewClient constructs a build service client. Missing settings are not an
// error here; [Client.Trigger] reports them on use.
func NewClient(baseURL, secret string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		secret:  strings.TrimSpace(secret),
		client:  client,
		logger:  logger,
	}
}

// Configured reports whether both the endpoint and the secret are set.
func (client *Client) Configured() bool {
	return client != nil && client.baseURL != "" && client.secret != ""
}

/*
Trigger asks the build service to package one project.

Description: Sends POST <base>/build with {"projectId": id} and the shared
secret header. Exactly one request is made; there is no retry.

Parameters:
  - ctx: context.Context
  - projectID: string

Returns:
  - Result: The service's reply, whatever its status code
  - error: CONFIGURATION_ERROR wrapping [ErrNotConfigured] or [ErrUnreachable]
*/
func (client *Client) Trigger(ctx context.Context, projectID string) (Result, error) {
	if !client.Configured() {
		return Result{}, apperr.Configuration("Server env missing HLS_BUILDER_URL or BUILD_SECRET", ErrNotConfigured)
	}

	payload, err := json.Marshal(map[string]string{"projectId": projectID})
	if err != nil {
		return Result{}, fmt.Errorf("encode build request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/build", bytes.NewReader(payload))
	if err != nil {
		return Result{}, apperr.Configuration("Build service URL is invalid", fmt.Errorf("%w: %v", ErrNotConfigured, err))
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(constants.HeaderBuildSecret, client.secret)

	response, err := client.client.Do(request)
	if err != nil {
		client.logger.Error("build_trigger_unreachable",
			slog.String("project_id", projectID),
			slog.String("error", err.Error()),
		)
		return Result{}, apperr.Configuration("Build service is unreachable", fmt.Errorf("%w: %v", ErrUnreachable, err))
	}
	defer response.Body.Close()

	result := decodeResult(response)

	client.logger.Info("build_triggered",
		slog.String("project_id", projectID),
		slog.Int("status_code", result.StatusCode),
		slog.Bool("accepted", result.Accepted()),
	)

	return result, nil
}

// decodeResult reads the reply leniently: a non-JSON body becomes "{}".
func decodeResult(response *http.Response) Result {
	result := Result{StatusCode: response.StatusCode, Body: []byte("{}")}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil || !json.Valid(raw) {
		return result
	}
	result.Body = raw

	var acknowledgement struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &acknowledgement); err == nil {
		result.OK = acknowledgement.OK
		result.Error = acknowledgement.Error
	}
	return result
}
