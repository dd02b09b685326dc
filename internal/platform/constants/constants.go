// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and shared-secret headers.
  - Storage: Redis key prefixes for volatile workflow state.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "stonemedia-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Source uploads stream large bodies, so this is generous.
	DefaultReadTimeout = 30 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for ordinary JSON requests.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// StatementTimeout caps a single SQL statement.
	StatementTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// RateLimitRetryAfterSeconds is the Retry-After hint sent with a 429.
	RateLimitRetryAfterSeconds = 1
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "stonemedia.studio"

	// AdminSessionTTL is how long an admin JWT stays valid after Google sign-in.
	AdminSessionTTL = 12 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"

	// HeaderBuildSecret carries the shared secret between this API and the HLS build service.
	HeaderBuildSecret = "x-build-secret"
)

// # JSON Field Identifiers

// Keys of the inline error body written by middleware before a handler runs.
const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Redis Prefixes

const (
	// RedisKeyAdminAllowlist is the hash of lower-cased admin email → role.
	RedisKeyAdminAllowlist = "auth:admin_allowlist"

	// RedisPrefixUploadProgress prefixes the per-project upload progress hash.
	RedisPrefixUploadProgress = "upload:progress:"

	// RedisPrefixUploadLock prefixes the per-project upload in-flight marker.
	RedisPrefixUploadLock = "upload:lock:"
)

// # Publishing Workflow

const (
	// UploadLockTTL bounds how long a crashed upload can block builds.
	UploadLockTTL = 2 * time.Hour

	// UploadProgressTTL is how long finished progress stays readable.
	UploadProgressTTL = 1 * time.Hour

	// OrderGap is the spacing between consecutive project order keys.
	OrderGap = 1000.0
)
