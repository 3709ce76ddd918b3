// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Content Rules: slug probing and write retry bounds, field length limits.

Values that operators tune at runtime live in the config package instead.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sitecms-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 60 * time.Second

	// UploadTimeout replaces the read, write and request deadlines on file uploads.
	UploadTimeout = 10 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// HealthCheckTimeout bounds each dependency probe of the readiness endpoint.
	HealthCheckTimeout = 2 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Content Rules

const (
	// MaxSlugProbes bounds how many numbered candidates the slug generator tries.
	MaxSlugProbes = 1000

	// MaxWriteAttempts bounds the create/update retries after a concurrent slug claim.
	MaxWriteAttempts = 5

	// MaxTitleLength is the maximum title length in characters.
	MaxTitleLength = 500

	// MaxSEOTitleLength is the maximum SEO title length in characters.
	MaxSEOTitleLength = 200

	// MaxSEODescriptionLength is the maximum SEO description length in characters.
	MaxSEODescriptionLength = 500

	// MaxUploadBytes caps multipart media uploads.
	MaxUploadBytes = 32 << 20

	// MaxMediaTextLength bounds media alt text and captions.
	MaxMediaTextLength = 1000

	// MediaKeyPrefix is the object store folder for uploaded files.
	MediaKeyPrefix = "media"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json; charset=utf-8"
	BearerPrefix    = "Bearer "
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCMS = "cms"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixContentSlug keys published content by locale, type and slug.
	RedisPrefixContentSlug = "cms:content:slug:"
)
