// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Directory Limits: per-entity caps on images and genres, upload limits.
  - Headers: names shared by the middleware chain.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tcupboard-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Multipart uploads of ten images need more than a JSON body.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// ImportTimeout bounds one full calendar import run.
	ImportTimeout = 2 * time.Minute
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Directory Limits

const (
	// MaxImagesPerEntity caps the merged image list of an act.
	MaxImagesPerEntity = 10

	// MaxGenres caps the genre list of an act.
	MaxGenres = 3

	// MaxUploadFiles is the number of files accepted by one upload request.
	MaxUploadFiles = 10

	// MaxUploadFileBytes is the per-file upload size limit (5 MiB).
	MaxUploadFileBytes = 5 << 20

	// MaxMultipartMemory is held in memory before multipart parts spill to disk.
	MaxMultipartMemory = 8 << 20

	// MaxNameLength bounds act and venue names.
	MaxNameLength = 200
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldSkipped = "skipped"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Keys (Cache Taxonomy)

const (
	// RedisKeyActNameIndex holds normalised act name -> act id.
	RedisKeyActNameIndex = "directory:act_name_index"

	// RedisKeyActNameIndexReady marks the index as fully warmed. It carries the TTL.
	RedisKeyActNameIndexReady = "directory:act_name_index:ready"
)
