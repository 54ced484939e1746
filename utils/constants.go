package utils

import (
	"time"
)

// ContextKey is the type used for request-scoped context values.
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	IPAddressKey ContextKey = "ip_address"
	UserAgentKey ContextKey = "user_agent"
	EndpointKey  ContextKey = "endpoint"
)

// Token and session time constants
const (
	// AccessTokenTTL is the default time-to-live for admin access tokens (7 days)
	AccessTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Upload constants
const (
	// MaxUploadSize caps Excel uploads (5MB)
	MaxUploadSize = int64(5 * 1024 * 1024)
)
