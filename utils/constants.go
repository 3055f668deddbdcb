package utils

import (
	"time"
)

// Session constants
const (
	// OperatorSessionTTL is the time-to-live for operator sessions (1 hour)
	OperatorSessionTTL = 1 * time.Hour

	// SessionCookieName is the cookie carrying the operator session token
	SessionCookieName = "session_token"

	// SessionHeaderName is the header alternative to the session cookie
	SessionHeaderName = "X-Session-Token"
)

// Tracking constants
const (
	// GeoUnknown is the sentinel value for unresolved geolocation fields
	GeoUnknown = "N/A"

	// DirectReferer marks clicks that arrived without a Referer header
	DirectReferer = "Direct"

	// DefaultTrackingPrefix is the path prefix under which masked links are served
	DefaultTrackingPrefix = "r"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request-scoped context keys used for observability
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)
