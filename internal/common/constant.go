package common

// SessionCookieName is the HttpOnly cookie carrying the signed session token.
const SessionCookieName = "farmai_session"

// Roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// DefaultRedirect is returned by a successful login without a callback URL.
const DefaultRedirect = "/dashboard"
