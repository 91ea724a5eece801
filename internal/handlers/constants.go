package handlers

const (
	// maxBodyBytes bounds JSON request bodies
	maxBodyBytes = 1 << 20

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests, please try again later"
	ErrUserNotFound        = "User not found"
	ErrConcurrentUpdate    = "Your data was changed elsewhere, please retry"
	ErrInternalServerError = "Internal server error"
)
