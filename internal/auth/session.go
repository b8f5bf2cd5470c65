package auth

// SessionData represents the authenticated session context of an auth API request
type SessionData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
