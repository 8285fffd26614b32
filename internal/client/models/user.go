// Package models defines the data exchanged with the recipe API and the
// client-side state projections built from it.
package models

// UserSummary is the server's read-only projection of the signed-in user.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
}

// DisplayName prefers the first name and falls back to the username.
func (u UserSummary) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the full profile sent to /auth/register.
type Registration struct {
	Username              string `json:"username"`
	Email                 string `json:"email"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Password              string `json:"password"`
	ConsentMarketing      bool   `json:"consent_marketing"`
	ConsentAnalytics      bool   `json:"consent_analytics"`
	DataProcessingConsent bool   `json:"data_processing_consent"`
}

// AuthResult is the /auth/login response.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

// Session is the client's authentication state. User is set only while
// Token is set and was last validated successfully.
type Session struct {
	Token string
	User  *UserSummary
}

// Active reports whether a validated user is signed in.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}
