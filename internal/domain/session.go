// Package domain contains the core types shared by the dashboard client,
// the web UI and the CLI.
package domain

// User is the minimal identity attached to a session. The token endpoint
// returns only the token pair, so the username is the one the operator
// submitted at login.
type User struct {
	Username string `json:"username" yaml:"username"`
}

// Session holds the credentials and identity of an authenticated operator.
// AccessToken and User are set together or not at all; RefreshToken may
// outlive the access token between silent renewals.
type Session struct {
	AccessToken  string `json:"access_token" yaml:"access_token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
	User         *User  `json:"user,omitempty" yaml:"user,omitempty"`
}

// Authenticated reports whether the session carries a usable identity.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil && s.User.Username != ""
}

// Empty reports whether no session fields are set.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Validate checks the token/identity pairing invariant: an access token
// without a user (or the reverse) is never a valid persisted state.
func (s Session) Validate() error {
	hasToken := s.AccessToken != ""
	hasUser := s.User != nil && s.User.Username != ""
	if hasToken != hasUser {
		return NewValidationError("INCONSISTENT_SESSION",
			"access token and user identity must be set together", nil)
	}
	return nil
}

// WithAccessToken returns a copy of the session carrying a renewed access
// token. Used by the silent refresh path; all other fields are retained.
func (s Session) WithAccessToken(token string) Session {
	s.AccessToken = token
	return s
}
