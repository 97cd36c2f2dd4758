package domain

import "testing"

func TestSessionAuthenticated(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected bool
	}{
		{
			name:     "empty session",
			session:  Session{},
			expected: false,
		},
		{
			name:     "token without user",
			session:  Session{AccessToken: "tok"},
			expected: false,
		},
		{
			name:     "user without token",
			session:  Session{User: &User{Username: "ana"}},
			expected: false,
		},
		{
			name: "complete session",
			session: Session{
				AccessToken:  "tok",
				RefreshToken: "ref",
				User:         &User{Username: "ana"},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Authenticated(); got != tt.expected {
				t.Errorf("Authenticated() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSessionValidate(t *testing.T) {
	valid := []Session{
		{},
		{RefreshToken: "ref"},
		{AccessToken: "tok", User: &User{Username: "ana"}},
		{AccessToken: "tok", RefreshToken: "ref", User: &User{Username: "ana"}},
	}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, expected nil", s, err)
		}
	}

	invalid := []Session{
		{AccessToken: "tok"},
		{User: &User{Username: "ana"}},
		{AccessToken: "tok", User: &User{}},
	}
	for _, s := range invalid {
		if err := s.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, expected pairing error", s)
		}
	}
}

func TestSessionWithAccessToken(t *testing.T) {
	s := Session{
		AccessToken:  "old",
		RefreshToken: "ref",
		User:         &User{Username: "ana"},
	}

	renewed := s.WithAccessToken("new")

	if renewed.AccessToken != "new" {
		t.Errorf("AccessToken = %q, expected %q", renewed.AccessToken, "new")
	}
	if renewed.RefreshToken != "ref" || renewed.User == nil || renewed.User.Username != "ana" {
		t.Error("WithAccessToken must retain refresh token and user identity")
	}
	if s.AccessToken != "old" {
		t.Error("WithAccessToken must not mutate the receiver")
	}
	if err := renewed.Validate(); err != nil {
		t.Errorf("renewed session invalid: %v", err)
	}
}
