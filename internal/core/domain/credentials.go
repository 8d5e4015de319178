package domain

import "time"

// Credentials holds the Microsoft Entra ID application credentials for a run.
// Either ClientSecret or Username+Password must be set; the secret selects the
// client-credentials grant, the username/password pair the resource-owner
// password grant.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// UsesPasswordGrant reports whether the credentials select the resource-owner
// password grant.
func (c Credentials) UsesPasswordGrant() bool {
	return c.Username != ""
}

// Validate checks that all required fields are present. Presence only, no
// format checks.
func (c Credentials) Validate() error {
	if c.TenantID == "" {
		return ErrMissingTenantID
	}
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.UsesPasswordGrant() {
		if c.Password == "" {
			return ErrMissingPassword
		}
		return nil
	}
	if c.ClientSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// AccessToken is a bearer token acquired for the current run. Tokens are
// never persisted and never reused across runs.
type AccessToken struct {
	Value      string
	AcquiredAt time.Time
}

// IsZero reports whether no token has been acquired.
func (t AccessToken) IsZero() bool {
	return t.Value == ""
}
