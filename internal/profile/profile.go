// Package profile manages the locally stored Cortex connection profiles.
//
// A profile is a named set of connection parameters (API URL, account,
// username) plus the token obtained when the profile was configured. The
// password used to obtain the token is never stored. Profiles live in a
// single YAML file, by default ~/.cortex/config, written with mode 0600.
//
// PROFILE FILE LAYOUT:
//
//	currentProfile: default
//	compatPolicy: warn
//	profiles:
//	  default:
//	    url: https://api.example.com
//	    account: acme
//	    username: jdoe
//	    token: eyJhbGciOi...
//
// Exactly one profile is current whenever the file holds at least one
// profile. Commands resolve the current profile unless --profile overrides it.
package profile

import (
	"time"

	"github.com/cognitivescale/cortex-cli/internal/validate"
	"github.com/golang-jwt/jwt/v4"
)

// Profile is one named set of connection parameters.
type Profile struct {
	Name     string `yaml:"-"`
	URL      string `yaml:"url" validate:"required,url"`
	Account  string `yaml:"account" validate:"required"`
	Username string `yaml:"username" validate:"required"`
	Token    string `yaml:"token,omitempty"`
}

// Validate checks the profile's name and connection fields.
func (p *Profile) Validate() error {
	if err := validate.ProfileNameFormat(p.Name); err != nil {
		return err
	}
	if err := validate.ValidateStruct(p); err != nil {
		return err
	}
	_, err := validate.APIURL(p.URL)
	return err
}

// TokenExpired reports whether the stored token carries an exp claim in the
// past. The token is parsed without signature verification; the API is the
// authority on validity, this only catches the obvious case before a call.
// Tokens that are not JWTs or have no exp claim are treated as unexpired.
func (p *Profile) TokenExpired(now time.Time) bool {
	if p.Token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.Token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}

// Summary is the printable view of a profile. It deliberately has no
// credential fields.
type Summary struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Account  string `yaml:"account" json:"account"`
	Username string `yaml:"username" json:"username"`
	Current  bool   `yaml:"current" json:"current"`
}

// Summarize returns the credential-free view of the profile.
func (p *Profile) Summarize(current bool) Summary {
	return Summary{
		Name:     p.Name,
		URL:      p.URL,
		Account:  p.Account,
		Username: p.Username,
		Current:  current,
	}
}
