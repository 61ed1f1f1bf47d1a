package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var validNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ProfileNameFormat validates a profile name. Names contain only
// [A-Za-z0-9_-] and don't start or end with a hyphen or underscore, so they
// stay usable as YAML keys and shell arguments without quoting.
func ProfileNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("profile name '%s' must contain only letters, numbers, hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("profile name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}

// IdentifierFormat validates an opaque job or task ID before it is placed
// into an API path. Path parameters are escaped by the client, so any text
// is accepted except values that would still address a different path
// segment once the server decodes them.
func IdentifierFormat(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if strings.Contains(id, "/") || id == "." || id == ".." {
		return fmt.Errorf("%s '%s' cannot contain '/' or be '.' or '..'", kind, id)
	}
	return nil
}

// APIURL validates a Cortex API base URL: absolute, http or https, with a host.
func APIURL(raw string) (*url.URL, error) {
	if err := ValidateField(raw, "required,url"); err != nil {
		return nil, fmt.Errorf("invalid url '%s'", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url '%s' must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url '%s' has no host", raw)
	}
	return u, nil
}
