// Package compat checks the CLI version against the version range the Cortex
// API advertises for it.
//
// The API reports the minimum and maximum CLI versions it accepts and the
// latest published CLI version. The guard runs before every task command:
//
//   - outside [min, max]: incompatible. Policy "error" stops the command with
//     a compatibility error, policy "warn" logs and lets it run.
//   - latest newer than current: a non-fatal "update available" warning.
//   - the API cannot be asked, or reports versions that do not parse: a
//     warning, and the command runs. The check never blocks on its own failure.
//
// Callers skip the guard entirely when --no-compat is given.
package compat

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"golang.org/x/mod/semver"
)

// Policy decides how an incompatible API version is handled.
type Policy string

const (
	// PolicyError turns incompatibility into a fatal error.
	PolicyError Policy = "error"
	// PolicyWarn only logs incompatibility.
	PolicyWarn Policy = "warn"
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyError:
		return PolicyError, nil
	case PolicyWarn:
		return PolicyWarn, nil
	default:
		return "", errdefs.Usage("invalid compatibility policy '%s' - valid values are: error, warn", s)
	}
}

// Compatibility is the version range the API accepts for the CLI.
type Compatibility struct {
	Name          string `json:"name"`
	MinVersion    string `json:"minVersion"`
	MaxVersion    string `json:"maxVersion,omitempty"`
	LatestVersion string `json:"latestVersion,omitempty"`
}

// Source reports the API's compatibility range.
type Source interface {
	GetCompatibility(ctx context.Context) (*Compatibility, error)
}

// Guard compares the running CLI version with a Source.
type Guard struct {
	Current string
	Policy  Policy

	// Warn receives non-fatal findings; defaults to logging.Warn.
	Warn func(format string, args ...any)
}

// NewGuard creates a guard for the given CLI version and policy.
func NewGuard(current string, policy Policy) *Guard {
	return &Guard{Current: current, Policy: policy, Warn: logging.Warn}
}

func (g *Guard) warn(format string, args ...any) {
	if g.Warn != nil {
		g.Warn(format, args...)
	}
}

// Check asks the source for the accepted range and applies the policy.
// A nil error means the command may run.
func (g *Guard) Check(ctx context.Context, src Source) error {
	current := canonical(g.Current)
	if current == "" {
		g.warn("Skipping compatibility check: CLI version '%s' is not a semantic version", g.Current)
		return nil
	}

	compat, err := src.GetCompatibility(ctx)
	if err != nil {
		g.warn("Skipping compatibility check: %v", err)
		return nil
	}
	logging.Debug("API accepts CLI versions min=%q max=%q latest=%q",
		compat.MinVersion, compat.MaxVersion, compat.LatestVersion)

	if reason := g.incompatibility(current, compat); reason != "" {
		msg := fmt.Sprintf("Cortex CLI version %s is incompatible with the API: %s. Use --no-compat to skip this check", g.Current, reason)
		if g.Policy == PolicyWarn {
			g.warn("%s", msg)
		} else {
			return errdefs.Compatibility("%s", msg)
		}
	}

	if latest := canonical(compat.LatestVersion); latest != "" && semver.Compare(latest, current) > 0 {
		g.warn("A newer Cortex CLI version is available: %s (current %s)", strings.TrimPrefix(latest, "v"), g.Current)
	}
	return nil
}

// incompatibility returns why current falls outside the advertised range,
// or "" when it is inside or the range cannot be interpreted.
func (g *Guard) incompatibility(current string, compat *Compatibility) string {
	if compat.MinVersion != "" {
		lower := canonical(compat.MinVersion)
		if lower == "" {
			g.warn("Ignoring unparseable minimum version '%s' reported by the API", compat.MinVersion)
		} else if semver.Compare(current, lower) < 0 {
			return fmt.Sprintf("requires at least %s", compat.MinVersion)
		}
	}

	if compat.MaxVersion != "" {
		upper := canonical(compat.MaxVersion)
		if upper == "" {
			g.warn("Ignoring unparseable maximum version '%s' reported by the API", compat.MaxVersion)
		} else if semver.Compare(current, upper) > 0 {
			return fmt.Sprintf("supports at most %s", compat.MaxVersion)
		}
	}
	return ""
}

// canonical normalizes "1.2.3" or "v1.2.3" to the "v"-prefixed form that
// x/mod/semver expects, returning "" for invalid input.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
