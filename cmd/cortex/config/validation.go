package config

import (
	"strings"
	"time"

	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/cognitivescale/cortex-cli/internal/validate"
)

// Accepted --color values.
const (
	ColorOn  = "on"
	ColorOff = "off"
)

// ValidateGlobalFlags validates the root persistent flags before running any command
func ValidateGlobalFlags(g Global) error {
	if err := logging.ValidateLogLevel(strings.ToUpper(g.LogLevel)); err != nil {
		return errdefs.Usage("invalid --log-level: %v", err)
	}

	if err := validate.ValidatePositiveTimeout(time.Duration(g.Timeout)*time.Second, FlagTimeout); err != nil {
		logging.Error("Invalid timeout %d: %v", g.Timeout, err)
		return errdefs.Usage("--timeout must be a positive number of seconds")
	}

	return nil
}

// ValidateOptions validates the per-command flags shared across commands
func ValidateOptions(o Options) error {
	if o.Has(FlagColor) {
		if err := validate.ValidateOneOf(o.String(FlagColor), FlagColor, ColorOn, ColorOff); err != nil {
			return errdefs.Usage("invalid --color value '%s' - valid values are: on, off", o.String(FlagColor))
		}
	}

	if o.Has(FlagProfile) && o.String(FlagProfile) != "" {
		if err := validate.ProfileNameFormat(o.String(FlagProfile)); err != nil {
			return errdefs.Usage("invalid --profile: %v", err)
		}
	}

	return nil
}
