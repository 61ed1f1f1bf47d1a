package handlers

import (
	"context"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	internalconfig "github.com/cognitivescale/cortex-cli/internal/config"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/cognitivescale/cortex-cli/internal/profile"
	"github.com/cognitivescale/cortex-cli/internal/validate"
)

// ConfigureCommand creates or updates a profile. Connection fields come from
// flags, or from prompts when a flag is absent; the password is exchanged for
// a token and never stored.
type ConfigureCommand struct {
	env *Env
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand(env *Env) *ConfigureCommand {
	return &ConfigureCommand{env: env}
}

// Execute runs the configure flow for --profile (default "default").
func (c *ConfigureCommand) Execute(ctx context.Context, inv *config.Invocation) error {
	name := inv.Options.String(config.FlagProfile)
	if name == "" {
		name = internalconfig.DefaultProfileName
	}
	if err := validate.ProfileNameFormat(name); err != nil {
		return errdefs.Usage("invalid profile name: %v", err)
	}

	f, err := c.env.Store.Load()
	if err != nil {
		return err
	}

	existing := f.Profiles[name]
	if existing == nil {
		existing = &profile.Profile{}
		logging.Info("Creating profile '%s'", name)
	} else {
		logging.Info("Updating profile '%s'", name)
	}

	p := &profile.Profile{Name: name}
	if p.URL, err = c.value(inv, config.FlagURL, "Cortex URL", existing.URL); err != nil {
		return err
	}
	if p.Account, err = c.value(inv, config.FlagAccount, "Account", existing.Account); err != nil {
		return err
	}
	if p.Username, err = c.value(inv, config.FlagUsername, "Username", existing.Username); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return errdefs.Usage("invalid profile: %v", err)
	}

	password, err := c.password(inv)
	if err != nil {
		return err
	}

	token, err := c.env.NewClient(p.URL, "").Authenticate(ctx, p.Account, p.Username, password)
	if err != nil {
		return err
	}
	p.Token = token

	f.Put(p)
	if err := c.env.Store.Save(f); err != nil {
		return err
	}

	logging.Success("Profile '%s' saved to %s", name, c.env.Store.Path())
	c.env.Formatter(inv).Message("Configuration for profile '%s' saved.", name)
	return nil
}

// value returns the flag value when given, otherwise prompts with the
// existing value as default.
func (c *ConfigureCommand) value(inv *config.Invocation, flag, label, current string) (string, error) {
	if v := inv.Options.String(flag); v != "" {
		return v, nil
	}
	if c.env.Prompter == nil {
		if current != "" {
			return current, nil
		}
		return "", errdefs.Usage("missing --%s", flag)
	}
	return c.env.Prompter.Prompt(label, current)
}

func (c *ConfigureCommand) password(inv *config.Invocation) (string, error) {
	if v := inv.Options.String(config.FlagPassword); v != "" {
		return v, nil
	}
	if c.env.Prompter == nil {
		return "", errdefs.Usage("missing --%s", config.FlagPassword)
	}

	pw, err := c.env.Prompter.Password("Password")
	if err != nil {
		return "", err
	}
	if err := validate.ValidateRequiredString(pw, "password"); err != nil {
		return "", errdefs.Usage("%v", err)
	}
	return pw, nil
}

// ListProfilesCommand prints every profile name with the current one marked.
type ListProfilesCommand struct {
	env *Env
}

// NewListProfilesCommand creates the configure list command.
func NewListProfilesCommand(env *Env) *ListProfilesCommand {
	return &ListProfilesCommand{env: env}
}

// Execute lists profiles in name order.
func (c *ListProfilesCommand) Execute(ctx context.Context, inv *config.Invocation) error {
	f, err := c.env.Store.Load()
	if err != nil {
		return err
	}

	summaries := make([]profile.Summary, 0, len(f.Profiles))
	for _, name := range f.Names() {
		summaries = append(summaries, f.Profiles[name].Summarize(name == f.CurrentProfile))
	}
	c.env.Formatter(inv).Profiles(summaries)
	return nil
}

// DescribeProfileCommand prints one profile without its credentials.
type DescribeProfileCommand struct {
	env *Env
}

// NewDescribeProfileCommand creates the configure describe command.
func NewDescribeProfileCommand(env *Env) *DescribeProfileCommand {
	return &DescribeProfileCommand{env: env}
}

// Execute prints the profile named by the profileName argument as YAML.
func (c *DescribeProfileCommand) Execute(ctx context.Context, inv *config.Invocation) error {
	f, err := c.env.Store.Load()
	if err != nil {
		return err
	}

	name := inv.Arg(ParamProfileName)
	p, err := f.Get(name)
	if err != nil {
		return err
	}
	return c.env.Formatter(inv).YAML(p.Summarize(name == f.CurrentProfile))
}

// SetProfileCommand makes an existing profile current.
type SetProfileCommand struct {
	env *Env
}

// NewSetProfileCommand creates the configure set-profile command.
func NewSetProfileCommand(env *Env) *SetProfileCommand {
	return &SetProfileCommand{env: env}
}

// Execute marks the profileName argument current. Unknown names fail with
// NotFound and the file is not rewritten.
func (c *SetProfileCommand) Execute(ctx context.Context, inv *config.Invocation) error {
	f, err := c.env.Store.Load()
	if err != nil {
		return err
	}

	name := inv.Arg(ParamProfileName)
	if err := f.SetCurrent(name); err != nil {
		return err
	}
	if err := c.env.Store.Save(f); err != nil {
		return err
	}

	c.env.Formatter(inv).Message("Current profile set to '%s'.", name)
	return nil
}
