package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"golang.org/x/term"
)

// Prompter collects interactive input for configure.
type Prompter interface {
	// Prompt asks for a value, returning defaultValue on an empty answer.
	Prompt(label, defaultValue string) (string, error)
	// Password asks for a secret without echoing it.
	Password(label string) (string, error)
}

// TerminalPrompter prompts on the controlling terminal using readline for
// line editing and x/term for password input.
type TerminalPrompter struct {
	in  *os.File
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading from in and writing prompts to out.
func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

// Prompt reads one line with readline.
func (p *TerminalPrompter) Prompt(label, defaultValue string) (string, error) {
	prompt := label + ": "
	if defaultValue != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, defaultValue)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		Stdin:           p.in,
		Stdout:          p.out,
		Stderr:          p.out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", errdefs.Internal("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", errdefs.Usage("configure aborted")
		}
		return "", errdefs.Internal("failed to read %s: %w", strings.ToLower(label), err)
	}

	if line = strings.TrimSpace(line); line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// Password reads a secret with echo disabled. It needs a terminal; scripts
// pass --password instead.
func (p *TerminalPrompter) Password(label string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return "", errdefs.Usage("no terminal available for the password prompt (use --password)")
	}

	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", errdefs.Internal("failed to read password: %w", err)
	}
	return string(secret), nil
}
