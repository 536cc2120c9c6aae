package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MKhiriev/go-cert-flow/internal/adapter"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
)

type command struct {
	usage string
	// authed commands need a stored session token.
	authed bool
	run    func(ctx context.Context, args []string) error
}

type App struct {
	adapter adapter.ServerAdapter
	tokens  TokenStore
	prompt  PasswordPrompter
	out     io.Writer
	logger  *logger.Logger

	commands map[string]command
}

func NewApp(serverAdapter adapter.ServerAdapter, tokens TokenStore, prompt PasswordPrompter, out io.Writer, logger *logger.Logger) *App {
	a := &App{
		adapter: serverAdapter,
		tokens:  tokens,
		prompt:  prompt,
		out:     out,
		logger:  logger,
	}

	a.commands = map[string]command{
		"signup":   {usage: "register a student account", run: a.signup},
		"login":    {usage: "log in as a student or reviewer", run: a.login},
		"logout":   {usage: "end the current session", authed: true, run: a.logout},
		"whoami":   {usage: "show the current session", authed: true, run: a.whoami},
		"forgot":   {usage: "request a password-reset token", run: a.forgot},
		"reset":    {usage: "set a new password with a reset token", run: a.reset},
		"apply":    {usage: "submit a certificate application", authed: true, run: a.apply},
		"list":     {usage: "list certificate applications", authed: true, run: a.list},
		"approve":  {usage: "approve an application at your review level", authed: true, run: a.approve},
		"reject":   {usage: "reject an application at your review level", authed: true, run: a.reject},
		"download": {usage: "fetch an approved certificate", authed: true, run: a.download},
		"version":  {usage: "print the server version", run: a.version},
	}

	return a
}

// Run dispatches args[0] to its subcommand. The stored session token, if
// any, is loaded first so every command runs in the saved session.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printUsage()
		return nil
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.adapter.SetToken(token)

	a.logger.Debug().Str("command", args[0]).Bool("has_token", token != "").Msg("running command")

	if err = cmd.run(ctx, args[1:]); err != nil {
		if cmd.authed && token == "" && errors.Is(err, adapter.ErrUnauthorized) {
			return fmt.Errorf("%w: run \"login\" first", ErrNotLoggedIn)
		}
		return err
	}
	return nil
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "usage: cert-flow <command> [flags]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "commands:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-9s %s\n", name, a.commands[name].usage)
	}
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// requireFlags reports the first empty value among the named flags.
func requireFlags(values map[string]string) error {
	var missing []string
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingArgument, strings.Join(missing, ", "))
}

// password returns preset when it was given on the command line and prompts
// otherwise. confirm asks a second time and compares.
func (a *App) password(preset string, confirm bool) (string, error) {
	if preset != "" {
		return preset, nil
	}

	secret, err := a.prompt.Password("Password")
	if err != nil {
		return "", err
	}
	if !confirm {
		return secret, nil
	}

	again, err := a.prompt.Password("Repeat password")
	if err != nil {
		return "", err
	}
	if again != secret {
		return "", ErrPasswordsDiffer
	}
	return secret, nil
}
