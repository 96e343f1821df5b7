// Package terminal is the command line entry point: session bootstrap and issue tracker smoke checks.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"betting_e2e/application/scenario"
	"betting_e2e/infrastructure/browser"
	"betting_e2e/infrastructure/config"
	"betting_e2e/infrastructure/jira"
	"betting_e2e/infrastructure/security"
	"betting_e2e/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/umputun/go-flags"
)

// Options are shared by all commands, unset options fall back to the environment
type Options struct {
	Config config.Options `group:"run options"`

	Setup SetupCommand `command:"setup" description:"log in once and persist the browser session"`
	Issue IssueCommand `command:"issue" description:"create, update and delete a sample issue"`
}

// SetupCommand runs the global session bootstrap
type SetupCommand struct {
	Fresh bool `long:"fresh" description:"remove the saved session before logging in"`

	term *TerminalInterface
}

// IssueCommand runs the issue tracker lifecycle against the configured project
type IssueCommand struct {
	Keep bool               `long:"keep" description:"do not delete the created issue"`
	Jira config.JiraOptions `group:"issue tracker"`

	term *TerminalInterface
}

// TerminalInterface wires configuration and runs commands
type TerminalInterface struct {
	opts   Options
	env    func(string) string
	out    io.Writer
	ctx    context.Context
	logger *logrus.Logger
}

// NewTerminalInterface - creates the interface printing to out.
// Options read the process environment, getenv serves the per environment credentials and CI.
func NewTerminalInterface(getenv func(string) string, out io.Writer) *TerminalInterface {
	t := &TerminalInterface{env: getenv, out: out, ctx: context.Background()}
	t.opts.Setup.term = t
	t.opts.Issue.term = t
	return t
}

// Run - parses args and executes the selected command, parse errors and help are returned unprinted
func (t *TerminalInterface) Run(ctx context.Context, args []string) error {
	t.ctx = ctx
	parser := flags.NewParser(&t.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "betting_e2e"
	_, err := parser.ParseArgs(args)
	return err
}

// IsHelp reports whether err is the help request of the parser
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

func (t *TerminalInterface) loadConfig() (config.Config, error) {
	cfg, err := config.FromOptions(t.opts.Config, t.env)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	t.logger = config.NewLogger(cfg.Debug)
	t.logger.SetOutput(t.out)
	return cfg, nil
}

// Execute - logs in with the configured credentials and writes the session file
func (c *SetupCommand) Execute(_ []string) error {
	t := c.term
	cfg, err := t.loadConfig()
	if err != nil {
		return err
	}

	store := storage.NewBrowserState(cfg.SessionStatePath)
	if c.Fresh {
		if err := store.Remove(); err != nil {
			return fmt.Errorf("failed to remove saved session: %w", err)
		}
	}

	launcher, err := browser.NewLauncher(cfg, t.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer launcher.Close()

	guard := security.NewSecurityLayer(cfg.Environment, t.logger)
	composer := scenario.NewComposer(launcher, store, guard, cfg.Settings(), t.logger)

	t.logger.Infof("Logging in to %s (%s) as %s", cfg.Env, cfg.Environment.BaseURL, cfg.Credentials.Username)
	if err := composer.Bootstrap(t.ctx); err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Session saved to %s\n", store.Path())
	return nil
}

// Execute - creates a sample issue, reads and updates it, then deletes it unless Keep is set
func (c *IssueCommand) Execute(_ []string) error {
	t := c.term
	cfg, err := config.JiraFromOptions(c.Jira)
	if err != nil {
		return err
	}
	t.logger = config.NewLogger(t.opts.Config.Debug.Or(false))
	t.logger.SetOutput(t.out)

	client := jira.NewClient(cfg.URL, cfg.Token, t.logger)
	payload := jira.SampleIssue(cfg.Project)

	created, err := client.CreateIssue(t.ctx, payload)
	if err != nil {
		return err
	}
	if !created.OK() {
		return fmt.Errorf("create issue returned %d %s: %v", created.Status, created.StatusText, created.Error)
	}
	id := created.Data.ID
	fmt.Fprintf(t.out, "Created %s (%s): %s\n", created.Data.Key, id, payload.Fields.Summary)

	issue, err := client.GetIssue(t.ctx, id)
	if err != nil {
		return err
	}
	if !issue.OK() {
		return fmt.Errorf("get issue %s returned %d %s", id, issue.Status, issue.StatusText)
	}

	payload.Fields.Summary += " (updated)"
	updated, err := client.UpdateIssue(t.ctx, id, payload)
	if err != nil {
		return err
	}
	if !updated.OK() {
		return fmt.Errorf("update issue %s returned %d %s: %v", id, updated.Status, updated.StatusText, updated.Error)
	}
	fmt.Fprintf(t.out, "Updated %s: %d %s\n", id, updated.Status, updated.StatusText)

	if c.Keep {
		return nil
	}
	deleted, err := client.DeleteIssue(t.ctx, id)
	if err != nil {
		return err
	}
	if !deleted.OK() {
		return fmt.Errorf("delete issue %s returned %d %s", id, deleted.Status, deleted.StatusText)
	}
	fmt.Fprintf(t.out, "Deleted %s: %d %s\n", id, deleted.Status, deleted.StatusText)
	return nil
}
