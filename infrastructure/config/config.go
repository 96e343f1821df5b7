// Package config builds run configuration from environment variables and the environments file.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"betting_e2e/domain/entities"

	"github.com/umputun/go-flags"
)

// Browser engines
const (
	EnginePlaywright = "playwright"
	EngineSelenium   = "selenium"
)

// Credentials used when neither the per environment nor the generic keys are set
const (
	DefaultUsername = "default_user"
	DefaultPassword = "default_pass"
)

// ErrJiraNotConfigured is returned by LoadJira when url or token is missing
var ErrJiraNotConfigured = errors.New("JIRA_URL or JIRA_TOKEN environment variable is missing")

var browsers = map[string]bool{"chromium": true, "firefox": true, "webkit": true}

// Config is the full run configuration
type Config struct {
	Env              string
	Environment      entities.Environment
	Credentials      entities.Credentials
	WaitTimeout      time.Duration
	BrowserEngine    string
	Browser          string
	Headless         bool
	SlowMo           time.Duration
	SessionStatePath string
	ArtifactsDir     string
	EnvironmentsFile string
	DriverPath       string // chromedriver binary of the selenium engine
	ChromeBinaryPath string // chrome binary of the selenium engine
	InstallBrowsers  bool   // download playwright browsers before launch
	Debug            bool
}

// JiraConfig is the issue tracker access
type JiraConfig struct {
	URL     string
	Token   string
	Project string
}

// Options are the static settings, each read from its env key or from the long flag of the command line
type Options struct {
	Env              string   `short:"e" long:"env" env:"ENV" default:"QA" description:"target environment (QA, PROD)"`
	BaseURL          string   `long:"base-url" env:"BASE_URL" description:"override base url of the environment"`
	WaitTimeout      Duration `long:"wait-timeout" env:"WAIT_TIMEOUT" default:"10s" description:"element wait timeout, plain numbers are milliseconds"`
	BrowserEngine    string   `long:"engine" env:"BROWSER_ENGINE" default:"playwright" description:"browser engine (playwright, selenium)"`
	Browser          string   `short:"b" long:"browser" env:"BROWSER" default:"chromium" description:"browser of the playwright engine"`
	Headless         Switch   `long:"headless" env:"HEADLESS" optional:"yes" optional-value:"true" description:"run the browser without a window, on by default when CI is set"`
	SlowMo           Duration `long:"slow-mo" env:"SLOW_MO" default:"500ms" description:"delay between browser operations"`
	SessionStatePath string   `long:"session-state" env:"SESSION_STATE_PATH" default:"playwright/.auth/user.json" description:"saved session file"`
	ArtifactsDir     string   `long:"artifacts-dir" env:"ARTIFACTS_DIR" default:"test-results" description:"failure screenshots directory"`
	EnvironmentsFile string   `long:"environments-file" env:"ENVIRONMENTS_FILE" description:"yaml file replacing the built-in environments"`
	DriverPath       string   `long:"driver-path" env:"BROWSER_DRIVER_PATH" description:"chromedriver binary of the selenium engine"`
	ChromeBinaryPath string   `long:"chrome-binary" env:"CHROME_BINARY_PATH" description:"chrome binary of the selenium engine"`
	InstallBrowsers  Switch   `long:"install-browsers" env:"INSTALL_BROWSERS" optional:"yes" optional-value:"true" description:"download playwright browsers before launch"`
	Debug            Switch   `long:"dbg" env:"DEBUG" optional:"yes" optional-value:"true" description:"debug logging"`
}

// JiraOptions are the issue tracker settings
type JiraOptions struct {
	URL     string `long:"jira-url" env:"JIRA_URL" description:"issue tracker base url"`
	Token   string `long:"jira-token" env:"JIRA_TOKEN" description:"authorization header value"`
	Project string `long:"jira-project" env:"JIRA_PROJECT" default:"QA" description:"project key of created issues"`
}

// Duration accepts Go durations and plain integers as milliseconds
type Duration time.Duration

// UnmarshalFlag - parses value, empty value keeps the current one
func (d *Duration) UnmarshalFlag(value string) error {
	if value == "" {
		return nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		if ms < 0 {
			return errors.New("negative duration")
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(value)
	if err != nil || v < 0 {
		return errors.New("expected duration like 10s or milliseconds")
	}
	*d = Duration(v)
	return nil
}

// Switch is a boolean option which remembers whether it was set at all
type Switch struct {
	set bool
	on  bool
}

// UnmarshalFlag - parses value with strconv.ParseBool, empty value leaves the switch unset
func (s *Switch) UnmarshalFlag(value string) error {
	if value == "" {
		*s = Switch{}
		return nil
	}
	on, err := strconv.ParseBool(value)
	if err != nil {
		return errors.New("expected true or false")
	}
	*s = Switch{set: true, on: on}
	return nil
}

// Or - returns the switch value, def when it was never set
func (s Switch) Or(def bool) bool {
	if !s.set {
		return def
	}
	return s.on
}

// ParseEnv - fills data, a go-flags options struct, from the env keys of its options read through getenv.
// Keys getenv has no value for keep their default.
func ParseEnv(getenv func(string) string, data any) error {
	parser := flags.NewParser(data, flags.None)
	var keys, values, args []string
	for _, opt := range options(parser.Group) {
		key := opt.EnvKeyWithNamespace()
		if key == "" || opt.LongName == "" {
			continue
		}
		if v := getenv(key); v != "" {
			keys, values = append(keys, key), append(values, v)
			args = append(args, "--"+opt.LongNameWithNamespace()+"="+v)
		}
	}
	if _, err := parser.ParseArgs(args); err != nil {
		// name the offending key, the parser only knows flag names
		for i, arg := range args {
			single := reflect.New(reflect.TypeOf(data).Elem()).Interface()
			if _, serr := flags.NewParser(single, flags.None).ParseArgs([]string{arg}); serr != nil {
				return fmt.Errorf("invalid %s %q: %w", keys[i], values[i], serr)
			}
		}
		return err
	}
	return nil
}

func options(g *flags.Group) []*flags.Option {
	res := g.Options()
	for _, sub := range g.Groups() {
		res = append(res, options(sub)...)
	}
	return res
}

// Load - builds Config from getenv, usually os.Getenv
func Load(getenv func(string) string) (Config, error) {
	var opts Options
	if err := ParseEnv(getenv, &opts); err != nil {
		return Config{}, err
	}
	return FromOptions(opts, getenv)
}

// FromOptions - builds Config from parsed options, getenv serves the per environment credentials and CI
func FromOptions(opts Options, getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:              strings.ToUpper(opts.Env),
		WaitTimeout:      time.Duration(opts.WaitTimeout),
		BrowserEngine:    strings.ToLower(opts.BrowserEngine),
		Browser:          strings.ToLower(opts.Browser),
		Headless:         opts.Headless.Or(getenv("CI") != ""),
		SlowMo:           time.Duration(opts.SlowMo),
		SessionStatePath: opts.SessionStatePath,
		ArtifactsDir:     opts.ArtifactsDir,
		EnvironmentsFile: opts.EnvironmentsFile,
		DriverPath:       opts.DriverPath,
		ChromeBinaryPath: opts.ChromeBinaryPath,
		InstallBrowsers:  opts.InstallBrowsers.Or(false),
		Debug:            opts.Debug.Or(false),
	}

	if cfg.BrowserEngine != EnginePlaywright && cfg.BrowserEngine != EngineSelenium {
		return Config{}, fmt.Errorf("unsupported BROWSER_ENGINE %q, use %s or %s", cfg.BrowserEngine, EnginePlaywright, EngineSelenium)
	}
	if !browsers[cfg.Browser] {
		return Config{}, fmt.Errorf("unsupported BROWSER %q, use chromium, firefox or webkit", cfg.Browser)
	}

	envs, err := LoadEnvironments(cfg.EnvironmentsFile)
	if err != nil {
		return Config{}, err
	}
	if cfg.Environment, err = envs.Get(cfg.Env); err != nil {
		return Config{}, err
	}
	if opts.BaseURL != "" {
		cfg.Environment.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	cfg.Credentials = entities.Credentials{
		Username: firstOf(getenv(cfg.Env+"_TEST_USERNAME"), getenv("TEST_USERNAME"), DefaultUsername),
		Password: firstOf(getenv(cfg.Env+"_TEST_PASSWORD"), getenv("TEST_PASSWORD"), DefaultPassword),
	}
	return cfg, nil
}

// LoadJira - builds JiraConfig from getenv, url and token are required
func LoadJira(getenv func(string) string) (JiraConfig, error) {
	var opts JiraOptions
	if err := ParseEnv(getenv, &opts); err != nil {
		return JiraConfig{}, err
	}
	return JiraFromOptions(opts)
}

// JiraFromOptions - validates parsed issue tracker options
func JiraFromOptions(opts JiraOptions) (JiraConfig, error) {
	cfg := JiraConfig{
		URL:     strings.TrimRight(opts.URL, "/"),
		Token:   opts.Token,
		Project: opts.Project,
	}
	if cfg.URL == "" || cfg.Token == "" {
		return JiraConfig{}, ErrJiraNotConfigured
	}
	return cfg, nil
}

// Settings - returns the part of config scenarios are composed with
func (c Config) Settings() entities.Settings {
	return entities.Settings{
		Environment:  c.Environment,
		Credentials:  c.Credentials,
		WaitTimeout:  c.WaitTimeout,
		ArtifactsDir: c.ArtifactsDir,
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
