package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"betting_e2e/domain/entities"
	"betting_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const (
	chromeDriverPort = 9515
	pollInterval     = 100 * time.Millisecond
)

var (
	nthMatchRe = regexp.MustCompile(`^:nth-match\((.+),\s*(\d+)\)$`)
	hasTextRe  = regexp.MustCompile(`^(.+):has-text\("([^"]*)"\)$`)
)

// SeleniumController runs one chromedriver, every session gets its own browser
type SeleniumController struct {
	service      *selenium.Service
	logger       *logrus.Entry
	opts         LaunchOptions
	chromeBinary string
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// NewSeleniumController - starts chromedriver, only chromium is supported
func NewSeleniumController(opts LaunchOptions, logger *logrus.Logger) (interfaces.Launcher, error) {
	log := logger.WithField("component", "selenium")
	if opts.Browser != "" && opts.Browser != "chromium" {
		return nil, fmt.Errorf("selenium engine supports chromium only, got %q", opts.Browser)
	}

	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	log.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(opts.ChromeBinaryPath)
	if chromeBinary != "" {
		log.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	return &SeleniumController{
		service:      service,
		logger:       log,
		opts:         opts,
		chromeBinary: chromeBinary,
	}, nil
}

// NewSession - starts a browser, restoring cookies and local storage of opts.Snapshot
func (s *SeleniumController) NewSession(ctx context.Context, opts entities.SessionOptions) (interfaces.Session, error) {
	caps := selenium.Capabilities{
		"browserName":         "chrome",
		"acceptInsecureCerts": true,
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		"--window-size=1280,720",
	}
	if s.opts.Headless {
		args = append(args, "--headless=new")
	}
	chromeCaps := chrome.Capabilities{Args: args}
	if s.chromeBinary != "" {
		chromeCaps.Path = s.chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := await(ctx, func() (selenium.WebDriver, error) {
		wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
		if err != nil && strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("chrome browser not found, install Google Chrome or set CHROME_BINARY_PATH: %w", err)
		}
		return wd, err
	}, func(late selenium.WebDriver) {
		if err := late.Quit(); err != nil {
			s.logger.Warnf("Failed to quit abandoned browser: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	session, err := s.openSession(ctx, wd, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("Session created (base url %q, restored: %t)", opts.BaseURL, opts.Snapshot != nil)
	return session, nil
}

// openSession - wraps wd into a session and restores opts.Snapshot, the browser is quit when restore fails
func (s *SeleniumController) openSession(ctx context.Context, wd selenium.WebDriver, opts entities.SessionOptions) (*seleniumSession, error) {
	session := &seleniumSession{
		wd:     wd,
		driver: &webDriver{wd: wd, baseURL: opts.BaseURL, slowMo: s.opts.SlowMo},
	}
	if opts.Snapshot == nil || opts.Snapshot.Empty() {
		return session, nil
	}
	if err := session.restore(ctx, *opts.Snapshot); err != nil {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warnf("Failed to close session after restore failure: %v", cerr)
		}
		return nil, err
	}
	return session, nil
}

// Close - stops chromedriver
func (s *SeleniumController) Close() error {
	if s.service == nil {
		return nil
	}
	return s.service.Stop()
}

// seleniumSession is a browser owned by one scenario
type seleniumSession struct {
	wd     selenium.WebDriver
	driver *webDriver
	once   sync.Once
}

// Driver - returns the page driver
func (s *seleniumSession) Driver() interfaces.Driver {
	return s.driver
}

// SaveState - captures cookies and local storage of the current origin
func (s *seleniumSession) SaveState(ctx context.Context) (entities.SessionSnapshot, error) {
	return await(ctx, func() (entities.SessionSnapshot, error) {
		var snapshot entities.SessionSnapshot
		cookies, err := s.wd.GetCookies()
		if err != nil {
			return snapshot, fmt.Errorf("failed to read cookies: %w", err)
		}
		for _, c := range cookies {
			expires := float64(-1)
			if c.Expiry > 0 {
				expires = float64(c.Expiry)
			}
			snapshot.Cookies = append(snapshot.Cookies, entities.Cookie{
				Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path, Expires: expires, Secure: c.Secure,
			})
		}

		current, err := s.wd.CurrentURL()
		if err != nil {
			return snapshot, fmt.Errorf("failed to read current url: %w", err)
		}
		raw, err := s.wd.ExecuteScript(`return JSON.stringify(Object.entries(window.localStorage));`, nil)
		if err != nil {
			return snapshot, fmt.Errorf("failed to read local storage: %w", err)
		}
		entries, err := parseLocalStorage(raw)
		if err != nil {
			return snapshot, err
		}
		if len(entries) > 0 {
			snapshot.Origins = append(snapshot.Origins, entities.OriginState{Origin: origin(current), LocalStorage: entries})
		}
		return snapshot, nil
	}, nil)
}

// restore - opens the base url, applies cookies and local storage, then reloads
func (s *seleniumSession) restore(ctx context.Context, snapshot entities.SessionSnapshot) error {
	if err := s.driver.Navigate(ctx, "/"); err != nil {
		return fmt.Errorf("failed to open base url for session restore: %w", err)
	}
	return withContext(ctx, func() error {
		for _, c := range snapshot.Cookies {
			cookie := &selenium.Cookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path, Secure: c.Secure}
			if c.Expires > 0 {
				cookie.Expiry = uint(c.Expires)
			}
			if err := s.wd.AddCookie(cookie); err != nil {
				return fmt.Errorf("failed to restore cookie %s: %w", c.Name, err)
			}
		}
		for _, o := range snapshot.Origins {
			for _, e := range o.LocalStorage {
				if _, err := s.wd.ExecuteScript(`window.localStorage.setItem(arguments[0], arguments[1]);`,
					[]interface{}{e.Name, e.Value}); err != nil {
					return fmt.Errorf("failed to restore local storage %s: %w", e.Name, err)
				}
			}
		}
		return s.wd.Refresh()
	})
}

// Close - quits the browser, repeated calls are no-ops
func (s *seleniumSession) Close() error {
	var err error
	s.once.Do(func() { err = s.wd.Quit() })
	return err
}

// webDriver implements Driver on a selenium WebDriver.
// Playwright pseudo selectors :nth-match and :has-text are resolved client side.
type webDriver struct {
	wd      selenium.WebDriver
	baseURL string
	slowMo  time.Duration
}

// Navigate - opens url, relative urls resolve against the base url
func (d *webDriver) Navigate(ctx context.Context, target string) error {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(d.baseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}
	return d.do(ctx, func() error { return d.wd.Get(target) })
}

// WaitFor - polls selector until it reaches state
func (d *webDriver) WaitFor(ctx context.Context, selector string, state entities.ElementState, timeout time.Duration) error {
	if !state.Valid() {
		return fmt.Errorf("unknown element state %q", state)
	}
	if _, err := parseSelector(selector); err != nil {
		return err
	}
	return withContext(ctx, func() error {
		return d.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			el, err := d.find(selector)
			if err != nil {
				return state == entities.StateHidden || state == entities.StateDetached, nil
			}
			switch state {
			case entities.StateAttached:
				return true, nil
			case entities.StateDetached:
				return false, nil
			}
			displayed, err := el.IsDisplayed()
			if err != nil {
				// stale elements are gone from the page
				return state == entities.StateHidden, nil
			}
			return displayed == (state == entities.StateVisible), nil
		}, budget(ctx, timeout), pollInterval)
	})
}

// Click - clicks the first element matching selector
func (d *webDriver) Click(ctx context.Context, selector string) error {
	return d.do(ctx, func() error {
		el, err := d.find(selector)
		if err != nil {
			return err
		}
		return el.Click()
	})
}

// Fill - clears the first element matching selector and types text
func (d *webDriver) Fill(ctx context.Context, selector string, text string) error {
	return d.do(ctx, func() error {
		el, err := d.find(selector)
		if err != nil {
			return err
		}
		if err := el.Clear(); err != nil {
			return err
		}
		return el.SendKeys(text)
	})
}

// TextContent - returns text of the first element matching selector
func (d *webDriver) TextContent(ctx context.Context, selector string) (string, error) {
	return await(ctx, func() (string, error) {
		el, err := d.find(selector)
		if err != nil {
			return "", err
		}
		return el.Text()
	}, nil)
}

// ScrollIntoView - scrolls the first element matching selector to the viewport center
func (d *webDriver) ScrollIntoView(ctx context.Context, selector string) error {
	return withContext(ctx, func() error {
		el, err := d.find(selector)
		if err != nil {
			return err
		}
		_, err = d.wd.ExecuteScript(`arguments[0].scrollIntoView({block: 'center'});`, []interface{}{el})
		return err
	})
}

// Count - returns number of elements matching selector
func (d *webDriver) Count(ctx context.Context, selector string) (int, error) {
	return await(ctx, func() (int, error) {
		els, err := d.findAll(selector)
		return len(els), err
	}, nil)
}

// WaitForNetworkIdle - waits for the document to finish loading
func (d *webDriver) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	return withContext(ctx, func() error {
		return d.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
			state, err := wd.ExecuteScript(`return document.readyState;`, nil)
			if err != nil {
				return false, err
			}
			return state == "complete", nil
		}, budget(ctx, timeout), pollInterval)
	})
}

// Screenshot - writes a viewport screenshot to path
func (d *webDriver) Screenshot(ctx context.Context, path string) error {
	return withContext(ctx, func() error {
		data, err := d.wd.Screenshot()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	})
}

// do - runs an action followed by the slow-mo pause
func (d *webDriver) do(ctx context.Context, fn func() error) error {
	return withContext(ctx, func() error {
		if err := fn(); err != nil {
			return err
		}
		if d.slowMo > 0 {
			time.Sleep(d.slowMo)
		}
		return nil
	})
}

func (d *webDriver) find(selector string) (selenium.WebElement, error) {
	els, err := d.findAll(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("no element matches %s", selector)
	}
	return els[0], nil
}

// findAll - resolves selector, :nth-match keeps only the n-th match
func (d *webDriver) findAll(selector string) ([]selenium.WebElement, error) {
	q, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	els, err := d.wd.FindElements(selenium.ByCSSSelector, q.css)
	if err != nil {
		return nil, err
	}
	if q.text != "" {
		filtered := els[:0]
		for _, el := range els {
			if text, err := el.Text(); err == nil && strings.Contains(strings.ToLower(text), strings.ToLower(q.text)) {
				filtered = append(filtered, el)
			}
		}
		els = filtered
	}
	if q.nth > 0 {
		if q.nth > len(els) {
			return nil, nil
		}
		return els[q.nth-1 : q.nth], nil
	}
	return els, nil
}

// cssQuery is a selector split into the css part and client side filters
type cssQuery struct {
	css  string
	text string // Case-insensitive substring of element text
	nth  int    // 1-based match index, 0 keeps all
}

func parseSelector(selector string) (cssQuery, error) {
	q := cssQuery{css: strings.TrimSpace(selector)}
	if m := nthMatchRe.FindStringSubmatch(q.css); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return cssQuery{}, fmt.Errorf("invalid :nth-match index in %s", selector)
		}
		q.css, q.nth = strings.TrimSpace(m[1]), n
	}
	if m := hasTextRe.FindStringSubmatch(q.css); m != nil {
		q.css, q.text = strings.TrimSpace(m[1]), m[2]
	}
	if q.css == "" || strings.Contains(q.css, ":nth-match(") || strings.Contains(q.css, ":has-text(") {
		return cssQuery{}, errors.New("unsupported selector for selenium: " + selector)
	}
	return q, nil
}

func parseLocalStorage(raw interface{}) ([]entities.StorageEntry, error) {
	str, ok := raw.(string)
	if !ok || str == "" {
		return nil, nil
	}
	var pairs [][2]string
	if err := json.Unmarshal([]byte(str), &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse local storage: %w", err)
	}
	res := make([]entities.StorageEntry, 0, len(pairs))
	for _, p := range pairs {
		res = append(res, entities.StorageEntry{Name: p[0], Value: p[1]})
	}
	return res, nil
}

func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// Ensure selenium types implement interfaces
var (
	_ interfaces.Launcher = (*SeleniumController)(nil)
	_ interfaces.Session  = (*seleniumSession)(nil)
	_ interfaces.Driver   = (*webDriver)(nil)
)
