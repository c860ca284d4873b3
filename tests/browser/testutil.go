// Package browser provides shared test utilities for Playwright browser
// tests of the Cloud Provider page objects. All test files use
// BrowserTestEnv via SetupBrowserTestEnv(t).
package browser

import (
	"fmt"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/AndreyMenezes/integration-tests/internal/appliance"
	session "github.com/AndreyMenezes/integration-tests/internal/browser"
)

const (
	// CODING AGENT RULE: Always use these timeout constants for browser
	// tests. Never introduce a larger timeout value anywhere in
	// tests/browser.
	browserMaxTimeoutMS = session.MaxTimeoutMS
	browserMaxTimeout   = browserMaxTimeoutMS * time.Millisecond
)

var browserFixtureMu sync.Mutex
var browserSharedFixture *BrowserTestEnv

// BrowserTestEnv is the unified test environment for all browser tests:
// the fake appliance served over httptest plus a shared headless
// browser.
type BrowserTestEnv struct {
	Server  *httptest.Server
	BaseURL string
	App     *appliance.Appliance

	pw        *playwright.Playwright
	browser   playwright.Browser
	browserMu sync.Mutex
}

// SetupBrowserTestEnv returns the shared test environment with a clean
// appliance store.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	env := getOrCreateSharedBrowserTestEnv(t)
	env.App.Store().Reset()
	return env
}

func getOrCreateSharedBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture != nil {
		return browserSharedFixture
	}

	app := appliance.New(appliance.NewStore())
	server := httptest.NewServer(app.Handler())

	browserSharedFixture = &BrowserTestEnv{
		Server:  server,
		BaseURL: server.URL,
		App:     app,
	}
	return browserSharedFixture
}

func cleanupSharedBrowserTestEnv() {
	browserFixtureMu.Lock()
	defer browserFixtureMu.Unlock()

	if browserSharedFixture == nil {
		return
	}
	if browserSharedFixture.browser != nil {
		_ = browserSharedFixture.browser.Close()
	}
	if browserSharedFixture.pw != nil {
		_ = browserSharedFixture.pw.Stop()
	}
	if browserSharedFixture.Server != nil {
		browserSharedFixture.Server.Close()
	}
	browserSharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedBrowserTestEnv()
	os.Exit(code)
}

// InitBrowser initializes Playwright and launches Chromium. Skips the
// test if not available.
func (env *BrowserTestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.browserMu.Lock()
	defer env.browserMu.Unlock()

	if env.browser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	env.pw = pw
	env.browser = b
}

// NewSession creates a fresh page bound to the appliance base URL.
func (env *BrowserTestEnv) NewSession(t *testing.T) *session.Session {
	t.Helper()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	t.Cleanup(func() { _ = page.Close() })
	return session.NewSession(page, env.BaseURL)
}

// SeedProvider registers a provider directly in the appliance store.
func (env *BrowserTestEnv) SeedProvider(t *testing.T, name string) appliance.Provider {
	t.Helper()

	p, err := env.App.Store().AddProvider(appliance.Provider{
		Name:      name,
		Type:      "ec2",
		Zone:      "default",
		Instances: 3,
		Images:    2,
	})
	if err != nil {
		t.Fatalf("failed to seed provider %q: %v", name, err)
	}
	return p
}

// GenerateUniqueProviderName generates a unique name for test isolation.
func GenerateUniqueProviderName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
