// Package browser wraps a Playwright page in the small capability set
// the page objects use: click, attribute read, element listing, form
// fill, and refresh. The session is a singleton shared resource;
// callers serialize navigation against it.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const (
	// MaxTimeoutMS bounds every driver operation. Never introduce a
	// larger timeout value anywhere in the page objects.
	MaxTimeoutMS = 5000
)

// Session is a handle on one browser page plus the application base URL.
type Session struct {
	page    playwright.Page
	baseURL string
}

// NewSession wraps an existing Playwright page.
func NewSession(page playwright.Page, baseURL string) *Session {
	page.SetDefaultTimeout(MaxTimeoutMS)
	page.SetDefaultNavigationTimeout(MaxTimeoutMS)
	return &Session{page: page, baseURL: baseURL}
}

// Page exposes the underlying Playwright page for test-only assertions.
func (s *Session) Page() playwright.Page {
	return s.page
}

// BaseURL returns the application base URL.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Goto navigates to a path under the base URL and waits for
// DOMContentLoaded.
func (s *Session) Goto(path string) error {
	_, err := s.page.Goto(s.baseURL+path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", path, err)
	}
	return nil
}

// Refresh reloads the current page.
func (s *Session) Refresh() error {
	_, err := s.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	err := s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// Check checks the first checkbox matching selector.
func (s *Session) Check(selector string) error {
	err := s.page.Locator(selector).First().Check(playwright.LocatorCheckOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("check %q: %w", selector, err)
	}
	return nil
}

// Uncheck unchecks the first checkbox matching selector.
func (s *Session) Uncheck(selector string) error {
	err := s.page.Locator(selector).First().Uncheck(playwright.LocatorUncheckOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("uncheck %q: %w", selector, err)
	}
	return nil
}

// Fill fills the first element matching selector with value.
func (s *Session) Fill(selector, value string) error {
	err := s.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

// SelectOption selects an option by value on the first matching select.
func (s *Session) SelectOption(selector, value string) error {
	_, err := s.page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("select %q on %q: %w", value, selector, err)
	}
	return nil
}

// WaitVisible blocks until the first element matching selector is
// visible, or the driver timeout expires.
func (s *Session) WaitVisible(selector string) error {
	err := s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// GetAttribute reads an attribute from the first element matching
// selector. A missing attribute returns the empty string.
func (s *Session) GetAttribute(selector, name string) (string, error) {
	value, err := s.page.Locator(selector).First().GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return "", fmt.Errorf("attribute %q of %q: %w", name, selector, err)
	}
	return value, nil
}

// Elements returns all elements currently matching selector without
// waiting for any to appear.
func (s *Session) Elements(selector string) ([]playwright.Locator, error) {
	all, err := s.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("elements %q: %w", selector, err)
	}
	return all, nil
}

// IsVisible reports whether the first element matching selector is
// visible right now. A selector matching nothing reports false.
func (s *Session) IsVisible(selector string) (bool, error) {
	visible, err := s.page.Locator(selector).First().IsVisible()
	if err != nil {
		return false, fmt.Errorf("visible %q: %w", selector, err)
	}
	return visible, nil
}

// Text returns the inner text of the first element matching selector.
func (s *Session) Text(selector string) (string, error) {
	text, err := s.page.Locator(selector).First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(MaxTimeoutMS),
	})
	if err != nil {
		return "", fmt.Errorf("text %q: %w", selector, err)
	}
	return text, nil
}
