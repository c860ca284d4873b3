package cloudprovider

import (
	"fmt"
	"time"

	"github.com/AndreyMenezes/integration-tests/internal/browser"
	"github.com/AndreyMenezes/integration-tests/internal/obs"
	"github.com/AndreyMenezes/integration-tests/internal/wait"
)

// DefaultProviderWaitTimeout bounds WaitForAProvider. Discovery against
// a real provider can take many minutes.
const DefaultProviderWaitTimeout = 1000 * time.Second

// DefaultDiscoveryType is used when Discover is called without one.
const DefaultDiscoveryType = "Amazon"

// GetAllProviders collects the distinct provider names across every
// page of the listing. With skipNavigation the caller asserts the
// session is already on the listing screen.
func GetAllProviders(sess *browser.Session, skipNavigation bool) (map[string]struct{}, error) {
	if !skipNavigation {
		if _, err := NavigateTo(sess, nil, StepAll); err != nil {
			return nil, err
		}
	}

	providers := make(map[string]struct{})
	view := NewProvidersView(sess)

	pag := view.Paginator()
	exists, err := pag.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return providers, nil
	}

	pageCount, err := pag.PageCount()
	if err != nil {
		return nil, err
	}
	for page := 1; page <= pageCount; page++ {
		if pageCount > 1 {
			if err := pag.GoToPage(page); err != nil {
				return nil, fmt.Errorf("paginate to page %d: %w", page, err)
			}
		}
		titles, err := view.ItemTitles()
		if err != nil {
			return nil, err
		}
		for _, title := range titles {
			providers[title] = struct{}{}
		}
	}
	return providers, nil
}

// Discover fills and submits (or cancels) the provider discovery form.
// It only starts discovery; it does not wait for completion.
func Discover(sess *browser.Session, credential Credential, cancel bool, discoveryType string) error {
	if discoveryType == "" {
		discoveryType = DefaultDiscoveryType
	}

	v, err := NavigateTo(sess, nil, StepDiscover)
	if err != nil {
		return err
	}
	view, ok := v.(*DiscoverView)
	if !ok {
		return fmt.Errorf("discover step returned unexpected view %T", v)
	}

	if err := view.Fill(discoveryType, credential); err != nil {
		return err
	}
	if cancel {
		return view.Cancel()
	}
	return view.Start()
}

// WaitForAProvider blocks until the listing reports at least one
// provider, refreshing the browser between polls.
func WaitForAProvider(sess *browser.Session) error {
	return WaitForAProviderWithTimeout(sess, DefaultProviderWaitTimeout)
}

// WaitForAProviderWithTimeout is WaitForAProvider with a caller-chosen
// bound, for tests that need a short one.
func WaitForAProviderWithTimeout(sess *browser.Session, timeout time.Duration) error {
	if _, err := NavigateTo(sess, nil, StepAll); err != nil {
		return err
	}

	obs.Pkg("cloudprovider").Info("waiting for a provider to appear")
	view := NewProvidersView(sess)
	return wait.For(func() (bool, error) {
		amount, err := view.Paginator().ItemsAmount()
		if err != nil {
			return false, err
		}
		return amount > 0, nil
	}, wait.Options{
		Timeout: timeout,
		Message: "any provider to appear",
		OnRetry: func() {
			// Refresh failures surface on the next poll.
			_ = sess.Refresh()
		},
	})
}
