package browser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AndreyMenezes/integration-tests/internal/appliance"
	"github.com/AndreyMenezes/integration-tests/internal/cloudprovider"
	"github.com/AndreyMenezes/integration-tests/internal/wait"
)

func TestGetAllProviders_CollectsAcrossPages(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	total := appliance.GridPageSize + 3
	names := make([]string, 0, total)
	for i := 0; i < total; i++ {
		name := fmt.Sprintf("prov%02d", i)
		env.SeedProvider(t, name)
		names = append(names, name)
	}

	providers, err := cloudprovider.GetAllProviders(sess, false)
	if err != nil {
		t.Fatalf("GetAllProviders failed: %v", err)
	}
	if len(providers) != total {
		t.Errorf("expected %d providers, got %d: %v", total, len(providers), providers)
	}
	for _, name := range names {
		if _, ok := providers[name]; !ok {
			t.Errorf("missing provider %q", name)
		}
	}
}

func TestGetAllProviders_EmptyListing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	providers, err := cloudprovider.GetAllProviders(sess, false)
	if err != nil {
		t.Fatalf("GetAllProviders failed: %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("expected no providers, got %v", providers)
	}
}

func TestGetAllProviders_SkipNavigation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	name := GenerateUniqueProviderName("prov")
	env.SeedProvider(t, name)

	if _, err := cloudprovider.NavigateTo(sess, nil, cloudprovider.StepAll); err != nil {
		t.Fatalf("NavigateTo All failed: %v", err)
	}

	providers, err := cloudprovider.GetAllProviders(sess, true)
	if err != nil {
		t.Fatalf("GetAllProviders failed: %v", err)
	}
	if _, ok := providers[name]; !ok {
		t.Errorf("expected %q in %v", name, providers)
	}
}

func TestDiscover_SubmitRecordsDiscovery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	credential := cloudprovider.Credential{
		Principal:    "admin",
		Secret:       "s3cret",
		VerifySecret: "s3cret",
	}
	if err := cloudprovider.Discover(sess, credential, false, "Amazon"); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	discoveries := env.App.Store().Discoveries()
	if len(discoveries) != 1 {
		t.Fatalf("expected 1 recorded discovery, got %d", len(discoveries))
	}
	if discoveries[0].Type != "Amazon" || discoveries[0].Username != "admin" {
		t.Errorf("unexpected discovery %+v", discoveries[0])
	}

	flash, err := cloudprovider.NewProvidersView(sess).Flash()
	if err != nil {
		t.Fatalf("read flash: %v", err)
	}
	if flash != "Cloud Providers: Discovery successfully initiated" {
		t.Errorf("unexpected flash %q", flash)
	}
}

func TestDiscover_CancelRecordsNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	credential := cloudprovider.Credential{
		Principal:    "admin",
		Secret:       "s3cret",
		VerifySecret: "s3cret",
	}
	if err := cloudprovider.Discover(sess, credential, true, ""); err != nil {
		t.Fatalf("Discover with cancel failed: %v", err)
	}

	if got := env.App.Store().Discoveries(); len(got) != 0 {
		t.Errorf("cancel must record nothing, got %v", got)
	}
	listing := cloudprovider.NewProvidersView(sess)
	displayed, err := listing.IsDisplayed()
	if err != nil || !displayed {
		t.Fatalf("cancel must land on the listing (displayed=%v, err=%v)", displayed, err)
	}
}

func TestWaitForAProvider_SeededMidPoll(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	name := GenerateUniqueProviderName("late")
	time.AfterFunc(time.Second, func() {
		_, _ = env.App.Store().AddProvider(appliance.Provider{
			Name: name, Type: "ec2", Zone: "default",
		})
	})

	if err := cloudprovider.WaitForAProviderWithTimeout(sess, browserMaxTimeout); err != nil {
		t.Fatalf("WaitForAProvider failed: %v", err)
	}
	amount, err := cloudprovider.NewProvidersView(sess).Paginator().ItemsAmount()
	if err != nil {
		t.Fatalf("items amount: %v", err)
	}
	if amount < 1 {
		t.Errorf("expected at least one provider after wait, got %d", amount)
	}
}

func TestWaitForAProvider_TimesOutWhenEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	env := SetupBrowserTestEnv(t)
	env.InitBrowser(t)
	sess := env.NewSession(t)

	err := cloudprovider.WaitForAProviderWithTimeout(sess, 1500*time.Millisecond)
	var timeout *wait.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeout.Message != "any provider to appear" {
		t.Errorf("unexpected timeout message %q", timeout.Message)
	}
}
