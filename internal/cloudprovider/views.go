package cloudprovider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreyMenezes/integration-tests/internal/browser"
)

const controller = "ems_cloud"

// matchPage checks the body's location markers: controller, action and,
// when non-empty, the summary.
func matchPage(sess *browser.Session, action, summary string) (bool, error) {
	ctrl, err := sess.GetAttribute("body", "data-controller")
	if err != nil {
		return false, err
	}
	if ctrl != controller {
		return false, nil
	}
	act, err := sess.GetAttribute("body", "data-action")
	if err != nil {
		return false, err
	}
	if act != action {
		return false, nil
	}
	if summary == "" {
		return true, nil
	}
	sum, err := sess.GetAttribute("body", "data-summary")
	if err != nil {
		return false, err
	}
	return sum == summary, nil
}

// =========================================================================
// Widgets
// =========================================================================

// Toolbar is one dropdown menu on a providers screen. Menus are
// disclosure widgets: an item click requires the menu to be open.
type Toolbar struct {
	sess *browser.Session
	root string
}

// ItemSelect opens the menu if needed and clicks the item with the
// given data-action key.
func (t *Toolbar) ItemSelect(action string) error {
	open, err := t.sess.IsVisible(t.root + "[open]")
	if err != nil {
		return err
	}
	if !open {
		if err := t.sess.Click(t.root + " summary"); err != nil {
			return err
		}
	}
	return t.sess.Click(fmt.Sprintf("%s [data-action='%s']", t.root, action))
}

// Paginator is the item counter and page links under the listing grid.
// It only renders when the listing is nonempty.
type Paginator struct {
	sess *browser.Session
}

// Exists reports whether the paginator is rendered at all.
func (p *Paginator) Exists() (bool, error) {
	return p.sess.IsVisible("#paginator")
}

// ItemsAmount returns the total item count, 0 when the paginator is
// absent.
func (p *Paginator) ItemsAmount() (int, error) {
	exists, err := p.Exists()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	text, err := p.sess.Text("#items-amount")
	if err != nil {
		return 0, err
	}
	amount, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse items amount %q: %w", text, err)
	}
	return amount, nil
}

// PageCount returns the number of page links, 1 when only one page of
// results exists.
func (p *Paginator) PageCount() (int, error) {
	links, err := p.sess.Elements("#paginator a.page-link")
	if err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 1, nil
	}
	return len(links), nil
}

// GoToPage clicks the 1-based page link.
func (p *Paginator) GoToPage(n int) error {
	if err := p.sess.Click(fmt.Sprintf("a.page-link[data-page='%d']", n)); err != nil {
		return err
	}
	return p.sess.WaitVisible("#explorer-title")
}

// CheckAll checks the select-all box.
func (p *Paginator) CheckAll() error {
	return p.sess.Check("#check-all")
}

// UncheckAll unchecks the select-all box.
func (p *Paginator) UncheckAll() error {
	return p.sess.Uncheck("#check-all")
}

// ViewSelector switches the listing between grid and list rendering.
type ViewSelector struct {
	sess *browser.Session
}

// Selected returns the current mode, "grid" or "list".
func (v *ViewSelector) Selected() (string, error) {
	return v.sess.GetAttribute("#view-selector", "data-selected")
}

// Select switches to the given mode.
func (v *ViewSelector) Select(mode string) error {
	if err := v.sess.Click("#view-" + mode); err != nil {
		return err
	}
	return v.sess.WaitVisible("#explorer-title")
}

// =========================================================================
// Views
// =========================================================================

// ProvidersView is the Cloud Providers listing screen.
type ProvidersView struct {
	sess *browser.Session
}

// NewProvidersView binds the listing view to a session.
func NewProvidersView(sess *browser.Session) *ProvidersView {
	return &ProvidersView{sess: sess}
}

func (v *ProvidersView) IsDisplayed() (bool, error) {
	return matchPage(v.sess, "show_list", "")
}

// Configuration is the Configuration toolbar menu.
func (v *ProvidersView) Configuration() *Toolbar {
	return &Toolbar{sess: v.sess, root: "#toolbar-configuration"}
}

// Policy is the Policy toolbar menu.
func (v *ProvidersView) Policy() *Toolbar {
	return &Toolbar{sess: v.sess, root: "#toolbar-policy"}
}

func (v *ProvidersView) Paginator() *Paginator {
	return &Paginator{sess: v.sess}
}

func (v *ProvidersView) ViewSelector() *ViewSelector {
	return &ViewSelector{sess: v.sess}
}

// SelectItem checks the quadicon checkbox for the named provider.
func (v *ProvidersView) SelectItem(name string) error {
	return v.sess.Check(fmt.Sprintf("input.quad-check[value='%s']", name))
}

// ClickItem opens the named provider's details.
func (v *ProvidersView) ClickItem(name string) error {
	if err := v.sess.Click(fmt.Sprintf("a.quad-link[title='%s']", name)); err != nil {
		return err
	}
	return v.sess.WaitVisible("#provider-title")
}

// ItemTitles returns the title attribute of every quadicon on the
// current page.
func (v *ProvidersView) ItemTitles() ([]string, error) {
	links, err := v.sess.Elements("a.quad-link")
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(links))
	for _, link := range links {
		title, err := link.GetAttribute("title")
		if err != nil {
			return nil, fmt.Errorf("quadicon title: %w", err)
		}
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// Flash returns the flash banner text, or "" when no banner is shown.
func (v *ProvidersView) Flash() (string, error) {
	visible, err := v.sess.IsVisible("#flash")
	if err != nil || !visible {
		return "", err
	}
	return v.sess.Text("#flash")
}

// DetailsView is one provider's summary screen.
type DetailsView struct {
	sess     *browser.Session
	provider *CloudProvider
}

func (v *DetailsView) IsDisplayed() (bool, error) {
	summary := ""
	if v.provider != nil {
		summary = v.provider.Name
	}
	return matchPage(v.sess, "show", summary)
}

func (v *DetailsView) Configuration() *Toolbar {
	return &Toolbar{sess: v.sess, root: "#toolbar-configuration"}
}

func (v *DetailsView) Policy() *Toolbar {
	return &Toolbar{sess: v.sess, root: "#toolbar-policy"}
}

func (v *DetailsView) Monitoring() *Toolbar {
	return &Toolbar{sess: v.sess, root: "#toolbar-monitoring"}
}

// InfoField returns the text of a field inside an info block.
func (v *DetailsView) InfoField(block, field string) (string, error) {
	return v.sess.Text(fmt.Sprintf(
		"section.info-block[data-block='%s'] [data-field='%s']", block, field))
}

// ClickInfoLink clicks a link inside an info block, e.g.
// Relationships/Instances.
func (v *DetailsView) ClickInfoLink(block, field string) error {
	if err := v.sess.Click(fmt.Sprintf(
		"section.info-block[data-block='%s'] a[data-field='%s']", block, field)); err != nil {
		return err
	}
	return v.sess.WaitVisible("#relationship-title")
}

// DiscoverView is the provider discovery form.
type DiscoverView struct {
	sess *browser.Session
}

func (v *DiscoverView) IsDisplayed() (bool, error) {
	ok, err := matchPage(v.sess, "discover", "")
	if err != nil || !ok {
		return false, err
	}
	return v.sess.IsVisible("#discover-form")
}

// Fill populates the discovery form from a credential.
func (v *DiscoverView) Fill(discoveryType string, credential Credential) error {
	if err := v.sess.SelectOption("#discover_type", discoveryType); err != nil {
		return err
	}
	if err := v.sess.Fill("#username", credential.Principal); err != nil {
		return err
	}
	if err := v.sess.Fill("#password", credential.Secret); err != nil {
		return err
	}
	return v.sess.Fill("#password_verify", credential.VerifySecret)
}

// Start submits the discovery request.
func (v *DiscoverView) Start() error {
	if err := v.sess.Click("#start"); err != nil {
		return err
	}
	return v.sess.WaitVisible("#explorer-title")
}

// Cancel leaves the form without submitting.
func (v *DiscoverView) Cancel() error {
	if err := v.sess.Click("#cancel"); err != nil {
		return err
	}
	return v.sess.WaitVisible("#explorer-title")
}

// ProviderFormView is the add/edit provider form; action distinguishes
// the two.
type ProviderFormView struct {
	sess   *browser.Session
	action string
}

func (v *ProviderFormView) IsDisplayed() (bool, error) {
	ok, err := matchPage(v.sess, v.action, "")
	if err != nil || !ok {
		return false, err
	}
	return v.sess.IsVisible("#provider-form")
}

// Fill populates the provider form fields.
func (v *ProviderFormView) Fill(name, zone string) error {
	if err := v.sess.Fill("#name", name); err != nil {
		return err
	}
	return v.sess.Fill("#zone", zone)
}

// Save submits the form.
func (v *ProviderFormView) Save() error {
	return v.sess.Click("#save")
}

// Cancel leaves the form without saving.
func (v *ProviderFormView) Cancel() error {
	if err := v.sess.Click("#form-cancel"); err != nil {
		return err
	}
	return v.sess.WaitVisible("#explorer-title")
}

// PolicyView covers both Manage Policies and Edit Tags screens; action
// is "protect" or "tagging".
type PolicyView struct {
	sess   *browser.Session
	action string
}

func (v *PolicyView) IsDisplayed() (bool, error) {
	return matchPage(v.sess, v.action, "")
}

// TargetName returns the provider the policy screen applies to.
func (v *PolicyView) TargetName() (string, error) {
	return v.sess.Text("#policy-target")
}

// TimelinesView is the provider's event timeline screen.
type TimelinesView struct {
	sess *browser.Session
}

func (v *TimelinesView) IsDisplayed() (bool, error) {
	return matchPage(v.sess, "timeline", "")
}
