// Package cloudprovider holds the page objects and navigation steps for
// the Cloud Provider management screens, plus the workflow helpers the
// test suites call (listing providers, starting discovery, waiting for
// a provider to register).
package cloudprovider

import (
	"errors"

	"github.com/AndreyMenezes/integration-tests/internal/browser"
	"github.com/AndreyMenezes/integration-tests/internal/nav"
)

// Object kinds in the navigation registry.
const (
	KindServer        nav.Kind = "server"
	KindCloudProvider nav.Kind = "cloud_provider"
)

// Step names registered for KindCloudProvider (and the server root).
const (
	StepLoggedIn                 = "LoggedIn"
	StepAll                      = "All"
	StepAdd                      = "Add"
	StepDiscover                 = "Discover"
	StepDetails                  = "Details"
	StepEdit                     = "Edit"
	StepEditFromDetails          = "EditFromDetails"
	StepManagePolicies           = "ManagePolicies"
	StepManagePoliciesFromDetail = "ManagePoliciesFromDetails"
	StepEditTags                 = "EditTags"
	StepEditTagsFromDetails      = "EditTagsFromDetails"
	StepTimelines                = "Timelines"
	StepInstances                = "Instances"
	StepImages                   = "Images"
)

// CloudProvider is the model object navigation targets refer to.
type CloudProvider struct {
	Name string
	Zone string
	Key  string
}

// FillValue is the provider's representation in form fills.
func (p *CloudProvider) FillValue() string {
	return p.Name
}

// Credential feeds the discovery form.
type Credential struct {
	Principal    string
	Secret       string
	VerifySecret string
}

var registry = nav.NewRegistry()

func init() {
	RegisterSteps(registry)
}

// NewContext builds a navigation context for a session and optional
// provider target.
func NewContext(sess *browser.Session, target *CloudProvider) *nav.Context {
	return &nav.Context{
		Session:          sess,
		Target:           target,
		DescribeLocation: sess.URL,
	}
}

// NavigateTo resolves a registered cloud-provider step against the
// default registry.
func NavigateTo(sess *browser.Session, target *CloudProvider, step string) (nav.View, error) {
	return registry.NavigateTo(NewContext(sess, target), KindCloudProvider, step)
}

func sessionOf(ctx *nav.Context) *browser.Session {
	return ctx.Session.(*browser.Session)
}

func providerOf(ctx *nav.Context) (*CloudProvider, error) {
	p, ok := ctx.Target.(*CloudProvider)
	if !ok || p == nil {
		return nil, errors.New("step requires a provider target")
	}
	return p, nil
}

// RegisterSteps installs the cloud-provider navigation graph into a
// registry. The default package registry is populated at init; tests
// can install into their own.
func RegisterSteps(r *nav.Registry) {
	r.MustRegister(KindServer, StepLoggedIn, nav.Step{
		OnArrival: func(ctx *nav.Context) (bool, error) {
			return sessionOf(ctx).IsVisible("nav#main-nav")
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			if err := sess.Goto("/"); err != nil {
				return err
			}
			return sess.WaitVisible("nav#main-nav")
		},
	})

	r.MustRegister(KindCloudProvider, StepAll, nav.Step{
		Prerequisite: nav.To(KindServer, StepLoggedIn),
		View: func(ctx *nav.Context) nav.View {
			return NewProvidersView(sessionOf(ctx))
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			if err := sess.Click("a[data-nav='compute-clouds-providers']"); err != nil {
				return err
			}
			return sess.WaitVisible("#explorer-title")
		},
		// Served from the fast path: force grid view and clear any
		// leftover selection so callers start from a known state.
		OnReset: func(ctx *nav.Context) error {
			view := NewProvidersView(sessionOf(ctx))
			selected, err := view.ViewSelector().Selected()
			if err != nil {
				return err
			}
			if selected != "grid" {
				if err := view.ViewSelector().Select("grid"); err != nil {
					return err
				}
			}
			pag := view.Paginator()
			exists, err := pag.Exists()
			if err != nil {
				return err
			}
			if exists {
				if err := pag.CheckAll(); err != nil {
					return err
				}
				if err := pag.UncheckAll(); err != nil {
					return err
				}
			}
			return nil
		},
	})

	r.MustRegister(KindCloudProvider, StepAdd, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			return &ProviderFormView{sess: sessionOf(ctx), action: "new"}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			if err := NewProvidersView(sess).Configuration().ItemSelect("new"); err != nil {
				return err
			}
			return sess.WaitVisible("#provider-form")
		},
	})

	r.MustRegister(KindCloudProvider, StepDiscover, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			return &DiscoverView{sess: sessionOf(ctx)}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			if err := NewProvidersView(sess).Configuration().ItemSelect("discover"); err != nil {
				return err
			}
			return sess.WaitVisible("#discover-form")
		},
	})

	r.MustRegister(KindCloudProvider, StepDetails, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			p, _ := ctx.Target.(*CloudProvider)
			return &DetailsView{sess: sessionOf(ctx), provider: p}
		},
		OnStep: func(ctx *nav.Context) error {
			p, err := providerOf(ctx)
			if err != nil {
				return err
			}
			return NewProvidersView(sessionOf(ctx)).ClickItem(p.Name)
		},
	})

	r.MustRegister(KindCloudProvider, StepEdit, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			return &ProviderFormView{sess: sessionOf(ctx), action: "edit"}
		},
		OnStep: func(ctx *nav.Context) error {
			p, err := providerOf(ctx)
			if err != nil {
				return err
			}
			sess := sessionOf(ctx)
			view := NewProvidersView(sess)
			if err := view.SelectItem(p.Name); err != nil {
				return err
			}
			if err := view.Configuration().ItemSelect("edit-selected"); err != nil {
				return err
			}
			return sess.WaitVisible("#provider-form")
		},
	})

	r.MustRegister(KindCloudProvider, StepEditFromDetails, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		View: func(ctx *nav.Context) nav.View {
			return &ProviderFormView{sess: sessionOf(ctx), action: "edit"}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			details := &DetailsView{sess: sess}
			if err := details.Configuration().ItemSelect("edit"); err != nil {
				return err
			}
			return sess.WaitVisible("#provider-form")
		},
	})

	r.MustRegister(KindCloudProvider, StepManagePolicies, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			return &PolicyView{sess: sessionOf(ctx), action: "protect"}
		},
		OnStep: func(ctx *nav.Context) error {
			p, err := providerOf(ctx)
			if err != nil {
				return err
			}
			sess := sessionOf(ctx)
			view := NewProvidersView(sess)
			if err := view.SelectItem(p.Name); err != nil {
				return err
			}
			if err := view.Policy().ItemSelect("manage-policies"); err != nil {
				return err
			}
			return sess.WaitVisible("#policy-title")
		},
	})

	r.MustRegister(KindCloudProvider, StepManagePoliciesFromDetail, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		View: func(ctx *nav.Context) nav.View {
			return &PolicyView{sess: sessionOf(ctx), action: "protect"}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			details := &DetailsView{sess: sess}
			if err := details.Policy().ItemSelect("manage-policies"); err != nil {
				return err
			}
			return sess.WaitVisible("#policy-title")
		},
	})

	r.MustRegister(KindCloudProvider, StepEditTags, nav.Step{
		Prerequisite: nav.Sibling(StepAll),
		View: func(ctx *nav.Context) nav.View {
			return &PolicyView{sess: sessionOf(ctx), action: "tagging"}
		},
		OnStep: func(ctx *nav.Context) error {
			p, err := providerOf(ctx)
			if err != nil {
				return err
			}
			sess := sessionOf(ctx)
			view := NewProvidersView(sess)
			if err := view.SelectItem(p.Name); err != nil {
				return err
			}
			if err := view.Policy().ItemSelect("edit-tags"); err != nil {
				return err
			}
			return sess.WaitVisible("#policy-title")
		},
	})

	r.MustRegister(KindCloudProvider, StepEditTagsFromDetails, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		View: func(ctx *nav.Context) nav.View {
			return &PolicyView{sess: sessionOf(ctx), action: "tagging"}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			details := &DetailsView{sess: sess}
			if err := details.Policy().ItemSelect("edit-tags"); err != nil {
				return err
			}
			return sess.WaitVisible("#policy-title")
		},
	})

	r.MustRegister(KindCloudProvider, StepTimelines, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		View: func(ctx *nav.Context) nav.View {
			return &TimelinesView{sess: sessionOf(ctx)}
		},
		OnStep: func(ctx *nav.Context) error {
			sess := sessionOf(ctx)
			details := &DetailsView{sess: sess}
			if err := details.Monitoring().ItemSelect("timelines"); err != nil {
				return err
			}
			return sess.WaitVisible("#timeline-title")
		},
	})

	// Instances and Images have no view binding; arrival is checked by
	// summary match only.
	r.MustRegister(KindCloudProvider, StepInstances, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		OnArrival: func(ctx *nav.Context) (bool, error) {
			p, err := providerOf(ctx)
			if err != nil {
				return false, err
			}
			return matchPage(sessionOf(ctx), "show", p.Name+" (All Instances)")
		},
		OnStep: func(ctx *nav.Context) error {
			details := &DetailsView{sess: sessionOf(ctx)}
			return details.ClickInfoLink("Relationships", "Instances")
		},
	})

	r.MustRegister(KindCloudProvider, StepImages, nav.Step{
		Prerequisite: nav.Sibling(StepDetails),
		OnArrival: func(ctx *nav.Context) (bool, error) {
			p, err := providerOf(ctx)
			if err != nil {
				return false, err
			}
			return matchPage(sessionOf(ctx), "show", p.Name+" (All Images)")
		},
		OnStep: func(ctx *nav.Context) error {
			details := &DetailsView{sess: sessionOf(ctx)}
			return details.ClickInfoLink("Relationships", "Images")
		},
	})
}
