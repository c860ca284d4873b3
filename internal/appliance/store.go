package appliance

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AndreyMenezes/integration-tests/internal/errs"
)

// Provider is one managed cloud provider record.
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Zone      string `json:"zone"`
	Instances int    `json:"instances"`
	Images    int    `json:"images"`
}

// Discovery records one submitted discovery request. The credential
// secret is deliberately not retained.
type Discovery struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// Store holds appliance state in memory. One mutex covers everything;
// the fixture serves a single browser session at a time.
type Store struct {
	mu          sync.Mutex
	providers   map[string]Provider // keyed by ID
	discoveries []Discovery
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{providers: make(map[string]Provider)}
}

// AddProvider registers a provider, assigning it an ID.
func (s *Store) AddProvider(p Provider) (Provider, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Provider{}, errs.New(errs.InvalidArgument, "provider name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.providers {
		if existing.Name == p.Name {
			return Provider{}, errs.New(errs.InvalidArgument, "provider name already in use")
		}
	}
	p.ID = uuid.NewString()
	s.providers[p.ID] = p
	return p, nil
}

// UpdateProvider replaces the mutable fields of an existing provider.
func (s *Store) UpdateProvider(id string, name, zone string) (Provider, error) {
	if strings.TrimSpace(name) == "" {
		return Provider{}, errs.New(errs.InvalidArgument, "provider name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[id]
	if !ok {
		return Provider{}, errs.New(errs.NotFound, "provider not found")
	}
	p.Name = name
	p.Zone = zone
	s.providers[id] = p
	return p, nil
}

// Provider returns a provider by ID.
func (s *Store) Provider(id string) (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[id]
	if !ok {
		return Provider{}, errs.New(errs.NotFound, "provider not found")
	}
	return p, nil
}

// ProviderByName returns a provider by display name.
func (s *Store) ProviderByName(name string) (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, errs.New(errs.NotFound, "provider not found")
}

// Providers returns all providers sorted by name.
func (s *Store) Providers() []Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeleteProvider removes a provider by name.
func (s *Store) DeleteProvider(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.providers {
		if p.Name == name {
			delete(s.providers, id)
			return nil
		}
	}
	return errs.New(errs.NotFound, "provider not found")
}

// Reset drops all providers and recorded discoveries.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = make(map[string]Provider)
	s.discoveries = nil
}

// RecordDiscovery appends a discovery request.
func (s *Store) RecordDiscovery(d Discovery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discoveries = append(s.discoveries, d)
}

// Discoveries returns all recorded discovery requests.
func (s *Store) Discoveries() []Discovery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Discovery, len(s.discoveries))
	copy(out, s.discoveries)
	return out
}
