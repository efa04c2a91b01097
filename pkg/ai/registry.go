package ai

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docqa/pkg/config"
)

// ProviderType names an LLM backend.
type ProviderType string

const (
	ProviderGoogle ProviderType = config.ProviderGoogle
	ProviderOpenAI ProviderType = config.ProviderOpenAI
)

// ErrUnknownProvider is returned for a provider type nobody registered.
var ErrUnknownProvider = errors.New("unknown provider type")

// ProviderConfig holds configuration for creating a provider.
type ProviderConfig struct {
	Type   ProviderType
	Config config.Config
}

// ProviderFactory is a function that creates a Provider from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Type         ProviderType
	Name         string
	Description  string
	DefaultModel string
	RequiresKey  bool
}

type registration struct {
	info    ProviderInfo
	factory ProviderFactory
}

// Registry maps provider types to factories. Providers add themselves from
// init in the providers package.
type Registry struct {
	mu      sync.RWMutex
	entries map[ProviderType]registration
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[ProviderType]registration)}
}

// Register adds or replaces the provider for info.Type.
func (r *Registry) Register(info ProviderInfo, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[info.Type] = registration{info: info, factory: factory}
}

// Info returns the description of a registered provider.
func (r *Registry) Info(providerType ProviderType) (ProviderInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[providerType]
	return entry.info, ok
}

// GetProvider creates a provider instance by type.
func (r *Registry) GetProvider(cfg ProviderConfig) (Provider, error) {
	r.mu.RLock()
	entry, ok := r.entries[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Type)
	}
	return entry.factory(cfg)
}

// ListProviders returns the registered providers sorted by type.
func (r *Registry) ListProviders() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]ProviderInfo, 0, len(r.entries))
	for _, entry := range r.entries {
		providers = append(providers, entry.info)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Type < providers[j].Type
	})
	return providers
}

// DefaultRegistry is the global provider registry.
var DefaultRegistry = NewRegistry()

// RegisterProvider registers a provider with the default registry.
func RegisterProvider(info ProviderInfo, factory ProviderFactory) {
	DefaultRegistry.Register(info, factory)
}

// GetProvider creates a provider from the default registry.
func GetProvider(cfg ProviderConfig) (Provider, error) {
	return DefaultRegistry.GetProvider(cfg)
}

// ListProviders returns all providers from the default registry.
func ListProviders() []ProviderInfo {
	return DefaultRegistry.ListProviders()
}

// ValidateProviderType parses a provider name, ignoring case and surrounding space.
func ValidateProviderType(s string) (ProviderType, bool) {
	switch pt := ProviderType(strings.ToLower(strings.TrimSpace(s))); pt {
	case ProviderGoogle, ProviderOpenAI:
		return pt, true
	}
	return "", false
}

// selectedType is the provider cfg asks for. Unknown values fall back to Google.
func selectedType(cfg config.Config) ProviderType {
	if pt, ok := ValidateProviderType(cfg.LLMProvider); ok {
		return pt
	}
	return ProviderGoogle
}

// ResolveModel returns the model the selected provider will use: the
// configured one, or the provider's registered default.
func ResolveModel(cfg config.Config) string {
	pt := selectedType(cfg)
	model := cfg.Providers.Google.Model
	if pt == ProviderOpenAI {
		model = cfg.Providers.OpenAI.Model
	}
	if model = strings.TrimSpace(model); model != "" {
		return model
	}
	if info, ok := DefaultRegistry.Info(pt); ok {
		return info.DefaultModel
	}
	return ""
}

// GetProviderFromConfig creates the provider selected by cfg.LLMProvider.
func GetProviderFromConfig(cfg config.Config) (Provider, error) {
	return GetProvider(ProviderConfig{
		Type:   selectedType(cfg),
		Config: cfg,
	})
}
