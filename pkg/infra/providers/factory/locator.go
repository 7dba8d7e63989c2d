package factory

import (
	"fmt"

	"github.com/commercegate/catalog-agent/pkg/infra/providers"
	"github.com/commercegate/catalog-agent/pkg/infra/providers/anthropic"
	"github.com/commercegate/catalog-agent/pkg/infra/providers/gemini"
	"github.com/commercegate/catalog-agent/pkg/infra/providers/openai"
)

const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct{}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	switch provider {
	case ProviderGoogle:
		return gemini.NewGeminiClient(), nil
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
