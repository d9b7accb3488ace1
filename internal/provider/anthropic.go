// Package provider constructs the Anthropic API client.
package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewClient returns a client for the given API key. An empty key falls back
// to the SDK's environment lookup.
func NewClient(apiKey string) *anthropic.Client {
	var c anthropic.Client
	if apiKey != "" {
		c = anthropic.NewClient(option.WithAPIKey(apiKey))
	} else {
		c = anthropic.NewClient()
	}
	return &c
}

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest
