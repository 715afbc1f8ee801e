// Package api holds the small interfaces shared between providers and callers.
package api

import "github.com/casualjim/genwire/provider"

// Model binds a model name to the provider that serves it.
type Model interface {
	Name() string
	Provider() provider.Provider
}
