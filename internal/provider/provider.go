// Package provider defines the base interface shared by external service
// backends (speech recognition, language model).
package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the provider's registered name.
	Name() string

	// IsAvailable reports whether the backend is reachable.
	IsAvailable(ctx context.Context) bool
}
