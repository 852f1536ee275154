package oauth

import "context"

// Profile is the external identity returned by a provider after a successful
// code exchange.
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	AvatarURL  string
}

// Provider abstracts an OAuth identity provider. The orchestrator only ever
// sees this interface, so tests can substitute a fake.
type Provider interface {
	Name() string
	// AuthCodeURL builds the provider consent URL for the given state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the external profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

func splitName(full string) (first, last string) {
	first = full
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return first, ""
}
