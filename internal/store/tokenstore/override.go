package tokenstore

import "context"

// SourceEnv is reported when the token comes from the environment.
const SourceEnv = "env"

type overrideStore struct {
	Store
	token string
}

// WithOverride returns a store whose Read always yields token when it is
// non-empty. Writes still reach the wrapped store.
func WithOverride(s Store, token string) Store {
	token = normalize(token)
	if token == "" {
		return s
	}
	return &overrideStore{Store: s, token: token}
}

func (s *overrideStore) Read(context.Context) (string, bool, error) {
	return s.token, true, nil
}

func (s *overrideStore) Source() string { return SourceEnv }
