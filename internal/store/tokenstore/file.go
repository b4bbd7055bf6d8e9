package tokenstore

import (
	"context"
	"time"

	"github.com/Makepad-fr/debts/internal/store/jsonstore"
)

type fileStore struct {
	path string
}

// NewFile stores the token as JSON at path (0600, parent dir 0700).
// Every Read goes to disk.
func NewFile(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Read(context.Context) (string, bool, error) {
	var rec record
	found, err := jsonstore.Load(s.path, &rec)
	if err != nil {
		return "", false, err
	}
	token := normalize(rec.Token)
	if !found || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *fileStore) Write(_ context.Context, token string) error {
	token = normalize(token)
	if token == "" {
		return jsonstore.Remove(s.path)
	}
	return jsonstore.Save(s.path, record{Token: token, CreatedAt: time.Now().UTC()}, 0o600)
}

func (s *fileStore) Source() string { return DriverFile }

func (s *fileStore) Close() error { return nil }

// Path is where the credential file lives.
func (s *fileStore) Path() string { return s.path }
