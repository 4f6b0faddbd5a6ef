package cmd

import (
	"likedposts/app/client"
	"likedposts/app/config"
	"likedposts/app/repositories"
	"likedposts/app/services"

	"github.com/dgraph-io/badger/v4"
)

// store is the opened session store plus the services built on it.
type store struct {
	db       *badger.DB
	sessions *services.SessionService
}

func openStore(cfg *config.Config) (*store, error) {
	db, err := repositories.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	repo, err := repositories.NewBadgerSessionRepository(db, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &store{db: db, sessions: services.NewSessionService(repo)}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

// client returns a backend client reading the terminal session's token.
func (s *store) client(cfg *config.Config) *client.Client {
	return newClient(cfg, s.sessions.Tokens(services.CLISessionID))
}

func newClient(cfg *config.Config, tokens client.TokenSource) *client.Client {
	return client.New(cfg.APIBaseURL, tokens, client.WithTimeout(cfg.RequestTimeout))
}
