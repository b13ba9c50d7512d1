package provider

import (
	"log/slog"

	"github.com/recharge-store-backend/internal/config"
	"github.com/recharge-store-backend/internal/domain/game"
)

// Registry holds the configured provider clients keyed by game type. Games
// without a configured endpoint are simply absent and fail closed on
// stock-out.
type Registry struct {
	clients map[game.Type]Client
}

// NewRegistry builds the registry from configuration, creating one client per
// game with a configured endpoint
func NewRegistry(logger *slog.Logger, cfg *config.ProviderConfig) *Registry {
	r := &Registry{clients: make(map[game.Type]Client)}

	endpoints := map[game.Type]config.ProviderEndpoint{
		game.FreeFireLatam:  cfg.FreeFireLatam,
		game.FreeFireGlobal: cfg.FreeFireGlobal,
	}

	for t, endpoint := range endpoints {
		if endpoint.URL == "" {
			continue
		}
		variant, err := game.Lookup(t)
		if err != nil {
			continue
		}
		r.clients[t] = NewHTTPClient(logger, variant, endpoint, cfg)
		logger.Info("Provider client registered", "game", string(t))
	}

	return r
}

// Register adds or replaces a client for a game type
func (r *Registry) Register(t game.Type, c Client) {
	r.clients[t] = c
}

// Lookup returns the client for a game type, if one is configured
func (r *Registry) Lookup(t game.Type) (Client, bool) {
	c, ok := r.clients[t]
	return c, ok
}
