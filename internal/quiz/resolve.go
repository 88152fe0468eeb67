package quiz

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/config"
	"github.com/sarikapunglia/Dronacharya/internal/db"
)

const remoteRequestTimeout = 30 * time.Second

// ResolveStore binds the process to exactly one storage backend based on
// the platform resolved at startup. It is called once from main and the
// returned Store is passed down explicitly; nothing re-resolves the
// platform mid-session.
func ResolveStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Platform {
	case config.PlatformNetworked:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("networked platform requires SERVER_URL")
		}
		return NewRemoteStore(cfg.ServerURL, &http.Client{Timeout: remoteRequestTimeout}), nil
	case config.PlatformEmbedded:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("embedded store: %w", err)
		}
		return NewSQLStore(dbh, db.Driver(cfg.DBDriver)), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %q", cfg.Platform)
	}
}
