// Package firebase bootstraps the Firebase Admin SDK
package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"google.golang.org/api/option"
)

// App bundles the Firebase clients used by the service
type App struct {
	app       *fb.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewApp initializes the Admin SDK and its Firestore and Auth clients.
// An emulator host routes Firestore traffic to a local emulator.
func NewApp(ctx context.Context, cfg config.FirebaseConfig) (*App, error) {
	if cfg.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return nil, fmt.Errorf("set firestore emulator host: %w", err)
		}
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("initialize firebase auth client: %w", err)
	}

	return &App{app: app, Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection
func (a *App) Close() error {
	return a.Firestore.Close()
}
