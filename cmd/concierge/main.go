package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderdesk/concierge/common/environment"
	"github.com/orderdesk/concierge/common/retry"
	"github.com/orderdesk/concierge/common/version"
	"github.com/orderdesk/concierge/internal/concierge/app"
	"github.com/orderdesk/concierge/internal/concierge/gateway"
	"github.com/orderdesk/concierge/internal/concierge/httpapi"
	"github.com/orderdesk/concierge/internal/concierge/notify"
	"github.com/orderdesk/concierge/internal/concierge/nlu"
	"github.com/orderdesk/concierge/internal/concierge/observability"
	"github.com/orderdesk/concierge/internal/concierge/profile"
	"github.com/orderdesk/concierge/internal/concierge/store"
)

func main() {
	fmt.Printf("Concierge Ordering Agent\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	observability.Setup(
		environment.StringOr("LOG_LEVEL", "info"),
		environment.StringOr("LOG_FORMAT", "text"),
	)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prof, err := profile.Load(environment.StringOr("PROFILE_PATH", ""))
	if err != nil {
		return err
	}

	db, err := store.New(environment.StringOr("DATABASE_PATH", "./concierge.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := buildNLUProvider()
	if err != nil {
		return err
	}

	// Matrix is optional: without it the bot serves the HTTP API only.
	matrixCfg := &gateway.Config{
		Homeserver:  environment.StringOr("MATRIX_HOMESERVER", ""),
		UserID:      environment.StringOr("MATRIX_USER_ID", ""),
		AccessToken: environment.StringOr("MATRIX_ACCESS_TOKEN", ""),
		Rooms:       environment.StringSliceOr("MATRIX_ROOMS", nil),
		DB:          db.DB(),
	}

	concierge, err := app.New(app.Config{
		Profile:    prof,
		NLU:        provider,
		Store:      db,
		SessionTTL: environment.DurationOr("SESSION_TTL", 0),
		RateLimit:  environment.IntOr("NLU_RATE_LIMIT", 0),
	})
	if err != nil {
		return err
	}

	if matrixCfg.Homeserver != "" {
		if matrixCfg.UserID == "" || matrixCfg.AccessToken == "" || len(matrixCfg.Rooms) == 0 {
			return fmt.Errorf("MATRIX_HOMESERVER is set but MATRIX_USER_ID, MATRIX_ACCESS_TOKEN or MATRIX_ROOMS is missing")
		}
		mx, err := gateway.New(matrixCfg, concierge)
		if err != nil {
			return err
		}
		concierge.SetNotifier(notify.NewStaffNotifier(mx, environment.StringOr("MATRIX_STAFF_ROOM", "")))
		if err := mx.Start(ctx); err != nil {
			return err
		}
		defer mx.Stop()
	}

	srv := httpapi.NewServer(environment.StringOr("HTTP_ADDR", ":8080"), concierge)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	// Expired drafts are dropped in the background so abandoned
	// conversations do not accumulate.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				concierge.PruneSessions()
			}
		}
	}()

	<-ctx.Done()
	return nil
}

// buildNLUProvider constructs the Azure CLU client when configured, falling
// back to the offline keyword provider so the bot works without any cloud
// dependency.
func buildNLUProvider() (nlu.Provider, error) {
	endpoint := environment.StringOr("CLU_ENDPOINT", "")
	if endpoint == "" {
		return nlu.NewOffline(), nil
	}

	key, err := environment.RequiredString("CLU_KEY")
	if err != nil {
		return nil, err
	}
	project, err := environment.RequiredString("CLU_PROJECT")
	if err != nil {
		return nil, err
	}
	deployment, err := environment.RequiredString("CLU_DEPLOYMENT")
	if err != nil {
		return nil, err
	}

	return nlu.NewAzure(nlu.AzureConfig{
		Endpoint:   endpoint,
		Key:        key,
		Project:    project,
		Deployment: deployment,
		APIVersion: environment.StringOr("CLU_API_VERSION", ""),
		Timeout:    environment.DurationOr("CLU_TIMEOUT", 0),
		Retry:      retry.DefaultConfig,
	})
}
