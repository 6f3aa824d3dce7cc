// Command meetingctl runs meeting operations directly against the store,
// for operators cleaning up data outside the HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/crmhub/crmhub/backend/go-services/internal/config"
	"github.com/crmhub/crmhub/backend/go-services/internal/database"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/repository"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/service"
	"github.com/crmhub/crmhub/backend/go-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := newRootCmd(openMongo).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openMongo connects using the service configuration; mongoURI overrides MONGODB_URI.
func openMongo(ctx context.Context, mongoURI string) (service.Service, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if mongoURI != "" {
		cfg.MongoDB.URI = mongoURI
	}
	if cfg.MongoDB.URI == "" {
		return nil, nil, fmt.Errorf("no MongoDB configured: set MONGODB_URI or --mongo-uri")
	}
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 3, 500*time.Millisecond)
	if err != nil {
		return nil, nil, err
	}
	cols := repository.Collections{
		Meetings: cfg.Collections.Meetings,
		Contacts: cfg.Collections.Contacts,
		Leads:    cfg.Collections.Leads,
		Users:    cfg.Collections.Users,
	}
	svc := service.NewMongoService(client.Database(cfg.MongoDB.Database), cols)
	return svc, func() { _ = client.Disconnect(context.Background()) }, nil
}
