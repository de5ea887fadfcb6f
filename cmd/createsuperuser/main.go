package main

import (
	"context"
	"flag"
	"os"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acme/accountd/internal/repository/postgres"
	"github.com/acme/accountd/internal/service/account"
	"github.com/acme/accountd/pkg/config"
	"github.com/acme/accountd/pkg/logger"
)

// Bootstraps the first privileged account so an operator can reach the admin
// console.
func main() {
	email := flag.String("email", "", "email for the new superuser (required)")
	password := flag.String("password", "", "password for the new superuser (required)")
	flag.Parse()

	cfg := config.LoadAPIConfig()
	log := logger.New("createsuperuser", slog.LevelInfo)

	if *email == "" || *password == "" {
		log.Error("both -email and -password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := account.New(postgres.New(pool), log)
	created, err := svc.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		log.Error("failed to create superuser", "error", err)
		os.Exit(1)
	}
	log.Info("superuser created", "account_id", created.ID, "email", created.Email)
}
