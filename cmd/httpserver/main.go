package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/tasknest/vault-backend/api/objecthandler"
	"github.com/tasknest/vault-backend/api/vaulthandler"
	"github.com/tasknest/vault-backend/auth"
	"github.com/tasknest/vault-backend/common"
	"github.com/tasknest/vault-backend/cryptoutils"
	"github.com/tasknest/vault-backend/httpserver"
	"github.com/tasknest/vault-backend/storage"
	"github.com/tasknest/vault-backend/vault"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:  "db",
		Value: "sqlite://vault.db",
		Usage: "database DSN (sqlite://path or sqlite://:memory:)",
	},
	&cli.StringFlag{
		Name:    "jwt-secret",
		EnvVars: []string{"VAULT_JWT_SECRET"},
		Usage:   "secret for signing session tokens (required)",
	},
	&cli.IntFlag{
		Name:  "kdf-iterations",
		Value: cryptoutils.DefaultIterations,
		Usage: "PBKDF2 iteration count for new registrations",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: common.PackageName,
		Usage: "add 'service' tag to logs",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:  "vault-server",
		Usage: "Serve the encrypted vault API",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			metricsAddr := cCtx.String("metrics-addr")
			dbDSN := cCtx.String("db")
			jwtSecret := cCtx.String("jwt-secret")
			kdfIterations := cCtx.Int("kdf-iterations")
			logJSON := cCtx.Bool("log-json")
			logDebug := cCtx.Bool("log-debug")
			logUID := cCtx.Bool("log-uid")
			logService := cCtx.String("log-service")
			enablePprof := cCtx.Bool("pprof")
			drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

			logger := common.SetupLogger(&common.LoggingOpts{
				Debug:   logDebug,
				JSON:    logJSON,
				Service: logService,
				Version: common.Version,
			})

			if logUID {
				id := uuid.Must(uuid.NewRandom())
				logger = logger.With("uid", id.String())
			}

			issuer, err := auth.NewTokenIssuer([]byte(jwtSecret), common.PackageName)
			if err != nil {
				logger.Error("Failed to create token issuer", "err", err)
				return err
			}

			logger.Info("Opening database", "dsn", dbDSN)
			store, err := storage.Open(dbDSN, logger)
			if err != nil {
				logger.Error("Failed to open database", "err", err)
				return err
			}

			service, err := vault.NewService(store, kdfIterations, logger)
			if err != nil {
				logger.Error("Failed to create vault service", "err", err)
				return err
			}

			accounts := vaulthandler.NewHandler(service, store, issuer, logger)
			objects := objecthandler.NewHandler(store, logger)

			cfg := &httpserver.HTTPServerConfig{
				ListenAddr:               listenAddr,
				MetricsAddr:              metricsAddr,
				Log:                      logger,
				EnablePprof:              enablePprof,
				DrainDuration:            drainDuration,
				GracefulShutdownDuration: 30 * time.Second,
				ReadTimeout:              60 * time.Second,
				WriteTimeout:             30 * time.Second,
			}

			server, err := httpserver.New(cfg, accounts, objects, issuer)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
