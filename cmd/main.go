package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/dtroode/authcore/internal/api/grpc/context"
	"github.com/dtroode/authcore/internal/api/grpc/router"
	grpcServer "github.com/dtroode/authcore/internal/api/grpc/server"
	"github.com/dtroode/authcore/internal/config"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/notify"
	"github.com/dtroode/authcore/internal/password"
	"github.com/dtroode/authcore/internal/repository/memory"
	"github.com/dtroode/authcore/internal/repository/postgres"
	"github.com/dtroode/authcore/internal/server"
	"github.com/dtroode/authcore/internal/service"
	storage "github.com/dtroode/authcore/internal/storage/minio"
	"github.com/dtroode/authcore/internal/telemetry"
	"github.com/dtroode/authcore/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	store, closeStore := openStore(ctx, cfg.Database, logger)
	defer closeStore()

	hasher, err := password.New(password.Options{
		Algorithm:       cfg.Hash.Algorithm,
		SaltLength:      cfg.Hash.SaltLength,
		HashLength:      cfg.Hash.HashLength,
		Iterations:      cfg.Hash.Iterations,
		Digest:          cfg.Hash.Digest,
		BcryptCost:      cfg.Hash.BcryptCost,
		Argon2Time:      cfg.Hash.Argon2Time,
		Argon2Memory:    cfg.Hash.Argon2Memory,
		Argon2Threads:   cfg.Hash.Argon2Threads,
		Pepper:          cfg.Hash.Pepper,
		PepperVersion:   cfg.Hash.PepperVersion,
		PreviousPeppers: cfg.Hash.PreviousPeppers,
	})
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	sessionCodec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.TTL, token.PurposeSession)
	emailCodec := token.NewCodec(cfg.EmailToken.Secret, cfg.EmailToken.TTL, token.PurposeEmailVerification)
	resetCodec := token.NewCodec(cfg.Password.ResetSecret, cfg.Password.ResetTTL, token.PurposePasswordReset)

	sender := newSender(ctx, cfg, logger)

	opts := service.Options{
		VerificationRequired: cfg.Emails.VerificationRequired,
		VerificationHost:     cfg.Emails.VerificationHost,
		MaxAssociatedEmails:  cfg.Emails.MaxAssociated,
		ResetPageURL:         cfg.Password.ResetPageURL,
		HistoryLimit:         cfg.Password.HistoryLimit,
	}

	emailService := service.NewEmail(store, emailCodec, sender, opts, logger)
	authService := service.NewAuth(store, hasher, sessionCodec, emailService, opts, logger)
	passwordService := service.NewPassword(store, hasher, resetCodec, sender, opts, logger)
	userService := service.NewUser(store, logger)

	services := router.Services{
		Auth:          authService,
		Authenticator: authService,
		Email:         emailService,
		Password:      passwordService,
		User:          userService,
	}
	grpcServer := registerGRPCServer(logger, services, cfg.SSO.SharedSecret, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer

	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}
	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("error during tracing shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// openStore returns the configured credential store and its close function.
func openStore(ctx context.Context, cfg config.Database, logger *logger.Logger) (model.CredentialStore, func()) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("using in-memory credential store, data is lost on restart")
		return memory.NewStore(), func() {}
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		return postgres.NewStore(db), func() { _ = db.Close() }
	default:
		logger.Fatal("unknown database driver", "driver", cfg.Driver)
		return nil, nil
	}
}

// newSender returns the configured notification sender.
func newSender(ctx context.Context, cfg *config.Config, logger *logger.Logger) model.NotificationSender {
	switch cfg.Notify.Driver {
	case "log":
		return notify.NewLogSender(logger)
	case "minio":
		storageClient, err := storage.Connect(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		return notify.NewSpoolSender(storageClient, logger)
	default:
		logger.Fatal("unknown notification driver", "driver", cfg.Notify.Driver)
		return nil
	}
}

func registerGRPCServer(
	logger *logger.Logger,
	services router.Services,
	ssoSecret string,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(services, ssoSecret, grpcctx.NewManager(), logger)
	s := r.Register()

	return grpcServer.NewGRPCServer(s, addr)
}
