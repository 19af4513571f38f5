package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"bounty-market/internal/auth"
	"bounty-market/internal/config"
	"bounty-market/internal/database"
	"bounty-market/internal/handlers"
	"bounty-market/internal/jobs"
	"bounty-market/internal/repository"
	"bounty-market/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret, cfg.App.JWTTTL)

	// Connect to database
	if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := repository.NewRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(repo, cfg.App.ChallengeTTL)
	workspaceService := services.NewWorkspaceService(repo)
	bountyService := services.NewBountyService(repo, services.BountyOptions{
		ReserveOnPublish: cfg.App.ReserveOnPublish,
	})

	gin.SetMode(cfg.Server.GinMode)
	router := handlers.NewRouter(handlers.Services{
		Auth:      authService,
		Workspace: workspaceService,
		Bounty:    bountyService,
	}, cfg.Server.FrontendURL)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	reconciler := jobs.NewBudgetReconciler(workspaceService, authService, cfg.Jobs.ReconcileInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return reconciler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}

	log.Println("Server exited")
}
