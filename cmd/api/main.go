package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warden.dev/internal/auth"
	"warden.dev/internal/config"
	"warden.dev/internal/httpapi"
	"warden.dev/internal/obs"
	"warden.dev/internal/store"
	"warden.dev/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	tokens, err := auth.NewTokenService([]byte(cfg.TokenSecret), auth.WithDefaultTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	authorizer, err := auth.NewAuthorizer(auth.DefaultCatalog())
	if err != nil {
		log.Fatalf("authorizer: %v", err)
	}

	var (
		users store.Store
		probe httpapi.ReadyProbe
	)
	if cfg.PostgresDSN != "" {
		pgStore, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pgStore.Close()
		users = pgStore
		probe = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		log.Print("WARDEN_PG_DSN not set, using in-memory user store")
		users = store.NewMemory()
	}

	api, err := httpapi.New(httpapi.Options{
		Version:            version,
		ReadyProbe:         probe,
		Users:              users,
		Hasher:             hasher,
		Tokens:             tokens,
		Authorizer:         authorizer,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("api: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting warden-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
