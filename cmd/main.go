package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wgpanel/internal/adapters/api"
	"wgpanel/internal/adapters/blob"
	"wgpanel/internal/adapters/db/memory"
	pgrepo "wgpanel/internal/adapters/db/postgres"
	"wgpanel/internal/adapters/wg"
	"wgpanel/internal/application/ipam"
	apppeer "wgpanel/internal/application/peer"
	appstatus "wgpanel/internal/application/status"
	"wgpanel/internal/config"
	"wgpanel/internal/domain/vpn"
	"wgpanel/pkg/wireguard"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.LoadConfig()

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("interface", cfg.WireGuard.Interface).
		Str("subnet", cfg.WireGuard.Subnet).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Msg("Starting wgpanel server")

	// Initialize repositories (choose Postgres or in-memory)
	var peerRepo vpn.PeerRepository
	var serverRepo vpn.ServerRepository

	if cfg.Database.Enabled {
		log.Info().Msg("Initializing Postgres repositories")
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping postgres")
		}
		if err := pgrepo.RunMigrations(ctx, db, cfg.Database.Migrations); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		peerRepo = pgrepo.NewPeerRepository(db)
		serverRepo = pgrepo.NewServerRepository(db)
	} else {
		log.Warn().Msg("DB disabled - using in-memory repositories")
		repo := memory.NewRepository()
		peerRepo = repo
		serverRepo = repo
	}

	ctx := context.Background()

	// Blob store for generated client configs
	blobStore, err := blob.NewFSStore(cfg.ConfigDir)
	if err != nil {
		log.Fatal().Err(err).Msg("init blob store")
	}

	// Ensure the singleton server record exists
	if err := bootstrapServer(ctx, serverRepo, cfg); err != nil {
		log.Fatal().Err(err).Msg("bootstrap server record")
	}

	// Address plan, rebuilt from the persisted peers
	plan, err := ipam.NewService(ctx, cfg.WireGuard.Subnet)
	if err != nil {
		log.Fatal().Err(err).Msg("init address plan")
	}
	if peers, err := peerRepo.ListPeers(ctx); err != nil {
		log.Warn().Err(err).Msg("could not list peers to seed address plan")
	} else {
		cidrs := make([]string, 0, len(peers))
		for _, p := range peers {
			cidrs = append(cidrs, p.AllowedIPs)
		}
		plan.Seed(ctx, cidrs)
	}

	// Live interface access
	wgClient := wg.NewClient(cfg.WireGuard.Interface, &wg.SudoRunner{})

	// Services
	wsManager := api.NewWebSocketManager()
	peerService := apppeer.NewService(peerRepo, serverRepo, blobStore, wgClient, plan)
	statusService := appstatus.NewService(peerRepo, serverRepo, wgClient, wsManager)

	// Initialize API handler
	handler := api.NewHandler(peerService, statusService, serverRepo, &cfg.Auth, wsManager)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	handler.RegisterRoutes(r)

	// Periodic reconciliation
	if cfg.WireGuard.SyncInterval > 0 {
		go statusService.RunPeriodic(ctx, cfg.WireGuard.SyncInterval)
		log.Info().Dur("interval", cfg.WireGuard.SyncInterval).Msg("Periodic sync scheduled")
	} else {
		log.Warn().Msg("Periodic sync disabled - status only refreshes via POST /sync")
	}

	// Start server
	log.Info().Msgf("Starting wgpanel server on port %s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// bootstrapServer creates the singleton server record on first start. An
// existing record keeps its keys; only a missing one gets a fresh pair.
func bootstrapServer(ctx context.Context, repo vpn.ServerRepository, cfg *config.Config) error {
	if _, err := repo.GetServer(ctx); err == nil {
		return nil
	} else if !errors.Is(err, vpn.ErrServerNotFound) {
		return err
	}

	privateKey, publicKey, err := wireguard.GenerateKeyPair()
	if err != nil {
		return err
	}

	server := &vpn.Server{
		InterfaceName: cfg.WireGuard.Interface,
		PrivateKey:    privateKey,
		PublicKey:     publicKey,
		NetworkSubnet: cfg.WireGuard.Subnet,
		DNSServers:    cfg.WireGuard.DNSServers,
		Endpoint:      cfg.WireGuard.Endpoint,
		Status:        vpn.ServerStopped,
		UpdatedAt:     time.Now(),
	}
	if err := repo.UpsertServer(ctx, server); err != nil {
		return err
	}
	log.Info().Str("public_key", publicKey).Msg("Created server record")
	return nil
}
