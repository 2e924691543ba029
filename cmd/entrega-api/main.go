// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"entrega/internal/config"
	httptransport "entrega/internal/http"
	"entrega/internal/infra"
	"entrega/internal/logger"
	"entrega/internal/modules/driver"
	"entrega/internal/modules/earnings"
	"entrega/internal/modules/geocode"
	"entrega/internal/modules/identity"
	"entrega/internal/modules/location"
	"entrega/internal/modules/order"
	"entrega/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	appLog := logger.New(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.RunMigrations("file://migrations", cfg.DB.DSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
	defer redisClient.Close()

	var geocoder geocode.Geocoder
	if cfg.Geocode.GoogleAPIKey != "" {
		google, err := geocode.NewGoogleGeocoder(cfg.Geocode.GoogleAPIKey, cfg.Geocode.Region)
		if err != nil {
			log.Fatalf("geocoder init: %v", err)
		}
		geocoder = geocode.NewCached(google, redisClient, cfg.Geocode.CacheTTL)
	}

	broker := notify.NewBroker(redisClient, appLog)
	go broker.Run(ctx)

	hub := notify.NewHub(appLog)
	go hub.Run(broker)

	tokens := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	driverStore := driver.NewStore(dbPool)

	identityStore := identity.NewStore(dbPool)
	identitySvc := identity.NewService(identityStore, tokens, appLog)

	locationStore := location.NewStore(dbPool, redisClient)
	locationSvc := location.NewService(locationStore, appLog)

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, driverStore, geocoder, broker, appLog)

	earningsStore := earnings.NewStore(dbPool)
	earningsSvc := earnings.NewService(earningsStore)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Identity: identitySvc,
		Verifier: tokens,
		Drivers:  driverStore,
		Orders:   orderSvc,
		Location: locationSvc,
		Earnings: earningsSvc,
		Hub:      hub,
		Log:      appLog,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, appLog)
	if err := server.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
