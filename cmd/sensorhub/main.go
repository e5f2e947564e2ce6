package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensorhub/internal/cache"
	"sensorhub/internal/config"
	"sensorhub/internal/database"
	"sensorhub/internal/httpapi"
	"sensorhub/internal/logger"
	"sensorhub/internal/mqttingest"
	"sensorhub/internal/notify"
	"sensorhub/internal/repository"
	"sensorhub/internal/service"
	"sensorhub/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "sensorhub")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis unreachable", zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)

	var (
		db           *sql.DB
		owners       repository.OwnersRepository
		locations    repository.LocationsRepository
		sensors      repository.SensorsRepository
		observations repository.ObservationsRepository
		alarms       repository.AlarmsRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			if err := database.EnsureSchema(d); err != nil {
				log.Fatal("schema bootstrap failed", zap.Error(err))
			}
			db = d
			log.Info("postgres connected", zap.String("database", cfg.Database.Database))
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		owners = repository.NewPostgresOwnersRepository(db)
		locations = repository.NewPostgresLocationsRepository(db)
		sensors = repository.NewPostgresSensorsRepository(db)
		observations = repository.NewPostgresObservationsRepository(db)
		alarms = repository.NewPostgresAlarmsRepository(db)
	} else {
		memOwners := repository.NewMemoryOwnersRepository()
		memLocations := repository.NewMemoryLocationsRepository()
		memSensors := repository.NewMemorySensorsRepository(memOwners, memLocations)
		owners = memOwners
		locations = memLocations
		sensors = memSensors
		observations = repository.NewMemoryObservationsRepository(memSensors)
		alarms = repository.NewMemoryAlarmsRepository(memSensors)
	}

	derived := cache.NewDerivedStrings(kv, owners, locations, log)
	stats := cache.NewSensorStats(kv, log)

	var notifier service.AlarmNotifier
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, log)
		log.Info("alarm webhook enabled", zap.String("url", cfg.WebhookURL))
	}

	ownerService := service.NewOwnerService(owners, derived, log)
	locationService := service.NewLocationService(locations, derived, log)
	sensorService := service.NewSensorService(sensors, stats, derived, log)
	observationService := service.NewObservationService(observations, sensors, alarms, stats, notifier, log)
	alarmService := service.NewAlarmService(alarms, log)

	router := httpapi.NewRouter(log)
	exporter := httpapi.NewSensorExporter(sensorService, ownerService, locationService, log)
	httpapi.NewOwnerHandler(ownerService, sensorService, log).Register(router)
	httpapi.NewLocationHandler(locationService, log).Register(router)
	httpapi.NewSensorHandler(sensorService, observationService, alarmService, exporter, log).Register(router)
	httpapi.NewObservationHandler(observationService, log).Register(router)
	httpapi.NewAlarmHandler(alarmService, log).Register(router)

	var ingestor *mqttingest.Ingestor
	if cfg.MQTT.Enabled {
		ing, err := mqttingest.NewIngestor(&cfg.MQTT, observationService, log)
		if err != nil {
			log.Warn("mqtt ingest disabled, broker unreachable", zap.Error(err))
		} else if err := ing.Start(); err != nil {
			log.Warn("mqtt ingest disabled, subscribe failed", zap.Error(err))
		} else {
			ingestor = ing
		}
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if ingestor != nil {
		ingestor.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}

	_ = redisClient.Close()
	_ = database.Close(db)
}
