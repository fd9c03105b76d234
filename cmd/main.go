package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hive-chat/auth"
	"hive-chat/infrastructure/websocket"
	"hive-chat/internal"
	"hive-chat/repositories"
	"hive-chat/runtime"
	"hive-chat/runtime/workers"
	"hive-chat/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanup runs before main exits.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	users := repositories.NewUserRepository(db)
	rooms := repositories.NewRoomRepository(db)
	presence := repositories.NewPresenceRepository(db)
	messages := repositories.NewMessageRepository(db, log, &config.LimitMessages)
	notifications := repositories.NewNotificationRepository(db)

	// 3. Live state, broadcasting and services
	registry := runtime.NewRegistry()
	index := runtime.NewRoomIndex()
	roomLocks := runtime.NewKeyedMutex()
	broadcaster := runtime.NewBroadcaster(log, registry, index, rooms)
	orchestrator := runtime.NewOrchestrator(
		log, registry, index, runtime.NewTypingTracker(), broadcaster,
		users, rooms, presence, roomLocks,
	)
	notificationService := services.NewNotificationService(log, notifications, broadcaster)
	chat := services.NewChatService(log, users, rooms, messages, notificationService, broadcaster, roomLocks)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervised reconcilers
	now := func() time.Time { return time.Now().UTC() }
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewPeriodicWorker(log,
			workers.NewAutoUnmute(log, rooms, broadcaster, now),
			config.AutoUnmuteInterval),
		workers.NewPeriodicWorker(log,
			workers.NewAwayDemotion(log, presence, users, broadcaster, config.InactivityThreshold, now),
			config.AwayDemotionInterval),
		workers.NewPeriodicWorker(log,
			workers.NewStaleOfflineSweep(log, presence, users, registry, broadcaster, config.InactivityThreshold, now),
			config.StaleOfflineInterval),
	)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(ctx)
	}()

	// 6. HTTP Server Setup
	gateway := websocket.NewServer(ctx, log, auth.NewTokens(config.JWTSecret), orchestrator,
		websocket.NewDispatcher(log, orchestrator, chat, notificationService),
		websocket.Config{
			BufferSize:     config.ConnectionBufferSize,
			ReadLimit:      int64(config.ReadLimit),
			PingPeriod:     config.PingPeriod,
			PongWait:       config.PongWait,
			WriteWait:      config.WriteWait,
			AllowedOrigins: config.Origins(),
		})
	mux := http.NewServeMux()
	mux.Handle("/ws", gateway)
	mux.HandleFunc("/healthz", websocket.HealthHandler)
	server := &http.Server{
		Addr:              config.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case serveErr = <-errChan:
	}

	// 8. Final Cleanup
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	gateway.Wait()
	sup.Stop()
	<-supervisorDone
	log.Info("Program stopped cleanly")

	return serveErr
}
