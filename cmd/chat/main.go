package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-rooms/contract"
	"chat-rooms/internal"
	"chat-rooms/manager"
	"chat-rooms/moderation"
	"chat-rooms/observability"
	"chat-rooms/repositories"
	"chat-rooms/runtime/workers"
	"chat-rooms/search"
	"chat-rooms/services"
	"chat-rooms/session"
	"chat-rooms/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the engine lifecycle, and
// centralizes error reporting. Returning the error to main keeps every
// defer (database close, supervisor stop) on the shutdown path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB archive + Bluge search index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	// 3. Moderation
	censored, err := moderation.LoadCensoredWords()
	if err != nil {
		return fmt.Errorf("censored words loading failed: %w", err)
	}
	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(censored.Words, replacement, log)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}
	log.Info("Moderation ready",
		"words", len(censored.Words), "languages", censored.Languages)

	// 4. Engine wiring
	sup := workers.NewSupervisor(log, config.RestartInterval)
	monitoring := observability.NewMonitoringManager(log)
	rooms := manager.NewRoomManager(log, config.MaxRoomUsers, config.MaxRoomMessages)

	render := func(username, line string) {
		color.Cyan.Printf("[%s] ", username)
		fmt.Println(line)
	}
	transports := func() contract.Transport { return transport.Pick(log) }
	sessions := session.NewSessionManager(
		log, rooms, sup, monitoring,
		transports, render, config.PollInterval,
	)

	archive := repositories.NewMessageArchive(db, log, config.ArchiveLimit)
	index := search.NewMessageIndex(writer, log)
	service := services.NewChatService(log, rooms, sessions, moderator, archive, index, monitoring)

	// 5. Context, signals, background workers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.Start(ctx)
	sup.Add(workers.NewHeartbeatWorker(log, config.HeartbeatInterval, monitoring))
	go sup.Run(ctx)

	// 6. Console loop
	console := NewConsole(service, monitoring, log)
	if err := console.Run(ctx); err != nil {
		return err
	}

	// 7. Final cleanup
	sessions.Shutdown()
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
