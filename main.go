package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Maxbrain0/echo_posts/config"
	"github.com/Maxbrain0/echo_posts/logger"
	"github.com/Maxbrain0/echo_posts/server"
	"github.com/Maxbrain0/echo_posts/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.NewLogger("echo_posts", "info").Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.NewLogger("echo_posts", cfg.Log.Level)

	// setup mongodB client
	log.Info().Str("database", cfg.Mongo.Database).Msg("establishing connection to MongoDB")
	ctxDB, cancelDB := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancelDB()

	client, err := mongo.Connect(ctxDB, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	if err := client.Ping(ctxDB, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("MongoDB is not reachable")
	}
	log.Info().Msg("connected to MongoDB")

	db := client.Database(cfg.Mongo.Database)
	posts := store.NewPosts(db, cfg.Mongo.OperationTimeout)
	users := store.NewUsers(db, cfg.Mongo.OperationTimeout)
	if err := users.EnsureIndexes(ctxDB); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	opts := server.Options{
		Posts:      posts,
		Users:      users,
		Secret:     []byte(cfg.Auth.Secret),
		CookieName: cfg.Auth.CookieName,
		BcryptCost: cfg.Auth.BcryptCost,
		BasePath:   cfg.Server.BasePath,
		Logger:     log,
	}
	if cfg.Mongo.Transactions {
		opts.Transactor = &store.SessionTransactor{Client: client}
	}
	e := server.New(opts)

	// allows us to shut down server gracefully
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("starting server")
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Wait for Control C or SIGTERM to exit - shut down server then mongo
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down the echo server")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := e.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("failed to shut down echo server")
	}

	log.Info().Msg("disconnecting from MongoDB")
	if err := client.Disconnect(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		return
	}
	log.Info().Msg("shutdown complete")
}
