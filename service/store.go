package service

import (
	"context"
	"fmt"
	"time"

	"modernblog/app/config"
	"modernblog/app/logging"
	"modernblog/app/repositories"

	"github.com/rs/zerolog/log"
)

const mongoConnectTimeout = 10 * time.Second

// OpenStore opens the post store selected by cfg. The returned close function releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (repositories.PostRepository, func() error, error) {
	switch cfg.Store {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()

		client, err := repositories.ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

		closeFn := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
			defer cancel()
			return client.Disconnect(ctx)
		}
		return repositories.NewMongoPostRepository(client.Database(cfg.MongoDatabase)), closeFn, nil

	case config.StoreBadger:
		db, err := repositories.OpenBadger(repositories.BadgerOptions{
			Dir:    cfg.BadgerDir,
			Logger: logging.BadgerLogger{Logger: log.Logger},
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.BadgerDir).Msg("opened badger store")
		return repositories.NewBadgerPostRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
