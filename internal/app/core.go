package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/adapter/auth"
	"github.com/Abdurahmanit/skip2love/internal/adapter/mailer"
	natsadapter "github.com/Abdurahmanit/skip2love/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/skip2love/internal/adapter/repository/cache"
	"github.com/Abdurahmanit/skip2love/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/skip2love/internal/adapter/repository/postgres"
	"github.com/Abdurahmanit/skip2love/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/skip2love/internal/config"
	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/listing/usecase"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
	"github.com/Abdurahmanit/skip2love/internal/security"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Core is the marketplace core shared by the HTTP server and the CLI.
type Core struct {
	Auth     *auth.Provider
	Ads      *usecase.AdUsecase
	Profiles *usecase.ProfileUsecase
	Gate     *usecase.ProfileGate

	closers []closer
	log     *logger.Logger
}

type closer struct {
	name string
	fn   func(context.Context) error
}

type stores struct {
	ads      domain.AdRepository
	profiles domain.ProfileRepository
	accounts domain.AccountRepository
}

// NewCore connects every backing service named in cfg. Redis and NATS are
// optional: when they cannot be reached the core runs without the ad cache,
// token revocation and events.
func NewCore(ctx context.Context, cfg *config.Config, m *metrics.MetricsManager, log *logger.Logger) (_ *Core, err error) {
	core := &Core{log: log.Named("Core")}
	defer func() {
		if err != nil {
			_ = core.Close(context.Background())
		}
	}()

	st, err := core.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var revocations auth.Revocations
	redisClient, err := cache.NewClient(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		core.log.Warn("Redis unavailable, running without ad cache and token revocation", zap.Error(err))
	} else {
		core.addCloser("redis", func(context.Context) error { return redisClient.Close() })
		revocations = auth.NewRedisRevocationList(redisClient)
		adCache := cache.NewRedisAdCache(redisClient)
		st.ads = cache.NewCachedAdRepository(st.ads, adCache, cfg.CacheTTL, log)
		st.profiles = cache.NewCachedProfileRepository(st.profiles, adCache, log)
		core.log.Info("Redis connected", zap.String("addr", cfg.RedisAddress))
	}

	var publisher domain.EventPublisher
	conn, err := natsadapter.Connect(cfg.NATSURL, cfg.ServiceName, log)
	if err != nil {
		core.log.Warn("NATS unavailable, events will not be published", zap.Error(err))
	} else {
		core.addCloser("nats", func(context.Context) error { return conn.Drain() })
		publisher = natsadapter.NewPublisher(conn, log)
	}

	storage, err := s3.NewS3Storage(ctx, s3.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
		PublicURL: cfg.MinIOPublicURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	notifier := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, log)
	sanitizer := security.NewTextSanitizer()
	uploader := media.NewUploader(storage, log, cfg.UploadConcurrency)

	core.Auth = auth.NewProvider(auth.Config{
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.JWTTTL,
		CodeTTL:  cfg.VerificationCodeTTL,
	}, st.accounts, st.profiles, revocations, notifier, publisher, log)
	core.Ads = usecase.NewAdUsecase(st.ads, uploader, publisher, notifier, sanitizer, m, log)
	core.Profiles = usecase.NewProfileUsecase(st.profiles, sanitizer, log)
	core.Gate = usecase.NewProfileGate(st.profiles, log)

	core.log.Info("Core initialized", zap.String("store_driver", cfg.StoreDriver))
	return core, nil
}

func (c *Core) openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return c.openMongo(ctx, cfg)
	case config.DriverPostgres:
		return c.openPostgres(ctx, cfg)
	default:
		return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (c *Core) openMongo(ctx context.Context, cfg *config.Config) (stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return stores{}, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	c.addCloser("mongodb", client.Disconnect)
	if err := client.Ping(connectCtx, nil); err != nil {
		return stores{}, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	ads, err := mongodb.NewAdRepository(db, c.log)
	if err != nil {
		return stores{}, err
	}
	accounts, err := mongodb.NewAccountRepository(db, c.log)
	if err != nil {
		return stores{}, err
	}
	c.log.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))
	return stores{
		ads:      ads,
		profiles: mongodb.NewProfileRepository(db, c.log),
		accounts: accounts,
	}, nil
}

func (c *Core) openPostgres(ctx context.Context, cfg *config.Config) (stores, error) {
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return stores{}, err
	}
	c.addCloser("postgres", func(context.Context) error { return db.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return stores{}, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	if err := postgres.RunMigrations(cfg.PostgresDSN); err != nil {
		return stores{}, err
	}
	c.log.Info("PostgreSQL connected, migrations applied")
	return stores{
		ads:      postgres.NewAdRepository(db),
		profiles: postgres.NewProfileRepository(db),
		accounts: postgres.NewAccountRepository(db),
	}, nil
}

func (c *Core) addCloser(name string, fn func(context.Context) error) {
	c.closers = append(c.closers, closer{name: name, fn: fn})
}

// Close releases connections in reverse order of acquisition.
func (c *Core) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		cl := c.closers[i]
		if err := cl.fn(ctx); err != nil {
			c.log.Error("failed to close", zap.String("resource", cl.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", cl.name, err))
			continue
		}
		c.log.Debug("closed", zap.String("resource", cl.name))
	}
	c.closers = nil
	return errors.Join(errs...)
}
