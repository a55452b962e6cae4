package bootstrap

import (
	"context"

	infracontext "github.com/barjames/funeral-planner/infrastructure/context"
	infragin "github.com/barjames/funeral-planner/infrastructure/gin"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/api"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/barjames/funeral-planner/internal/database"
	"github.com/barjames/funeral-planner/internal/document"
	"github.com/barjames/funeral-planner/internal/metrics"
	"github.com/barjames/funeral-planner/internal/repository"
	"github.com/barjames/funeral-planner/internal/service"
)

// SetupHTTPServer wires repository, service, generator and routes into a server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	stream *EventStream,
	log infralogger.Logger,
) *infragin.Server {
	m := metrics.New()
	repo := repository.NewContentRepository(db.SQLX(), log)

	opts := []service.Option{service.WithPublisher(m.Lifecycle())}
	if stream.Publisher != nil {
		opts = append(opts, service.WithPublisher(stream.Publisher))
	}
	svc := service.NewContentService(repo, log, opts...)

	generator := document.NewGenerator(repo, log,
		document.WithFilename(cfg.PDF.Filename),
		document.WithObserver(m.ObserveDocument),
	)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(serviceVersion(cfg, version)).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(cfg.Service.ReadTimeout, cfg.Service.WriteTimeout, 0).
		WithDatabaseHealthCheck(func() error {
			ctx, cancel := infracontext.WithPingTimeout(context.Background())
			defer cancel()
			return db.Ping(ctx)
		}).
		WithRoutes(api.SetupRoutes(api.Dependencies{
			Content:          svc,
			Importer:         svc,
			Generator:        generator,
			Metrics:          m,
			Logger:           log,
			PDFRatePerMinute: cfg.PDF.RatePerMinute,
			ImportMaxBytes:   cfg.Import.MaxBytes,
			StaticDir:        cfg.Service.StaticDir,
		}))

	if stream.Client != nil {
		builder = builder.WithRedisHealthCheck(func() error {
			ctx, cancel := infracontext.WithPingTimeout(context.Background())
			defer cancel()
			return stream.Ping(ctx)
		})
	}

	return builder.Build()
}
