package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quotient/internal/catalog"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/cloudmetrics"
	"github.com/smallbiznis/quotient/internal/config"
	"github.com/smallbiznis/quotient/internal/migrationpath"
	migrationpathdomain "github.com/smallbiznis/quotient/internal/migrationpath/domain"
	"github.com/smallbiznis/quotient/internal/observability"
	obsmiddleware "github.com/smallbiznis/quotient/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quotient/internal/observability/metrics"
	obstracing "github.com/smallbiznis/quotient/internal/observability/tracing"
	"github.com/smallbiznis/quotient/internal/pricing"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"github.com/smallbiznis/quotient/internal/quote"
	quotedomain "github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/smallbiznis/quotient/internal/ratelimit"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	cloudmetrics.Module,
	fx.Provide(registerGin),
	catalog.Module,
	pricing.Module,
	quote.Module,
	migrationpath.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	db               *gorm.DB
	genID            *snowflake.Node
	catalogSvc       catalogdomain.Service
	pricingSvc       pricingdomain.Service
	quoteSvc         quotedomain.Service
	migrationPathSvc migrationpathdomain.Service
	obsMetrics       *obsmetrics.Metrics
	previewLimiter   *ratelimit.PreviewLimiter
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	DB               *gorm.DB
	GenID            *snowflake.Node
	CatalogSvc       catalogdomain.Service
	PricingSvc       pricingdomain.Service
	QuoteSvc         quotedomain.Service
	MigrationPathSvc migrationpathdomain.Service
	ObsMetrics       *obsmetrics.Metrics        `optional:"true"`
	PreviewLimiter   *ratelimit.PreviewLimiter  `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		db:               p.DB,
		genID:            p.GenID,
		catalogSvc:       p.CatalogSvc,
		pricingSvc:       p.PricingSvc,
		quoteSvc:         p.QuoteSvc,
		migrationPathSvc: p.MigrationPathSvc,
		obsMetrics:       p.ObsMetrics,
		previewLimiter:   p.PreviewLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

// Engine exposes the underlying router for test harnesses.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	catalog := v1.Group("/catalog")
	catalog.GET("/products", s.ListProducts)
	catalog.GET("/products/:id", s.GetProduct)

	pricing := v1.Group("/pricing")
	pricing.POST("/preview", s.PreviewRateLimit(), s.PreviewPrice)

	quotes := v1.Group("/quotes")
	quotes.GET("", s.ListQuotes)
	quotes.POST("", s.CreateQuote)
	quotes.GET("/:id", s.GetQuote)
	quotes.DELETE("/:id", s.DeleteQuote)
	quotes.POST("/:id/products", s.AddQuoteProduct)
	quotes.DELETE("/:id/products/:itemId", s.RemoveQuoteProduct)
	quotes.PUT("/:id/customer-price", s.SetQuoteCustomerPrice)

	paths := v1.Group("/migration-paths")
	paths.GET("", s.ListMigrationPaths)
	paths.POST("/summary", s.MigrationSummary)
}
