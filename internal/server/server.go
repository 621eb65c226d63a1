package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/salespool/leadrotor/internal/agent"
	"github.com/salespool/leadrotor/internal/basket"
	basketdomain "github.com/salespool/leadrotor/internal/basket/domain"
	"github.com/salespool/leadrotor/internal/config"
	"github.com/salespool/leadrotor/internal/distribution"
	distributiondomain "github.com/salespool/leadrotor/internal/distribution/domain"
	"github.com/salespool/leadrotor/internal/lead"
	"github.com/salespool/leadrotor/internal/ledger"
	"github.com/salespool/leadrotor/internal/observability"
	obsmiddleware "github.com/salespool/leadrotor/internal/observability/logger"
	obsmetrics "github.com/salespool/leadrotor/internal/observability/metrics"
	obstracing "github.com/salespool/leadrotor/internal/observability/tracing"
	"github.com/salespool/leadrotor/internal/rotation"
	rotationdomain "github.com/salespool/leadrotor/internal/rotation/domain"
	"github.com/salespool/leadrotor/internal/transition"
	transitiondomain "github.com/salespool/leadrotor/internal/transition/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	lead.Module,
	agent.Module,
	ledger.Module,
	transition.Module,
	basket.Module,
	rotation.Module,
	distribution.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
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

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	distributionSvc distributiondomain.Service
	rotationSvc     rotationdomain.Service
	basketSvc       basketdomain.Service
	transitionRepo  transitiondomain.Repository
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	DistributionSvc distributiondomain.Service
	RotationSvc     rotationdomain.Service
	BasketSvc       basketdomain.Service
	TransitionRepo  transitiondomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		distributionSvc: p.DistributionSvc,
		rotationSvc:     p.RotationSvc,
		basketSvc:       p.BasketSvc,
		transitionRepo:  p.TransitionRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")
	api.Use(s.CompanyContext())

	dist := api.Group("/distribution")
	{
		dist.POST("/distribute", s.Distribute)
		dist.POST("/bulk", s.BulkDistribute)
	}

	rot := api.Group("/rotation")
	{
		rot.GET("/candidates", s.GetCandidates)
		rot.POST("/manual-reset", s.ManualReset)
		rot.GET("/summary", s.GetResetSummary)
		rot.GET("/history", s.GetAssignHistory)
	}

	baskets := api.Group("/baskets")
	{
		baskets.GET("/overview", s.BasketOverview)
	}

	api.GET("/transitions", s.ListTransitions)
}
