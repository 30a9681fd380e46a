package api

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/data/duckdb"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/marketdata"
)

// RunStore persists finished simulation runs. *duckdb.Store is the only
// production implementation.
type RunStore interface {
	SaveRun(ctx context.Context, record duckdb.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]duckdb.RunSummary, error)
	GetRun(ctx context.Context, id uuid.UUID) (duckdb.RunRecord, error)
	RunTrades(ctx context.Context, id uuid.UUID) ([]common.Trade, error)
}

// Broadcaster pushes events to stream subscribers.
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// Server is the HTTP surface: simulation runs, run history, asset metadata,
// exchange candles and the live event stream.
type Server struct {
	router *gin.Engine
	logger *zap.Logger

	store    RunStore
	provider marketdata.Provider
	hub      Broadcaster
	streamWS http.HandlerFunc

	candleLimit int
}

type Option func(*Server)

func WithStore(store RunStore) Option {
	return func(s *Server) { s.store = store }
}

func WithProvider(provider marketdata.Provider) Option {
	return func(s *Server) { s.provider = provider }
}

func WithHub(hub Broadcaster, serveWS http.HandlerFunc) Option {
	return func(s *Server) {
		s.hub = hub
		s.streamWS = serveWS
	}
}

// WithCandleLimit overrides the default number of candles returned when the
// request does not name one.
func WithCandleLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.candleLimit = limit
		}
	}
}

func NewServer(logger *zap.Logger, options ...Option) *Server {
	server := &Server{
		logger:      logger,
		candleLimit: defaultCandleLimit,
	}
	for _, option := range options {
		option(server)
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	server.router = router
	server.registerRoutes()
	return server
}

// Router exposes the gin engine for tests and for embedding in http.Server.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/backtest", s.runBacktest)
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)
		v1.GET("/runs/:id/trades", s.getRunTrades)
		v1.GET("/assets", s.listAssets)
		v1.GET("/candles", s.getCandles)
		if s.streamWS != nil {
			v1.GET("/stream", gin.WrapF(s.streamWS))
		}
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
