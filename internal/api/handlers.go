package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/backtest"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/data/duckdb"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/utility"
)

const (
	defaultRunListLimit = 50
	defaultCandleLimit  = 200
	maxCandleLimit      = 1000
)

type backtestRequest struct {
	Bars     []common.Bar      `json:"bars"`
	Settings backtest.Settings `json:"settings"`
}

type backtestResponse struct {
	ID     uuid.UUID        `json:"id"`
	Result *backtest.Result `json:"result"`
}

func (s *Server) runBacktest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Bars) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bars are required"})
		return
	}

	result, err := backtest.Run(req.Bars, req.Settings)
	if err != nil {
		var verr *backtest.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		s.logger.Error("simulation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
		return
	}

	runID := uuid.Must(uuid.NewV7())

	if s.store != nil {
		record := duckdb.RunRecord{
			ID:          runID,
			ExecutionID: utility.GetExecutionID(),
			CreatedAt:   time.Now().UTC(),
			Settings:    req.Settings,
			Result:      result,
		}
		if err := s.store.SaveRun(c.Request.Context(), record); err != nil {
			s.logger.Warn("unable to persist run", zap.Error(err), zap.String("run_id", runID.String()))
		}
	}

	if s.hub != nil {
		s.hub.Broadcast("run", duckdb.RunSummary{
			ID:          runID,
			CreatedAt:   time.Now().UTC(),
			Asset:       result.Asset,
			TotalGain:   result.TotalGain,
			TotalTrades: result.TotalTrades,
		})
	}

	c.JSON(http.StatusOK, backtestResponse{ID: runID, Result: result})
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
		return
	}

	limit := defaultRunListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("unable to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	record, err := s.store.GetRun(c.Request.Context(), id)
	if errors.Is(err, duckdb.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		s.logger.Error("unable to load run", zap.Error(err), zap.String("run_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load run"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) getRunTrades(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run store not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	trades, err := s.store.RunTrades(c.Request.Context(), id)
	if errors.Is(err, duckdb.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		s.logger.Error("unable to load run trades", zap.Error(err), zap.String("run_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load run trades"})
		return
	}
	if trades == nil {
		trades = []common.Trade{}
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

func (s *Server) listAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assets": backtest.Assets()})
}

func (s *Server) getCandles(c *gin.Context) {
	if s.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data provider not configured"})
		return
	}

	asset := c.Query("asset")
	if asset == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset is required"})
		return
	}

	interval := c.DefaultQuery("interval", "1m")

	limit := s.candleLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxCandleLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = parsed
	}

	bars, err := s.provider.Klines(c.Request.Context(), asset, interval, limit)
	if err != nil {
		s.logger.Error("unable to fetch candles",
			zap.Error(err),
			zap.String("asset", asset),
			zap.String("interval", interval))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to fetch candles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candles": bars})
}
