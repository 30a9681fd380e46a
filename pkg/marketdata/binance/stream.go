package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

const (
	defaultStreamURL = "wss://stream.binance.com:9443"

	pingPeriod       = 15 * time.Second
	sendTimeout      = 5 * time.Second
	readLimit        = 1 << 20
	handshakeTimeout = 10 * time.Second
)

// streamMsg is the combined-stream wrapper: the payload sits behind a stream
// identifier like "btcusdt@kline_1m".
type streamMsg struct {
	Stream string          `json:"stream" validate:"required"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

type klineEvent struct {
	Symbol string  `json:"s" validate:"required"`
	Kline  payload `json:"k" validate:"required"`
}

type payload struct {
	OpenTime int64  `json:"t" validate:"required,gt=0"`
	Open     string `json:"o" validate:"required,numeric"`
	High     string `json:"h" validate:"required,numeric"`
	Low      string `json:"l" validate:"required,numeric"`
	Close    string `json:"c" validate:"required,numeric"`
	Volume   string `json:"v" validate:"required,numeric"`
	Closed   bool   `json:"x"`
}

// Stream subscribes to kline streams and delivers only closed candles.
// In-progress kline updates are dropped so consumers see each bar once.
type Stream struct {
	logger   *zap.Logger
	baseURL  string
	validate *validator.Validate

	conn *websocket.Conn
	bars chan common.Bar

	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

func NewStream(logger *zap.Logger, baseURL string) *Stream {
	if baseURL == "" {
		baseURL = defaultStreamURL
	}
	return &Stream{
		logger:   logger,
		baseURL:  baseURL,
		validate: validator.New(),
		bars:     make(chan common.Bar, 256),
	}
}

// Bars delivers closed candles. The channel is closed when the stream ends.
func (s *Stream) Bars() <-chan common.Bar {
	return s.bars
}

// Subscribe dials the combined stream for the given symbols and starts the
// read and keepalive loops. Cancel ctx or call Close to stop.
func (s *Stream) Subscribe(ctx context.Context, symbols []string, interval string) error {
	streamURL := s.buildStreamURL(symbols, interval)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		cancel()
		if resp != nil {
			s.logger.Error("connection failed",
				zap.Error(err),
				zap.Int("status_code", resp.StatusCode))
		} else {
			s.logger.Error("connection failed", zap.Error(err))
		}
		return fmt.Errorf("dial %s: %w", streamURL, err)
	}

	conn.SetReadLimit(readLimit)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pingPeriod * 2))
	})
	s.conn = conn

	s.logger.Info("kline stream connected",
		zap.String("url", streamURL),
		zap.Strings("symbols", symbols),
		zap.String("interval", interval))

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.readLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.pingLoop(ctx)
	}()

	return nil
}

func (s *Stream) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.conn != nil {
			_ = s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			_ = s.conn.Close()
		}
		s.wg.Wait()
	})
}

func (s *Stream) buildStreamURL(symbols []string, interval string) string {
	streams := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		streams = append(streams, fmt.Sprintf("%s@kline_%s",
			strings.ToLower(ToExchangeSymbol(symbol)), interval))
	}
	return fmt.Sprintf("%s/stream?streams=%s", s.baseURL, strings.Join(streams, "/"))
}

func (s *Stream) readLoop(ctx context.Context) {
	defer close(s.bars)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := s.conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Info("websocket closed", zap.Error(err))
				} else {
					s.logger.Warn("read error", zap.Error(err))
				}
				return
			}

			bar, ok, err := s.parseKline(data)
			if err != nil {
				s.logger.Warn("invalid kline message", zap.Error(err))
				continue
			}
			if !ok {
				continue
			}

			select {
			case s.bars <- bar:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Stream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(sendTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Warn("ping error", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// parseKline unwraps one combined-stream message. The second return value is
// false for in-progress klines.
func (s *Stream) parseKline(raw []byte) (common.Bar, bool, error) {
	var m streamMsg
	if err := json.Unmarshal(raw, &m); err != nil {
		return common.Bar{}, false, fmt.Errorf("outer message: %w", err)
	}

	var ev klineEvent
	if err := json.Unmarshal(m.Data, &ev); err != nil {
		return common.Bar{}, false, fmt.Errorf("kline payload: %w", err)
	}
	if err := s.validate.Struct(&ev); err != nil {
		return common.Bar{}, false, fmt.Errorf("kline validation: %w", err)
	}

	if !ev.Kline.Closed {
		return common.Bar{}, false, nil
	}

	bar := common.Bar{
		Time:   time.UnixMilli(ev.Kline.OpenTime).Unix(),
		Symbol: strings.ToLower(ev.Symbol),
		Source: barSourceName,
	}

	fields := []struct {
		value string
		dest  *float64
	}{
		{ev.Kline.Open, &bar.Open},
		{ev.Kline.High, &bar.High},
		{ev.Kline.Low, &bar.Low},
		{ev.Kline.Close, &bar.Close},
		{ev.Kline.Volume, &bar.Volume},
	}
	for _, f := range fields {
		value, err := parseDecimal(f.value)
		if err != nil {
			return common.Bar{}, false, err
		}
		*f.dest = value
	}

	return bar, true, nil
}
