package marketdata

import (
	"context"
	"errors"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

var ErrNoData = errors.New("no market data returned")

// Provider fetches historical candles for a symbol. Implementations map the
// internal symbol names (eurusd, btcusd, ...) to their exchange's format.
type Provider interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]common.Bar, error)
}
