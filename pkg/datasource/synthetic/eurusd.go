package synthetic

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// NewEURUSDBarGenerator builds a generator with minute bars and price
// dynamics in the usual EURUSD ballpark. Mu and sigma are annualized.
func NewEURUSDBarGenerator(symbol string, rng *rand.Rand, duration time.Duration, mu, sigma float64) *BarGenerator {

	const (
		eurUsdStartPrice = 1.0550

		barIntervalMinutes = 1

		avgVolumeUnits    = 100
		volumeVariability = 0.65

		normPriceDigits = 5
	)

	startTime := time.Now()

	barInterval := barIntervalMinutes * time.Minute
	estimatedBars := int64(duration / barInterval)

	minutesPerYear := 365.25 * 24 * 60
	deltaT := barIntervalMinutes / minutesPerYear

	barGenerator := NewBarGenerator(
		symbol,
		rng,
		startTime,
		eurUsdStartPrice,
		mu,
		sigma,
		deltaT,
		barInterval,
		estimatedBars,
	)

	barGenerator.SetVolumeParameters(avgVolumeUnits, volumeVariability)
	barGenerator.SetPriceDigits(normPriceDigits)

	zap.L().Debug("EURUSD synthetic bar generator configuration",
		zap.Duration("duration", duration),
		zap.Float64("mu_annual", mu),
		zap.Float64("sigma_annual", sigma),
		zap.Float64("start_price", eurUsdStartPrice),
		zap.Duration("bar_interval", barInterval),
		zap.Int64("estimated_bars", estimatedBars),
		zap.Time("start_time", startTime),
	)

	return barGenerator
}
