package synthetic

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/utility"
)

const barGeneratorComponentName = "datasource.synthetic.generator"

var ErrEof = errors.New("EOF")

// BarGenerator produces OHLCV bars from a geometric Brownian motion price
// path. Each bar is built from a fixed number of intra-bar steps so highs
// and lows envelope the open/close realistically.
type BarGenerator struct {
	symbol string
	rng    *rand.Rand

	startTime   time.Time
	barInterval time.Duration
	steps       int64
	t           int64

	intraBarSteps int

	// Pre-calculated GBM drift and diffusion per intra-bar step.
	deltaLogPre1 float64
	deltaLogPre2 float64

	avgVolume      float64
	volumeVariance float64

	lastTime  time.Time
	lastClose float64

	priceDigits int
}

func NewBarGenerator(
	symbol string,
	rng *rand.Rand,
	startTime time.Time,
	startPrice, mu, sigma, deltaT float64,
	barInterval time.Duration,
	steps int64) *BarGenerator {

	const intraBarSteps = 8

	stepT := deltaT / intraBarSteps

	return &BarGenerator{
		symbol: symbol,
		rng:    rng,

		startTime:   startTime,
		barInterval: barInterval,
		steps:       steps,

		intraBarSteps: intraBarSteps,

		deltaLogPre1: (mu - sigma*sigma*0.5) * stepT,
		deltaLogPre2: sigma * math.Sqrt(stepT),

		avgVolume:      100,
		volumeVariance: 0.5,

		lastTime:  startTime,
		lastClose: startPrice,
	}
}

func (g *BarGenerator) SetVolumeParameters(avgVolume, variance float64) {
	g.avgVolume = avgVolume
	g.volumeVariance = variance
}

func (g *BarGenerator) SetPriceDigits(digits int) {
	g.priceDigits = digits
}

func (g *BarGenerator) GetNext() (common.Bar, error) {
	var bar common.Bar

	if g.t >= g.steps {
		return bar, ErrEof
	}

	open := g.lastClose
	high := open
	low := open
	price := open

	for i := 0; i < g.intraBarSteps; i++ {
		z := g.rng.NormFloat64()
		price *= math.Exp(g.deltaLogPre1 + g.deltaLogPre2*z)
		high = max(high, price)
		low = min(low, price)
	}

	g.lastClose = price
	g.lastTime = g.lastTime.Add(g.barInterval)
	g.t++

	bar.Time = g.lastTime.Unix()
	bar.Open = g.round(open)
	bar.High = g.round(high)
	bar.Low = g.round(low)
	bar.Close = g.round(price)
	bar.Volume = g.generateVolume()
	bar.Symbol = g.symbol
	bar.Source = barGeneratorComponentName
	bar.TraceID = utility.CreateTraceID()

	return bar, nil
}

func (g *BarGenerator) generateVolume() float64 {
	volume := g.avgVolume * math.Exp(g.rng.NormFloat64()*g.volumeVariance)
	if volume < 1 {
		volume = 1
	}
	return math.Round(volume)
}

func (g *BarGenerator) round(price float64) float64 {
	if g.priceDigits <= 0 {
		return price
	}
	scale := math.Pow(10, float64(g.priceDigits))
	return math.Round(price*scale) / scale
}
