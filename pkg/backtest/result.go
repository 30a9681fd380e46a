package backtest

import (
	"sort"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

// DailyPerformance is one UTC calendar day with closed-trade activity.
type DailyPerformance struct {
	Date   string  `json:"date"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// Result aggregates one simulation run: totals, per-trade extremes, equity
// curve extremes, market exposure and the full ledger.
type Result struct {
	Asset          string  `json:"asset"`
	InitialCapital float64 `json:"initialCapital"`
	FinalCapital   float64 `json:"finalCapital"`
	TotalGain      float64 `json:"totalGain"`

	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	NeutralTrades int     `json:"neutralTrades"`
	WinRate       float64 `json:"winRate"`

	TotalGains    float64 `json:"totalGains"`
	TotalLosses   float64 `json:"totalLosses"`
	GainLossRatio float64 `json:"gainLossRatio"`

	BestTrade  float64 `json:"bestTrade"`
	WorstTrade float64 `json:"worstTrade"`

	// MaxDrawdown is reported negative, MaxRunup positive.
	MaxDrawdown float64 `json:"maxDrawdown"`
	MaxRunup    float64 `json:"maxRunup"`

	TimeInMarket float64 `json:"timeInMarket"`
	TradesPerDay float64 `json:"tradesPerDay"`

	DailyPerformance []DailyPerformance `json:"dailyPerformance"`
	Equity           []float64          `json:"equity"`
	Trades           []common.Trade     `json:"trades"`
}

type dayTally struct {
	pnl    float64
	trades int
}

func tallyDay(daily map[string]*dayTally, date string, pnl float64) {
	t, ok := daily[date]
	if !ok {
		t = &dayTally{}
		daily[date] = t
	}
	t.pnl += pnl
	t.trades++
}

func buildResult(cfg runConfig, bars []common.Bar, equity []float64, trades []common.Trade, daily map[string]*dayTally, barsInMarket int, capital float64) *Result {
	res := &Result{
		Asset:          cfg.asset.Symbol,
		InitialCapital: cfg.initialCapital,
		FinalCapital:   capital,
		TotalGain:      capital - cfg.initialCapital,
		TotalTrades:    len(trades),
		Equity:         equity,
		Trades:         trades,
	}
	if res.Trades == nil {
		res.Trades = []common.Trade{}
	}

	for _, trade := range trades {
		switch {
		case trade.Winning():
			res.WinningTrades++
			res.TotalGains += trade.PnL
		case trade.Losing():
			res.LosingTrades++
			res.TotalLosses += -trade.PnL
		default:
			res.NeutralTrades++
		}
	}

	if len(trades) > 0 {
		res.BestTrade = trades[0].PnL
		res.WorstTrade = trades[0].PnL
		for _, trade := range trades[1:] {
			if trade.PnL > res.BestTrade {
				res.BestTrade = trade.PnL
			}
			if trade.PnL < res.WorstTrade {
				res.WorstTrade = trade.PnL
			}
		}

		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades) * 100
	}

	avgWin := 0.0
	if res.WinningTrades > 0 {
		avgWin = res.TotalGains / float64(res.WinningTrades)
	}
	// avgLoss falls back to 1 so a loss-free run reports the ratio as the
	// average win instead of dividing by zero.
	avgLoss := 1.0
	if res.LosingTrades > 0 {
		avgLoss = res.TotalLosses / float64(res.LosingTrades)
	}
	res.GainLossRatio = avgWin / avgLoss

	res.MaxDrawdown, res.MaxRunup = equityExtremes(equity)

	if len(bars) > 0 {
		res.TimeInMarket = float64(barsInMarket) / float64(len(bars)) * 100
		if days := distinctDays(bars); days > 0 {
			res.TradesPerDay = float64(res.TotalTrades) / float64(days)
		}
	}

	res.DailyPerformance = sortedDaily(daily)

	return res
}

// equityExtremes walks the curve tracking the running peak and trough. The
// worst peak-to-point drop is returned negative, the best trough-to-point
// rise positive.
func equityExtremes(equity []float64) (maxDrawdown, maxRunup float64) {
	if len(equity) == 0 {
		return 0, 0
	}

	peak := equity[0]
	trough := equity[0]
	worstDrop := 0.0
	bestRise := 0.0

	for _, value := range equity {
		if value > peak {
			peak = value
		}
		if value < trough {
			trough = value
		}
		if drop := peak - value; drop > worstDrop {
			worstDrop = drop
		}
		if rise := value - trough; rise > bestRise {
			bestRise = rise
		}
	}

	return -worstDrop, bestRise
}

func distinctDays(bars []common.Bar) int {
	days := make(map[string]struct{}, len(bars)/24+1)
	for _, bar := range bars {
		days[bar.DateUTC()] = struct{}{}
	}
	return len(days)
}

func sortedDaily(daily map[string]*dayTally) []DailyPerformance {
	out := make([]DailyPerformance, 0, len(daily))
	for date, tally := range daily {
		out = append(out, DailyPerformance{Date: date, PnL: tally.pnl, Trades: tally.trades})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
