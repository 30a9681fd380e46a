package backtest

import (
	"go.uber.org/zap"
)

// Print logs the run summary the offline runner ends with.
func (res *Result) Print(logger *zap.Logger) {
	logger.Info("performance report",
		zap.String("asset", res.Asset),
		zap.Float64("initial_capital", res.InitialCapital),
		zap.Float64("final_capital", res.FinalCapital),
		zap.Float64("total_gain", res.TotalGain),
		zap.Float64("max_drawdown", res.MaxDrawdown),
		zap.Float64("max_runup", res.MaxRunup),
	)

	logger.Info("trade statistics",
		zap.Int("total_trades", res.TotalTrades),
		zap.Int("winning_trades", res.WinningTrades),
		zap.Int("losing_trades", res.LosingTrades),
		zap.Int("neutral_trades", res.NeutralTrades),
		zap.Float64("win_rate", res.WinRate),
		zap.Float64("gain_loss_ratio", res.GainLossRatio),
		zap.Float64("best_trade", res.BestTrade),
		zap.Float64("worst_trade", res.WorstTrade),
		zap.Float64("trades_per_day", res.TradesPerDay),
		zap.Float64("time_in_market", res.TimeInMarket),
	)
}
