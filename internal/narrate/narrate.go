// Package narrate turns a walk-forward report into a short plain-language
// performance summary via an LLM provider. Entirely optional: the engine
// never depends on it, the CLI invokes it only when narration is enabled.
package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantfold/quantfold/internal/walkforward"
)

// Provider defines the interface for narration backends.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

const systemPrompt = `You are a quantitative analyst. Summarize backtest results for a non-specialist:
state whether the walk-forward results look robust, call out the pass rate,
out-of-sample Sharpe and drawdown, and note anything suspicious (few trades,
one dominant window). Four sentences maximum. No investment advice.`

// Summarize renders the report's headline numbers into a prompt and asks
// the provider for a short narrative.
func Summarize(ctx context.Context, p Provider, rep *walkforward.Report) (string, error) {
	resp, err := p.Complete(ctx, systemPrompt, describe(rep), 512)
	if err != nil {
		return "", fmt.Errorf("narrating report %s: %w", rep.RunID, err)
	}
	return strings.TrimSpace(resp), nil
}

// describe flattens the report into the compact text form the prompt uses.
func describe(rep *walkforward.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Walk-forward run %s: %d windows, pass rate %.0f%%.\n",
		rep.RunID, len(rep.Windows), rep.PassRate*100)
	fmt.Fprintf(&b, "Out-of-sample: %d trades, Sharpe %.2f, total return %.2f%%, max drawdown %.2f%%, win rate %.0f%%, avg hold %.1f bars.\n",
		len(rep.OOSTrades), rep.Summary.Sharpe, rep.Summary.TotalReturn*100,
		rep.Summary.MaxDrawdown*100, rep.Summary.WinRate*100, rep.Summary.AvgHoldBars)
	fmt.Fprintf(&b, "Final parameters for deployment: lambda %.3f, theta %.3f.\n",
		rep.FinalParams.Lambda, rep.FinalParams.Theta)
	for _, w := range rep.Windows {
		fmt.Fprintf(&b, "Window %d: train Sharpe %.2f, val Sharpe %.2f, %d trades, pass=%v.\n",
			w.Index, w.TrainSharpe, w.ValSharpe, len(w.Trades), w.Pass)
	}
	return b.String()
}
