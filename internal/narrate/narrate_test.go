package narrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/sim"
	"github.com/quantfold/quantfold/internal/walkforward"
)

type fakeProvider struct {
	gotSystem string
	gotUser   string
	reply     string
	err       error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, systemPrompt, userPrompt string, _ int) (string, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.reply, f.err
}

func sampleReport() *walkforward.Report {
	return &walkforward.Report{
		RunID:       "run-42",
		PassRate:    0.75,
		FinalParams: core.ParameterPair{Lambda: 0.95, Theta: 0.93},
		Windows: []walkforward.Window{
			{Index: 0, TrainSharpe: 1.8, ValSharpe: 0.9, Pass: true},
			{Index: 1, TrainSharpe: 2.1, ValSharpe: -0.2},
		},
		Summary: sim.Stats{Sharpe: 0.6, TotalReturn: 0.12, MaxDrawdown: 0.08, WinRate: 0.55},
	}
}

func TestSummarize_PromptCarriesHeadlineNumbers(t *testing.T) {
	p := &fakeProvider{reply: "  Looks decent.  "}

	got, err := Summarize(context.Background(), p, sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Looks decent." {
		t.Errorf("reply should be trimmed, got %q", got)
	}

	for _, want := range []string{"run-42", "pass rate 75%", "Sharpe 0.60", "lambda 0.950", "Window 1"} {
		if !strings.Contains(p.gotUser, want) {
			t.Errorf("prompt missing %q:\n%s", want, p.gotUser)
		}
	}
	if p.gotSystem == "" {
		t.Error("system prompt should be set")
	}
}

func TestSummarize_ProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	_, err := Summarize(context.Background(), p, sampleReport())
	if err == nil || !strings.Contains(err.Error(), "run-42") {
		t.Errorf("error should name the run: %v", err)
	}
}
