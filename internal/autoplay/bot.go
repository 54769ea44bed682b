package autoplay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/talgya/claimrush/internal/game"
)

// ErrFinished is returned by Step once the run is won and the bot is set to
// stop on victory.
var ErrFinished = errors.New("run finished")

// Bot runs observe, assess, decide and act in a loop.
type Bot struct {
	Observer *Observer
	Actor    *Actor
	Prefs    Preferences
	Memory   *Memory
	Now      func() time.Time

	logSeq uint64
}

// NewBot wires a bot against the API at baseURL.
func NewBot(baseURL string, prefs Preferences) *Bot {
	return &Bot{
		Observer: NewObserver(baseURL),
		Actor:    NewActor(baseURL),
		Prefs:    prefs,
		Memory:   NewMemory(),
		Now:      time.Now,
	}
}

// Step executes one cycle and returns the action taken.
func (b *Bot) Step(ctx context.Context) (Action, error) {
	snap, err := b.Observer.Observe(ctx)
	if err != nil {
		return Action{}, err
	}
	b.followLog(ctx, snap.LogSeq)

	assessment := Assess(snap)
	action := Decide(snap, assessment, b.Prefs)
	if action.Kind == ActionNone && snap.State.IsVictory && b.Prefs.StopOnVictory {
		return action, ErrFinished
	}

	result, err := b.Actor.Act(ctx, action)
	if err != nil {
		return action, err
	}

	b.Memory.Record(StepRecord{
		Time:      b.Now(),
		Action:    action.Kind,
		Target:    action.Target,
		Risk:      assessment.Risk,
		Money:     snap.State.Money,
		Rationale: action.Rationale,
	})
	if action.Kind != ActionClick && action.Kind != ActionNone {
		slog.Info("autoplayer acted",
			"action", action.Kind,
			"target", action.Target,
			"risk", assessment.Risk,
			"money", game.FormatCount(snap.State.Money),
			"rationale", action.Rationale,
		)
	}
	if result != nil && result.Arrest != nil {
		b.Memory.RecordArrest(*result.Arrest)
		slog.Info("trial over",
			"outcome", result.Arrest.Outcome,
			"sentence", result.Arrest.Sentence,
			"kept", game.FormatCount(result.Arrest.MoneyAfter),
		)
	}
	return action, nil
}

// followLog echoes new server log entries at debug level.
func (b *Bot) followLog(ctx context.Context, seq uint64) {
	if seq <= b.logSeq {
		b.logSeq = seq
		return
	}
	entries, err := b.Observer.Events(ctx, b.logSeq)
	if err != nil {
		slog.Debug("event fetch failed", "error", err)
		return
	}
	for _, e := range entries {
		slog.Debug("game event", "seq", e.Seq, "category", e.Category, "text", e.Text)
	}
	b.logSeq = seq
}

// Run steps every interval until ctx is done or the run is finished. Errors
// are logged and the loop continues; a rate limit answer backs off once.
func (b *Bot) Run(ctx context.Context, interval, reportEvery time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var report <-chan time.Time
	if reportEvery > 0 {
		t := time.NewTicker(reportEvery)
		defer t.Stop()
		report = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-report:
			slog.Info("autoplayer report", "summary", b.Memory.Summary())
		case <-ticker.C:
			_, err := b.Step(ctx)
			if errors.Is(err, ErrFinished) {
				slog.Info("run won, autoplayer stopping", "summary", b.Memory.Summary())
				return nil
			}
			var status *StatusError
			if errors.As(err, &status) && status.RateLimited() {
				slog.Warn("rate limited, backing off")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
				}
				continue
			}
			if err != nil && ctx.Err() == nil {
				slog.Warn("autoplayer step failed", "error", err)
			}
		}
	}
}

// WaitReady polls the API with exponential backoff until it answers or
// timeout passes.
func (b *Bot) WaitReady(ctx context.Context, timeout time.Duration) error {
	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second
	deadline := time.Now().Add(timeout)

	for {
		if b.Observer.Ready(ctx) {
			slog.Info("claimsim API is ready")
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("claimsim API did not become ready")
		}
		slog.Info("claimsim not ready, retrying...", "backoff", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
