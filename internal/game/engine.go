package game

import (
	"context"
	"math/rand"
	"time"
)

// HighScores persists the player's best score between sessions.
type HighScores interface {
	HighScore() int
	SetHighScore(score int) error
}

// Engine drives one Simon session. It is event-driven and not safe for
// concurrent use: playback and input are expected to arrive from a
// single loop, the way the timers and click handlers of the original
// game interleave.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	scores HighScores

	sequence []Color
	input    []Color
	round    int
	score    int
	phase    Phase

	sleep func(context.Context, time.Duration) error
}

// NewEngine builds an idle engine. rng must not be nil; scores may be
// nil when no client-side persistence is wanted.
func NewEngine(cfg Config, rng *rand.Rand, scores HighScores) *Engine {
	return &Engine{
		cfg:    cfg,
		rng:    rng,
		scores: scores,
		phase:  PhaseIdle,
		sleep:  sleepCtx,
	}
}

func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Round() int   { return e.round }
func (e *Engine) Score() int   { return e.score }

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() []Color {
	out := make([]Color, len(e.sequence))
	copy(out, e.sequence)
	return out
}

// HighScore reports the persisted best, or 0 without a store.
func (e *Engine) HighScore() int {
	if e.scores == nil {
		return 0
	}
	return e.scores.HighScore()
}

// Start resets the session and opens round 1 with a single random
// color. The engine is left in the showing phase; call ShowSequence to
// play it back.
func (e *Engine) Start() {
	e.sequence = e.sequence[:0]
	e.input = e.input[:0]
	e.round = 0
	e.score = 0
	e.nextRound()
}

// Interval is the current playback pacing. It only tightens once the
// player is past round 3 and never drops below the floor.
func (e *Engine) Interval() time.Duration {
	if e.round <= 3 {
		return e.cfg.InitialInterval
	}
	iv := e.cfg.InitialInterval - time.Duration(e.round)*e.cfg.IntervalStep
	if iv < e.cfg.MinInterval {
		return e.cfg.MinInterval
	}
	return iv
}

// RoundBreak is the pause the caller should observe after RoundComplete
// before showing the next sequence.
func (e *Engine) RoundBreak() time.Duration { return e.cfg.RoundBreak }

// ShowSequence replays the sequence through flash, pacing each step by
// the current interval, then opens the board for input. Only valid in
// the showing phase; elsewhere it is a no-op.
func (e *Engine) ShowSequence(ctx context.Context, flash func(Color)) error {
	if e.phase != PhaseShowing {
		return nil
	}
	iv := e.Interval()
	for i, c := range e.sequence {
		if flash != nil {
			flash(c)
		}
		if i < len(e.sequence)-1 {
			if err := e.sleep(ctx, iv); err != nil {
				return err
			}
		}
	}
	// One extra beat after the last flash before input opens, matching
	// the original pacing.
	if err := e.sleep(ctx, iv); err != nil {
		return err
	}
	e.phase = PhaseAwaitingInput
	return nil
}

// HandleInput feeds one player press into the session.
func (e *Engine) HandleInput(c Color) InputResult {
	if e.phase != PhaseAwaitingInput {
		return InputIgnored
	}
	e.input = append(e.input, c)
	idx := len(e.input) - 1
	if e.input[idx] != e.sequence[idx] {
		e.gameOver()
		return GameOver
	}
	if len(e.input) == len(e.sequence) {
		e.score += e.round
		e.nextRound()
		return RoundComplete
	}
	return InputAccepted
}

func (e *Engine) nextRound() {
	e.round++
	e.input = e.input[:0]
	e.sequence = append(e.sequence, e.randomColor())
	e.phase = PhaseShowing
}

func (e *Engine) randomColor() Color {
	return Colors[e.rng.Intn(len(Colors))]
}

func (e *Engine) gameOver() {
	e.phase = PhaseGameOver
	if e.scores != nil && e.score > e.scores.HighScore() {
		_ = e.scores.SetHighScore(e.score)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
