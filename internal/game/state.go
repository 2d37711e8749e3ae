package game

import "time"

type Color string

const (
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
)

// Colors is the fixed alphabet the sequence is drawn from.
var Colors = [4]Color{ColorGreen, ColorRed, ColorYellow, ColorBlue}

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseShowing       Phase = "showing"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseGameOver      Phase = "game_over"
)

// InputResult classifies what one player input did to the session.
type InputResult int

const (
	// InputIgnored: input arrived outside the awaiting-input phase.
	// Stray presses are a no-op, not an error.
	InputIgnored InputResult = iota
	// InputAccepted: correct so far, more of the sequence remains.
	InputAccepted
	// RoundComplete: the whole sequence was reproduced; the score grew
	// by the round number and the next round is ready to show.
	RoundComplete
	// GameOver: mismatch; the session is frozen.
	GameOver
)

type Config struct {
	// InitialInterval paces sequence playback until the speed-up kicks
	// in after round 3.
	InitialInterval time.Duration
	// IntervalStep is subtracted per round once round > 3.
	IntervalStep time.Duration
	// MinInterval is the pacing floor; playback never gets faster.
	MinInterval time.Duration
	// RoundBreak is the celebratory pause between a completed round and
	// the next playback.
	RoundBreak time.Duration
}

func DefaultConfig() Config {
	return Config{
		InitialInterval: 800 * time.Millisecond,
		IntervalStep:    20 * time.Millisecond,
		MinInterval:     300 * time.Millisecond,
		RoundBreak:      1500 * time.Millisecond,
	}
}
