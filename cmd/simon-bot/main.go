// simon-bot plays one full Simon session against a running backend:
// sign in, replay rounds until a deliberate miss, pay to save the
// score, then print the leaderboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"simon-pi/internal/apiclient"
	"simon-pi/internal/config"
	"simon-pi/internal/game"
	"simon-pi/internal/localdata"
	"simon-pi/internal/logging"
	"simon-pi/internal/payment"
	"simon-pi/internal/session"
	"simon-pi/internal/wallet"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	data, err := localdata.Open(filepath.Join(cfg.DataDir, "simon.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("open local data failed")
	}
	api := apiclient.New(cfg.APIURL)
	sdk := wallet.NewSandbox(cfg.Username)
	gate := session.NewGate(sdk, data, api)

	ctx := context.Background()
	id, ok := gate.Restore(ctx)
	if !ok {
		id, err = gate.Authenticate(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("authentication failed")
		}
	}
	log.Info().Str("uid", id.UID).Str("username", id.Username).Msg("signed in")

	score := play(cfg.Rounds, data)
	log.Info().Int("score", score).Int("high_score", data.HighScore()).Msg("game over")

	flow := payment.NewFlow(sdk, gate, api, 1)
	res, err := flow.SaveScore(ctx, int64(score))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrUserCancelled):
			log.Warn().Msg("payment cancelled; score not saved")
		case errors.Is(err, apiclient.ErrNetwork):
			log.Fatal().Err(err).Msg("backend unreachable")
		default:
			log.Fatal().Err(err).Msg("save score failed")
		}
		return
	}
	log.Info().Str("payment_id", res.PaymentID).Msg("score saved")

	entries, err := api.Leaderboard(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("fetch leaderboard failed")
	}
	printLeaderboard(entries)
}

// play runs the session on an instant clock: the bot replays every
// round cleanly until the target, then misses on purpose.
func play(rounds int, scores game.HighScores) int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	e := game.NewEngine(game.Config{}, rng, scores)
	e.Start()

	ctx := context.Background()
	for {
		var seq []game.Color
		if err := e.ShowSequence(ctx, func(c game.Color) { seq = append(seq, c) }); err != nil {
			break
		}
		if e.Round() > rounds {
			e.HandleInput(otherColor(seq[0]))
			break
		}
		for _, c := range seq {
			e.HandleInput(c)
		}
	}
	return e.Score()
}

func otherColor(c game.Color) game.Color {
	for _, alt := range game.Colors {
		if alt != c {
			return alt
		}
	}
	return c
}

func printLeaderboard(entries []apiclient.LeaderboardEntry) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Leaderboard (%d):\n", len(entries)))
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("  %2d. %-20s %d\n", i+1, e.Username, e.Score))
	}
	fmt.Print(b.String())
}
