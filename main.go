package main

import (
	"flag"

	"dyna/env"
	"dyna/experiments"
	"dyna/planner"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	rollouts := flag.Int("rollouts", 100, "rollout budget per planning step")
	maxDepth := flag.Int("depth", 50, "search horizon")
	gamma := flag.Float64("gamma", 0.9, "discount factor")
	steps := flag.Int("steps", 200, "episode length cap")
	seed := flag.Uint64("seed", 0, "random seed")
	experiment := flag.Bool("experiment", false, "run the rollout budget sweep instead of a demo episode")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *experiment {
		experiments.RunRolloutBudget()
		return
	}

	runDemo(*rollouts, *maxDepth, *gamma, *steps, *seed)
}

// runDemo plays one episode of the dynamic-reward cartpole: plan, step the
// real environment, repeat.
func runDemo(rollouts, maxDepth int, gamma float64, maxSteps int, seed uint64) {
	e := env.NewCartPole(seed)
	p := planner.New(e.ActionSpace(),
		planner.WithRollouts(rollouts),
		planner.WithMaxDepth(maxDepth),
		planner.WithGamma(gamma),
		planner.WithSeed(seed),
		planner.WithMetrics(),
	)

	log.Info().Int("rollouts", rollouts).Int("depth", maxDepth).
		Msg("starting cartpole episode")

	total := 0.0
	done := false
	step := 0
	for ; step < maxSteps && !done; step++ {
		action := p.Act(e, done)
		var reward float64
		_, reward, done = e.Step(action)
		total += reward

		plan := p.LastPlan()
		log.Info().Int("step", step).Ints("action", action).
			Float64("reward", reward).
			Dur("plan_duration", plan.Duration).
			Int("histories", plan.HistoryRecords).
			Msg("stepped")
	}

	log.Info().Int("steps", step).Float64("return", total).Msg("episode over")
}
