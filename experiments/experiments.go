package experiments

import (
	"time"

	"dyna/env"
	"dyna/experiments/metrics"
	"dyna/planner"

	"github.com/rs/zerolog/log"
)

const (
	NumEpisodes = 10  // Per planner config
	MaxSteps    = 200 // Per episode
)

var budgetConfigs = []metrics.PlannerConfig{
	{ID: 1, Rollouts: 10, MaxDepth: 50, Gamma: 0.9},
	{ID: 2, Rollouts: 25, MaxDepth: 50, Gamma: 0.9},
	{ID: 3, Rollouts: 50, MaxDepth: 50, Gamma: 0.9},
	{ID: 4, Rollouts: 100, MaxDepth: 50, Gamma: 0.9},
	{ID: 5, Rollouts: 200, MaxDepth: 50, Gamma: 0.9},
}

// RunRolloutBudget sweeps the rollout budget on the dynamic-reward cartpole
// and writes per-episode and per-step tables as CSV.
func RunRolloutBudget() {
	writer, err := metrics.NewWriter("rollout_budget")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create experiment writer")
	}
	if err := writer.WritePlannerConfigs(budgetConfigs); err != nil {
		log.Fatal().Err(err).Msg("failed to write planner configs")
	}

	var episodes []metrics.EpisodeMetric
	var steps []metrics.StepRecord
	for _, config := range budgetConfigs {
		log.Info().Int("config", config.ID).Int("rollouts", config.Rollouts).
			Msg("running config")
		for i := 0; i < NumEpisodes; i++ {
			episode, stepRecords := runEpisode(config, i, uint64(i))
			episodes = append(episodes, episode)
			steps = append(steps, stepRecords...)
			log.Info().Int("config", config.ID).Int("episode", i).
				Int("steps", episode.Steps).Float64("return", episode.Return).
				Msg("episode over")
		}
	}

	if err := writer.WriteEpisodes(episodes); err != nil {
		log.Fatal().Err(err).Msg("failed to write episodes")
	}
	if err := writer.WriteSteps(steps); err != nil {
		log.Fatal().Err(err).Msg("failed to write steps")
	}
}

func runEpisode(config metrics.PlannerConfig, episode int, seed uint64) (metrics.EpisodeMetric, []metrics.StepRecord) {
	e := env.NewCartPole(seed)
	p := planner.New(e.ActionSpace(),
		planner.WithRollouts(config.Rollouts),
		planner.WithMaxDepth(config.MaxDepth),
		planner.WithGamma(config.Gamma),
		planner.WithSeed(seed),
		planner.WithMetrics(),
	)

	start := time.Now()
	var steps []metrics.StepRecord
	total := 0.0
	done := false
	step := 0
	for ; step < MaxSteps && !done; step++ {
		action := p.Act(e, done)
		var reward float64
		_, reward, done = e.Step(action)
		total += reward

		steps = append(steps, metrics.StepRecord{
			Config:  config.ID,
			Episode: episode,
			StepMetric: metrics.StepMetric{
				Step:       step,
				Action:     action,
				Reward:     reward,
				PlanMetric: p.LastPlan(),
			},
		})
	}

	return metrics.EpisodeMetric{
		Config:    config.ID,
		Episode:   episode,
		Steps:     step,
		Return:    total,
		StartTime: start,
		Duration:  time.Since(start),
	}, steps
}
