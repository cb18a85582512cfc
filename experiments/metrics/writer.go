package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// PlannerConfig identifies one planner parameterization under experiment.
type PlannerConfig struct {
	ID       int
	Rollouts int
	MaxDepth int
	Gamma    float64
}

type StepRecord struct {
	Config  int // PlannerConfig.ID
	Episode int
	StepMetric
}

// Writer dumps experiment tables as CSV files under a timestamped directory.
type Writer struct {
	baseDir string
}

func NewWriter(experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", experiment, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) WritePlannerConfigs(configs []PlannerConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Rollouts),
			strconv.Itoa(config.MaxDepth),
			strconv.FormatFloat(config.Gamma, 'f', -1, 64),
		})
	}
	header := []string{"id", "rollouts", "max_depth", "gamma"}
	return w.writeFile("planner_configs.csv", header, rows)
}

func (w *Writer) WriteEpisodes(episodes []EpisodeMetric) error {
	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{
			strconv.Itoa(e.Config),
			strconv.Itoa(e.Episode),
			strconv.Itoa(e.Steps),
			strconv.FormatFloat(e.Return, 'f', -1, 64),
			e.StartTime.UTC().Format(time.RFC3339),
			strconv.FormatInt(e.Duration.Milliseconds(), 10),
		})
	}
	header := []string{"config", "episode", "steps", "return", "start_time", "duration_ms"}
	return w.writeFile("episodes.csv", header, rows)
}

func (w *Writer) WriteSteps(steps []StepRecord) error {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{
			strconv.Itoa(s.Config),
			strconv.Itoa(s.Episode),
			strconv.Itoa(s.Step),
			fmt.Sprint(s.Action),
			strconv.FormatFloat(s.Reward, 'f', -1, 64),
			strconv.FormatInt(s.Duration.Microseconds(), 10),
			strconv.Itoa(s.Expansions),
			strconv.Itoa(s.FullEvaluations),
			strconv.Itoa(s.HistoryRecords),
		})
	}
	header := []string{
		"config", "episode", "step", "action", "reward",
		"plan_duration_us", "expansions", "full_evaluations", "history_records",
	}
	return w.writeFile("steps.csv", header, rows)
}

func (w *Writer) writeFile(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	return nil
}
