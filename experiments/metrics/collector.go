package metrics

import (
	"time"
)

// PlanMetric describes one call to the planner.
type PlanMetric struct {
	Rollouts        int
	MaxDepth        int
	Duration        time.Duration
	Expansions      int // tree nodes added across rollouts
	FullEvaluations int // default-policy runs that hit a terminal state
	HistoryRecords  int // history store size after the refresh walk
}

type StepMetric struct {
	Step   int
	Action []int
	Reward float64
	PlanMetric
}

type EpisodeMetric struct {
	Config    int // PlannerConfig.ID
	Episode   int
	Steps     int
	Return    float64
	StartTime time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(rollouts, maxDepth int)
	AddExpansion()
	AddFullEvaluation()
	SetHistoryRecords(n int)
	Complete() PlanMetric
}

// collector counts with plain integers: planning is sequential.
type collector struct {
	rollouts        int
	maxDepth        int
	startTime       time.Time
	expansions      int
	fullEvaluations int
	historyRecords  int
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(rollouts, maxDepth int) {
	c.startTime = time.Now()
	c.rollouts = rollouts
	c.maxDepth = maxDepth
	c.expansions = 0
	c.fullEvaluations = 0
}

func (c *collector) AddExpansion() {
	c.expansions++
}

func (c *collector) AddFullEvaluation() {
	c.fullEvaluations++
}

func (c *collector) SetHistoryRecords(n int) {
	c.historyRecords = n
}

func (c *collector) Complete() PlanMetric {
	return PlanMetric{
		Rollouts:        c.rollouts,
		MaxDepth:        c.maxDepth,
		Duration:        time.Since(c.startTime),
		Expansions:      c.expansions,
		FullEvaluations: c.fullEvaluations,
		HistoryRecords:  c.historyRecords,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (d *dummyCollector) Start(rollouts, maxDepth int) {}
func (d *dummyCollector) AddExpansion()                {}
func (d *dummyCollector) AddFullEvaluation()           {}
func (d *dummyCollector) SetHistoryRecords(n int)      {}
func (d *dummyCollector) Complete() PlanMetric         { return PlanMetric{} }
