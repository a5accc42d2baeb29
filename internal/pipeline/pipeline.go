// Package pipeline wires the full analysis together: ingest the workbooks,
// build the behavior and knowledge tables, run statistics and clustering,
// export the results, and persist the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yulin/playlens/internal/answers"
	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/cluster"
	"github.com/yulin/playlens/internal/config"
	"github.com/yulin/playlens/internal/events"
	"github.com/yulin/playlens/internal/ingest"
	"github.com/yulin/playlens/internal/knowledge"
	"github.com/yulin/playlens/internal/stats"
	"github.com/yulin/playlens/internal/store"
)

// Pipeline holds the immutable run configuration.
type Pipeline struct {
	cfg    *config.Config
	rules  *events.RuleTable
	key    answers.Key
	kcfg   *knowledge.Config
	agg    *behavior.Aggregator
	scorer *knowledge.Scorer
}

// Result is everything one pipeline run produces.
type Result struct {
	Rows      []ingest.StudentRow
	Behavior  []behavior.Record
	Knowledge []knowledge.Record
	Profiles  []behavior.ClassProfile
	Stats     stats.Report
	Cluster   cluster.Report

	// UnmappedDates counts game log rows whose session date had no class
	// mapping in the config.
	UnmappedDates int
}

// New builds a pipeline from the config, loading the rule table, answer key
// and knowledge config overrides when the config names them.
func New(cfg *config.Config) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg}

	var err error
	if cfg.Rules != "" {
		if p.rules, err = events.LoadRuleTable(cfg.Rules); err != nil {
			return nil, fmt.Errorf("load rule table: %w", err)
		}
	} else {
		p.rules = events.DefaultRuleTable()
	}

	if cfg.AnswerKey != "" {
		if p.key, err = answers.LoadKey(cfg.AnswerKey); err != nil {
			return nil, fmt.Errorf("load answer key: %w", err)
		}
	} else {
		p.key = answers.DefaultKey()
	}

	if cfg.Knowledge != "" {
		if p.kcfg, err = knowledge.LoadConfig(cfg.Knowledge); err != nil {
			return nil, fmt.Errorf("load knowledge config: %w", err)
		}
	} else {
		p.kcfg = knowledge.DefaultConfig()
	}

	p.agg = behavior.NewAggregator(p.rules, p.key)
	p.scorer = knowledge.NewScorer(p.kcfg)
	return p, nil
}

// Rules returns the rule table in use.
func (p *Pipeline) Rules() *events.RuleTable { return p.rules }

// KnowledgeConfig returns the scoring config in use.
func (p *Pipeline) KnowledgeConfig() *knowledge.Config { return p.kcfg }

// Run executes the full analysis over the configured inputs.
func (p *Pipeline) Run() (*Result, error) {
	rows, unmapped, err := p.Ingest()
	if err != nil {
		return nil, err
	}

	res := &Result{Rows: rows, UnmappedDates: unmapped}
	res.Behavior, res.Knowledge = p.BuildRecords(rows)
	res.Profiles = behavior.Profile(res.Behavior, p.rules)
	res.Stats = stats.Analyze(res.Behavior, p.rules)
	res.Cluster = cluster.Analyze(res.Knowledge, res.Behavior, p.kcfg, p.rules)

	slog.Info("pipeline complete", "students", len(rows), "unmapped_dates", unmapped)
	return res, nil
}

// Ingest reads and joins the two workbooks, then drops rows unusable for the
// study (missing questionnaire scores or no game rounds).
func (p *Pipeline) Ingest() ([]ingest.StudentRow, int, error) {
	questionnaire, err := ingest.ReadQuestionnaire(p.cfg.Questionnaire)
	if err != nil {
		return nil, 0, fmt.Errorf("read questionnaire: %w", err)
	}

	game, unmapped, err := ingest.ReadGameLog(p.cfg.GameLog, p.cfg.DateClasses)
	if err != nil {
		return nil, 0, fmt.Errorf("read game log: %w", err)
	}

	rows := ingest.Clean(ingest.Merge(questionnaire, ingest.Pivot(game)))
	return rows, unmapped, nil
}

// BuildRecords derives the behavior and knowledge tables from the merged
// rows. The returned slices are index-aligned with each other and with rows.
func (p *Pipeline) BuildRecords(rows []ingest.StudentRow) ([]behavior.Record, []knowledge.Record) {
	brecs := make([]behavior.Record, 0, len(rows))
	krecs := make([]knowledge.Record, 0, len(rows))

	for _, row := range rows {
		brec := p.agg.Aggregate(row.Student())
		brecs = append(brecs, brec)

		var evts []events.ClassifiedEvent
		for i, rd := range row.Rounds {
			evts = append(evts, p.agg.Parser().Parse(rd.Sequence, i+1)...)
		}
		avgStrength := knowledge.AveragePasswordStrength(row.Passwords())

		krecs = append(krecs, knowledge.Record{
			Class:        brec.Class,
			StuNum:       brec.StuNum,
			Sex:          brec.Sex,
			PreScore:     brec.PreScore,
			PostScore:    brec.PostScore,
			PPostScore:   brec.PPostScore,
			GameCount:    brec.GameCount,
			AvgGameScore: brec.AvgGameScore,
			OverOrReplay: p.scorer.OverOrReplayScore(brec.GameCount),
			Points:       p.scorer.Score(evts, brec.QARound1, avgStrength),
		})
	}
	return brecs, krecs
}

// Persist writes the run and both record tables to the results store.
func (p *Pipeline) Persist(ctx context.Context, s *store.Store, res *Result) (store.Run, error) {
	run := store.NewRun(p.cfg.Questionnaire, p.cfg.GameLog)
	run.Students = len(res.Behavior)
	run.ClusterK = res.Cluster.K
	run.Silhouette = res.Cluster.Silhouette

	if err := s.SaveRun(ctx, run, res.Behavior, res.Knowledge); err != nil {
		return store.Run{}, fmt.Errorf("persist run: %w", err)
	}
	slog.Info("run persisted", "run", run.ID, "students", run.Students)
	return run, nil
}
