package knowledge

import (
	"github.com/yulin/playlens/internal/answers"
	"github.com/yulin/playlens/internal/behavior"
	"github.com/yulin/playlens/internal/events"
)

// PointScores are one knowledge point's normalized scores, all in [0,1].
// Read and the two feedback scores are diagnostic only; Mastery weighs the
// objective signals: 0.5*Explore + 0.5*Practice.
type PointScores struct {
	Read             float64 `json:"read"`
	Explore          float64 `json:"explore"`
	Practice         float64 `json:"practice"`
	FeedbackPositive float64 `json:"feedbackProcess_positive"`
	FeedbackNegative float64 `json:"feedbackProcess_negative"`
	Mastery          float64 `json:"mastery"`
}

// Record is one student's knowledge-mastery row.
type Record struct {
	Class      string  `json:"Class"`
	StuNum     string  `json:"StuNum"`
	Sex        int     `json:"Sex"`
	PreScore   float64 `json:"preScore"`
	PostScore  float64 `json:"postScore"`
	PPostScore float64 `json:"p_postScore"`

	GameCount    int     `json:"game_count"`
	AvgGameScore float64 `json:"avg_game_score"`
	// OverOrReplay reflects overall engagement (rounds played against the
	// replay ceiling), independent of any knowledge point.
	OverOrReplay float64 `json:"OverORReplay_score"`

	Points map[string]PointScores `json:"points"`
}

// Scorer computes knowledge-mastery records against an immutable config.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer. The config is shared, never copied or mutated.
func NewScorer(cfg *Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() *Config {
	return s.cfg
}

// Score computes every knowledge point's scores for one student.
//
// evts is the student's full event stream across all rounds; qa is the
// round-1 per-question detail from the behavior profile; avgStrength is the
// student's average password strength (0–10).
func (s *Scorer) Score(evts []events.ClassifiedEvent, qa [answers.QuestionCount]behavior.QADetail, avgStrength float64) map[string]PointScores {
	out := make(map[string]PointScores, len(s.cfg.Points))
	for _, p := range s.cfg.Points {
		out[p.Name] = s.scorePoint(p, evts, qa, avgStrength)
	}
	return out
}

func (s *Scorer) scorePoint(p Point, evts []events.ClassifiedEvent, qa [answers.QuestionCount]behavior.QADetail, avgStrength float64) PointScores {
	var ps PointScores

	readDuration := 0.0
	for _, e := range evts {
		for _, re := range p.ReadPatterns {
			if re.MatchString(e.Code) {
				readDuration += float64(e.Duration)
				break
			}
		}
	}
	ps.Read = clamp01(readDuration / s.cfg.Ceilings.ReadDuration)

	if p.UsesPasswordStrength {
		ps.Explore = clamp01(avgStrength / 10)
	} else {
		count := 0.0
		for _, e := range evts {
			for _, re := range p.ExplorePatterns {
				if re.MatchString(e.Code) {
					count++
					break
				}
			}
		}
		normalized := clamp01(count / p.ExploreCeiling)
		if p.Negative {
			ps.Explore = 1 - normalized
		} else {
			ps.Explore = normalized
		}
	}

	totalWeight := 0.0
	for _, w := range p.PracticeWeights {
		totalWeight += w
	}
	if totalWeight > 0 {
		earned := 0.0
		for q, w := range p.PracticeWeights {
			if q < 1 || q > answers.QuestionCount {
				continue
			}
			if d := qa[q-1]; d.Recorded && d.Correct {
				earned += w
			}
		}
		ps.Practice = clamp01(earned / totalWeight)
	}

	var positive, negative float64
	for _, q := range p.FeedbackQuestions {
		if q < 1 || q > answers.QuestionCount {
			continue
		}
		d := qa[q-1]
		if !d.Recorded {
			continue
		}
		if d.Correct {
			positive += float64(d.FeedbackProcessTime)
		} else {
			negative += float64(d.FeedbackProcessTime)
		}
	}
	ps.FeedbackPositive = clamp01(positive / s.cfg.Ceilings.FeedbackDuration)
	ps.FeedbackNegative = clamp01(negative / s.cfg.Ceilings.FeedbackDuration)

	ps.Mastery = clamp01(0.5*ps.Explore + 0.5*ps.Practice)
	return ps
}

// OverOrReplayScore normalizes rounds played against the replay ceiling.
func (s *Scorer) OverOrReplayScore(gameCount int) float64 {
	return clamp01(float64(gameCount) / s.cfg.Ceilings.OverOrReplay)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
