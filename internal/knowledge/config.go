// Package knowledge computes per-knowledge-point mastery scores from a
// student's parsed events and reconstructed quiz answers.
//
// The model has three layers: raw behavior signals, per-dimension scores
// normalized to [0,1], and a weighted mastery scalar. Read and feedback
// scores are computed as diagnostic fields but deliberately excluded from
// the mastery weighting: only the objective signals (exploration outcomes
// and answer correctness) carry weight.
package knowledge

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// PasswordStrengthSentinel marks a knowledge point whose exploration signal
// is the strength of the passwords the student created, not an event count.
const PasswordStrengthSentinel = "password_strength"

// Ceilings are the normalization constants, set from the study's observed
// data distribution. Raw signals at or above a ceiling score 1.0.
type Ceilings struct {
	ReadDuration     float64 `yaml:"read_duration"`
	FeedbackDuration float64 `yaml:"feedback_duration"`
	OverOrReplay     float64 `yaml:"over_or_replay"`
}

// Point is the scoring configuration for one knowledge point.
type Point struct {
	Name        string
	Description string
	// ReadPatterns match events whose duration counts as reading this
	// knowledge point's content.
	ReadPatterns []*regexp.Regexp
	// ExplorePatterns match exploration events; empty when UsesPasswordStrength.
	ExplorePatterns []*regexp.Regexp
	// UsesPasswordStrength switches the exploration signal to average
	// password strength / 10.
	UsesPasswordStrength bool
	// PracticeWeights maps question index to its weight in the practice score.
	PracticeWeights map[int]float64
	// FeedbackQuestions are the question indexes whose feedback-processing
	// time feeds the positive/negative feedback scores.
	FeedbackQuestions []int
	// Negative marks inverted indicators (attacks suffered): fewer is better.
	Negative bool
	// ExploreCeiling normalizes the exploration event count.
	ExploreCeiling float64
}

// Config is the immutable knowledge-point table plus ceilings. Build it once
// at process start and pass it explicitly; never mutate it at runtime.
type Config struct {
	Points   []Point
	Ceilings Ceilings
}

// PointSpec is the serializable form of a Point.
type PointSpec struct {
	Name              string          `yaml:"name"`
	Description       string          `yaml:"description"`
	ReadEvents        []string        `yaml:"read_events"`
	ExploreEvents     []string        `yaml:"explore_events"`
	PracticeWeights   map[int]float64 `yaml:"practice_weights"`
	FeedbackQuestions []int           `yaml:"feedback_questions"`
	Negative          bool            `yaml:"negative"`
	ExploreCeiling    float64         `yaml:"explore_ceiling"`
}

// ConfigSpec is the serializable form of a Config.
type ConfigSpec struct {
	Ceilings Ceilings    `yaml:"ceilings"`
	Points   []PointSpec `yaml:"points"`
}

// NewConfig compiles a spec into an immutable Config.
func NewConfig(spec ConfigSpec) (*Config, error) {
	cfg := &Config{Ceilings: spec.Ceilings}
	if cfg.Ceilings.ReadDuration <= 0 || cfg.Ceilings.FeedbackDuration <= 0 || cfg.Ceilings.OverOrReplay <= 0 {
		return nil, fmt.Errorf("ceilings must be positive: %+v", cfg.Ceilings)
	}
	for i, ps := range spec.Points {
		if ps.Name == "" {
			return nil, fmt.Errorf("point %d: empty name", i)
		}
		p := Point{
			Name:              ps.Name,
			Description:       ps.Description,
			PracticeWeights:   ps.PracticeWeights,
			FeedbackQuestions: ps.FeedbackQuestions,
			Negative:          ps.Negative,
			ExploreCeiling:    ps.ExploreCeiling,
		}
		for _, pat := range ps.ReadEvents {
			re, err := regexp.Compile("^" + pat)
			if err != nil {
				return nil, fmt.Errorf("point %s: read pattern %q: %w", ps.Name, pat, err)
			}
			p.ReadPatterns = append(p.ReadPatterns, re)
		}
		for _, pat := range ps.ExploreEvents {
			if pat == PasswordStrengthSentinel {
				p.UsesPasswordStrength = true
				continue
			}
			re, err := regexp.Compile("^" + pat)
			if err != nil {
				return nil, fmt.Errorf("point %s: explore pattern %q: %w", ps.Name, pat, err)
			}
			p.ExplorePatterns = append(p.ExplorePatterns, re)
		}
		if !p.UsesPasswordStrength && p.ExploreCeiling <= 0 {
			return nil, fmt.Errorf("point %s: explore_ceiling must be positive", ps.Name)
		}
		cfg.Points = append(cfg.Points, p)
	}
	if len(cfg.Points) == 0 {
		return nil, fmt.Errorf("config defines no knowledge points")
	}
	return cfg, nil
}

// LoadConfig reads a YAML knowledge config, validates it against the
// embedded JSON Schema, and compiles it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge config: %w", err)
	}
	if err := validateSpec(data); err != nil {
		return nil, fmt.Errorf("knowledge config %s: %w", path, err)
	}
	var spec ConfigSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse knowledge config: %w", err)
	}
	return NewConfig(spec)
}

// DefaultConfig returns the password-security study's scoring table: five
// knowledge points, all normalization ceilings at 20 (rounds ceiling at 5).
func DefaultConfig() *Config {
	cfg, err := NewConfig(defaultSpec())
	if err != nil {
		panic(fmt.Sprintf("built-in knowledge config invalid: %v", err))
	}
	return cfg
}

func defaultSpec() ConfigSpec {
	return ConfigSpec{
		Ceilings: Ceilings{ReadDuration: 20, FeedbackDuration: 20, OverOrReplay: 5},
		Points: []PointSpec{
			{
				Name:              "passwordFunction",
				Description:       "what passwords are for",
				ReadEvents:        []string{"L1I1"},
				ExploreEvents:     []string{PasswordStrengthSentinel},
				PracticeWeights:   map[int]float64{1: 1.0},
				FeedbackQuestions: []int{1},
			},
			{
				Name:              "passwordComposition",
				Description:       "what makes up a password",
				ReadEvents:        []string{"L1I6"},
				ExploreEvents:     []string{`PW>.*`},
				PracticeWeights:   map[int]float64{4: 1.0},
				FeedbackQuestions: []int{4},
				ExploreCeiling:    20,
			},
			{
				Name:              "cybersecurityTools",
				Description:       "protective tools on the network",
				ReadEvents:        []string{"L1I7"},
				ExploreEvents:     []string{`L\dS\d+`, `L\dF\d+`},
				PracticeWeights:   map[int]float64{3: 0.5, 5: 0.5},
				FeedbackQuestions: []int{3, 5},
				ExploreCeiling:    20,
			},
			{
				Name:              "cyberattackAvoidance",
				Description:       "recognizing and avoiding attacks",
				ReadEvents:        []string{"L2I1", "L2I3"},
				ExploreEvents:     []string{"BadP", `L\dH\d+`},
				PracticeWeights:   map[int]float64{2: 0.5, 5: 0.5},
				FeedbackQuestions: []int{2, 5},
				Negative:          true,
				ExploreCeiling:    20,
			},
			{
				Name:              "passwordStrengthMemory",
				Description:       "strong yet memorable passwords",
				ReadEvents:        []string{`L\dEP`},
				ExploreEvents:     []string{PasswordStrengthSentinel},
				PracticeWeights:   map[int]float64{4: 1.0},
				FeedbackQuestions: []int{4},
			},
		},
	}
}
