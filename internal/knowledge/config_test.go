package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `ceilings:
  read_duration: 20
  feedback_duration: 20
  over_or_replay: 5
points:
  - name: passwordFunction
    description: what passwords are for
    read_events: ["L1I1"]
    explore_events: ["password_strength"]
    practice_weights:
      1: 1.0
    feedback_questions: [1]
  - name: cyberattackAvoidance
    read_events: ["L2I1"]
    explore_events: ["BadP", 'L\dH\d+']
    practice_weights:
      2: 0.5
      5: 0.5
    feedback_questions: [2, 5]
    negative: true
    explore_ceiling: 20
`

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Points, 2)
	assert.Equal(t, 20.0, cfg.Ceilings.ReadDuration)

	pf := findPoint(t, cfg, "passwordFunction")
	assert.True(t, pf.UsesPasswordStrength)
	assert.Equal(t, 1.0, pf.PracticeWeights[1])

	av := findPoint(t, cfg, "cyberattackAvoidance")
	assert.True(t, av.Negative)
	assert.Len(t, av.ExplorePatterns, 2)
	assert.False(t, av.UsesPasswordStrength)
}

func TestValidateSpecIntegerMapKeys(t *testing.T) {
	// practice_weights is keyed by question number; the YAML→JSON
	// normalization must not choke on the non-string keys.
	require.NoError(t, validateSpec([]byte(validConfigYAML)))

	nested := `ceilings:
  read_duration: 20
  feedback_duration: 20
  over_or_replay: 5
points:
  - name: p
    practice_weights:
      1: 0.25
      2: 0.25
      3: 0.5
    explore_events: ["L\\dS\\d+"]
    explore_ceiling: 20
`
	require.NoError(t, validateSpec([]byte(nested)))
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	doc := validConfigYAML + `  - name: extra
    practice_weights:
      1: 1.0
    bogus_field: true
`
	_, err := LoadConfig(writeConfig(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestLoadConfigRejectsMissingCeilings(t *testing.T) {
	doc := `points:
  - name: p
    practice_weights:
      1: 1.0
`
	_, err := LoadConfig(writeConfig(t, doc))
	require.Error(t, err)
}

func TestNewConfigValidation(t *testing.T) {
	base := defaultSpec()

	bad := base
	bad.Ceilings.ReadDuration = 0
	_, err := NewConfig(bad)
	assert.Error(t, err, "zero ceiling accepted")

	bad = base
	bad.Points = append([]PointSpec{}, base.Points...)
	bad.Points[1].ExploreCeiling = 0 // counted indicator needs a ceiling
	_, err = NewConfig(bad)
	assert.Error(t, err, "counted point without ceiling accepted")

	bad = base
	bad.Points = []PointSpec{}
	_, err = NewConfig(bad)
	assert.Error(t, err, "empty point list accepted")
}

func TestDefaultConfigCompiles(t *testing.T) {
	cfg := DefaultConfig()
	require.Len(t, cfg.Points, 5)
	for _, p := range cfg.Points {
		if !p.UsesPasswordStrength {
			assert.Positivef(t, p.ExploreCeiling, "point %s missing explore ceiling", p.Name)
		}
	}
}
