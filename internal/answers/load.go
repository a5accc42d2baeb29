package answers

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadKey reads an answer key from a YAML file mapping question numbers to
// option lists, e.g.
//
//	1: [C]
//	3: [B, C]
func LoadKey(path string) (Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answer key: %w", err)
	}

	var raw map[int][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answer key %s: %w", path, err)
	}

	key := make(Key, len(raw))
	for q, opts := range raw {
		if q < 1 || q > QuestionCount {
			return nil, fmt.Errorf("answer key %s: question %d out of range 1..%d", path, q, QuestionCount)
		}
		if len(opts) == 0 {
			return nil, fmt.Errorf("answer key %s: question %d has no correct options", path, q)
		}
		for _, o := range opts {
			if !slices.Contains(options, o) {
				return nil, fmt.Errorf("answer key %s: question %d: unknown option %q", path, q, o)
			}
		}
		sorted := append([]string(nil), opts...)
		slices.Sort(sorted)
		key[q] = sorted
	}
	for q := 1; q <= QuestionCount; q++ {
		if _, ok := key[q]; !ok {
			return nil, fmt.Errorf("answer key %s: question %d missing", path, q)
		}
	}
	return key, nil
}
