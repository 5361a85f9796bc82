package ingestion

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const vocabEnv = "PROGRAM_VOCAB_YAML"

//go:embed vocab.yaml
var vocabFS embed.FS

// Fallback detection vocabulary used when the YAML is missing or invalid.
// These mirror the embedded defaults; the fixed vocabulary is deliberately
// non-exhaustive, so unrecognized notations fall into no-header handling.
var fallbackWorkoutHeaders = []string{
	`^\d+\s*rft\b`,
	`^amrap\b`,
	`^e\d*mom\b`,
	`^for\s+time\b`,
	`^death\s+by\b`,
	`^tabata\b`,
	`^buy[\s-]*in\b`,
	`^cash[\s-]*out\b`,
}

var fallbackStrengthLines = []string{
	`\d+\s*x\s*\d+`,
	`@\s*\d+(\.\d+)?\s*%`,
}

type yamlVocabSpec struct {
	Vocabulary     string   `yaml:"vocabulary"`
	Version        int      `yaml:"version"`
	WorkoutHeaders []string `yaml:"workout_headers"`
	StrengthLines  []string `yaml:"strength_lines"`
}

type vocabRuntime struct {
	headers  []*regexp.Regexp
	strength []*regexp.Regexp
}

var (
	vocabOnce  sync.Once
	vocabCache *vocabRuntime
)

func currentVocab() *vocabRuntime {
	vocabOnce.Do(func() {
		rt, err := loadVocabRuntime()
		if err != nil {
			rt = &vocabRuntime{
				headers:  compilePatterns(fallbackWorkoutHeaders),
				strength: compilePatterns(fallbackStrengthLines),
			}
		}
		vocabCache = rt
	})
	return vocabCache
}

func loadVocabRuntime() (*vocabRuntime, error) {
	data, err := readVocabSpec()
	if err != nil {
		return nil, err
	}
	return parseVocabSpec(data)
}

func readVocabSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(vocabEnv)); path != "" {
		return os.ReadFile(path)
	}
	return vocabFS.ReadFile("vocab.yaml")
}

func parseVocabSpec(data []byte) (*vocabRuntime, error) {
	var spec yamlVocabSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Vocabulary) != "workout_detection" {
		return nil, fmt.Errorf("unexpected vocabulary: %s", spec.Vocabulary)
	}
	if len(spec.WorkoutHeaders) == 0 || len(spec.StrengthLines) == 0 {
		return nil, errors.New("vocab spec is missing pattern lists")
	}
	rt := &vocabRuntime{
		headers:  compilePatterns(spec.WorkoutHeaders),
		strength: compilePatterns(spec.StrengthLines),
	}
	if len(rt.headers) == 0 || len(rt.strength) == 0 {
		return nil, errors.New("vocab spec has no valid patterns")
	}
	return rt, nil
}

func compilePatterns(raw []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}

// isWorkoutHeader reports whether a cell opens a named workout segment,
// such as "5 RFT" or "AMRAP 12".
func isWorkoutHeader(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, re := range currentVocab().headers {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// isStrengthLine reports whether a cell carries set/load notation, such as
// "Back Squat 5x5" or "@80%".
func isStrengthLine(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, re := range currentVocab().strength {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
