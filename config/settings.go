// Package config provides configuration structures for the evaluation harness.
// It defines the corpus layout, split ratios, trainer wiring and corpus groups.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Pipeline names accepted in configuration. They match pipeline.Variant values.
var pipelineNames = []string{"crf", "bilstm_crf", "crf_tagged"}

// GroupSettings describes one corpus family: the tagged variants selected by Filter
// and the gold reference they are evaluated against.
type GroupSettings struct {
	Name     string `json:"name" yaml:"name"`                             // Unique group name (e.g., "bccwj")
	Filter   string `json:"filter" yaml:"filter"`                         // Substring a discovered path must contain
	Gold     string `json:"gold" yaml:"gold"`                             // Gold reference file, relative to corpus_root unless absolute
	Pipeline string `json:"pipeline,omitempty" yaml:"pipeline,omitempty"` // Optional override of Settings.Pipeline
}

// TrainerSettings selects the train+eval collaborator. An empty Command means the
// dry-run trainer, which only logs partition sizes.
type TrainerSettings struct {
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	WorkDir string   `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`
}

// Settings contains every option of an evaluation run.
type Settings struct {
	CorpusRoot           string          `json:"corpus_root" yaml:"corpus_root"`
	Pattern              string          `json:"pattern" yaml:"pattern"`         // Glob under corpus_root (e.g., "*.bio")
	TrainRatio           float64         `json:"train_ratio" yaml:"train_ratio"` // Fraction of sentences in train
	DevRatio             float64         `json:"dev_ratio" yaml:"dev_ratio"`     // Cumulative train+dev fraction for BiLSTM-CRF
	EntityLevel          bool            `json:"entity_level" yaml:"entity_level"`
	Pipeline             string          `json:"pipeline" yaml:"pipeline"` // Default pipeline for groups without their own
	ForceReclaim         bool            `json:"force_reclaim" yaml:"force_reclaim"`
	WarnOnLengthMismatch bool            `json:"warn_on_length_mismatch" yaml:"warn_on_length_mismatch"`
	Normalize            bool            `json:"normalize" yaml:"normalize"` // NFKC-normalize words before the neural pipeline
	ReportDir            string          `json:"report_dir" yaml:"report_dir"`
	LogFile              string          `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Trainer              TrainerSettings `json:"trainer" yaml:"trainer"`
	Groups               []GroupSettings `json:"groups" yaml:"groups"`
}

// Default reproduces the original experiment: the bccwj and mainichi families,
// entity-level scoring and the BiLSTM-CRF pipeline.
func Default() *Settings {
	s := &Settings{
		CorpusRoot:           "data/corpora/output",
		EntityLevel:          true,
		WarnOnLengthMismatch: true,
		Groups: []GroupSettings{
			{Name: "bccwj", Filter: "bccwj", Gold: "bccwj.bio"},
			{Name: "mainichi", Filter: "mainichi", Gold: "mainichi.bio"},
		},
	}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills zero values with the defaults
func (s *Settings) ApplyDefaults() {
	if s.Pattern == "" {
		s.Pattern = "*.bio"
	}
	if s.TrainRatio == 0 {
		s.TrainRatio = 0.7
	}
	if s.DevRatio == 0 {
		s.DevRatio = 0.85
	}
	if s.Pipeline == "" {
		s.Pipeline = "bilstm_crf"
	}
	if s.ReportDir == "" {
		s.ReportDir = "./eval_data"
	}
	s.Pipeline = strings.ToLower(strings.TrimSpace(s.Pipeline))
	for i := range s.Groups {
		s.Groups[i].Pipeline = strings.ToLower(strings.TrimSpace(s.Groups[i].Pipeline))
	}
}

// Validate returns every problem found in the settings
func (s *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.CorpusRoot) == "" {
		problems = append(problems, "corpus_root cannot be empty")
	}
	if strings.TrimSpace(s.Pattern) == "" {
		problems = append(problems, "pattern cannot be empty")
	}
	problems = append(problems, checkRatio("train_ratio", s.TrainRatio)...)
	problems = append(problems, checkRatio("dev_ratio", s.DevRatio)...)
	if s.DevRatio < s.TrainRatio {
		problems = append(problems, fmt.Sprintf("dev_ratio (%g) must not be smaller than train_ratio (%g)", s.DevRatio, s.TrainRatio))
	}
	if !isPipeline(s.Pipeline) {
		problems = append(problems, fmt.Sprintf("unknown pipeline '%s' (must be one of %s)", s.Pipeline, strings.Join(pipelineNames, ", ")))
	}
	if len(s.Groups) == 0 {
		problems = append(problems, "at least one group must be configured")
	}

	seen := make(map[string]bool)
	for i, g := range s.Groups {
		if strings.TrimSpace(g.Name) == "" {
			problems = append(problems, fmt.Sprintf("groups[%d]: name cannot be empty", i))
		} else if seen[g.Name] {
			problems = append(problems, "Duplicate group '"+g.Name+"'")
		}
		seen[g.Name] = true

		if strings.TrimSpace(g.Filter) == "" {
			problems = append(problems, fmt.Sprintf("groups[%d]: filter cannot be empty", i))
		}
		if strings.TrimSpace(g.Gold) == "" {
			problems = append(problems, fmt.Sprintf("groups[%d]: gold cannot be empty", i))
		}
		if g.Pipeline != "" && !isPipeline(g.Pipeline) {
			problems = append(problems, fmt.Sprintf("groups[%d]: unknown pipeline '%s'", i, g.Pipeline))
		}
	}

	return problems
}

// Group returns the group with the given name.
func (s *Settings) Group(name string) (GroupSettings, bool) {
	for _, g := range s.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupSettings{}, false
}

// PipelineFor returns the group's pipeline, falling back to the default one.
func (s *Settings) PipelineFor(g GroupSettings) string {
	if g.Pipeline != "" {
		return g.Pipeline
	}
	return s.Pipeline
}

func checkRatio(name string, r float64) []string {
	if math.IsNaN(r) || r < 0 || r > 1 {
		return []string{fmt.Sprintf("%s must be within [0, 1], got %g", name, r)}
	}
	return nil
}

func isPipeline(name string) bool {
	for _, p := range pipelineNames {
		if p == name {
			return true
		}
	}
	return false
}
