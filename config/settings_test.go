package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()

	if problems := s.Validate(); len(problems) != 0 {
		t.Errorf("Default settings should be valid, got %v", problems)
	}
	if s.Pipeline != "bilstm_crf" {
		t.Errorf("Expected default pipeline bilstm_crf, got %s", s.Pipeline)
	}
	if !s.EntityLevel {
		t.Error("Expected entity-level scoring by default")
	}
	if len(s.Groups) != 2 || s.Groups[0].Name != "bccwj" || s.Groups[1].Name != "mainichi" {
		t.Errorf("Unexpected default groups: %+v", s.Groups)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(s *Settings)
		expectedErrors int
		contains       string
	}{
		{
			name:           "valid defaults",
			mutate:         func(s *Settings) {},
			expectedErrors: 0,
		},
		{
			name:           "train ratio above one",
			mutate:         func(s *Settings) { s.TrainRatio = 1.5; s.DevRatio = 1 },
			expectedErrors: 2,
			contains:       "train_ratio",
		},
		{
			name:           "dev ratio smaller than train ratio",
			mutate:         func(s *Settings) { s.DevRatio = 0.5 },
			expectedErrors: 1,
			contains:       "dev_ratio",
		},
		{
			name:           "unknown pipeline",
			mutate:         func(s *Settings) { s.Pipeline = "hmm" },
			expectedErrors: 1,
			contains:       "unknown pipeline",
		},
		{
			name: "duplicate group",
			mutate: func(s *Settings) {
				s.Groups = append(s.Groups, GroupSettings{Name: "bccwj", Filter: "x", Gold: "x.bio"})
			},
			expectedErrors: 1,
			contains:       "Duplicate group 'bccwj'",
		},
		{
			name: "empty group fields",
			mutate: func(s *Settings) {
				s.Groups = []GroupSettings{{Pipeline: "lstm"}}
			},
			expectedErrors: 4,
		},
		{
			name:           "no groups",
			mutate:         func(s *Settings) { s.Groups = nil },
			expectedErrors: 1,
			contains:       "at least one group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			problems := s.Validate()

			if len(problems) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(problems), problems)
			}
			if tt.contains != "" && !strings.Contains(strings.Join(problems, "\n"), tt.contains) {
				t.Errorf("Expected a problem mentioning %q, got %v", tt.contains, problems)
			}
		})
	}
}

func TestPipelineFor(t *testing.T) {
	s := Default()
	s.Groups[1].Pipeline = "crf_tagged"

	if got := s.PipelineFor(s.Groups[0]); got != "bilstm_crf" {
		t.Errorf("Expected fallback to default pipeline, got %s", got)
	}
	if got := s.PipelineFor(s.Groups[1]); got != "crf_tagged" {
		t.Errorf("Expected group override, got %s", got)
	}

	if _, ok := s.Group("mainichi"); !ok {
		t.Error("Expected to find group mainichi")
	}
	if _, ok := s.Group("nope"); ok {
		t.Error("Did not expect to find group nope")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagger_eval.yaml")
	content := `
corpus_root: /data/ner
train_ratio: 0.8
dev_ratio: 0.9
entity_level: false
pipeline: CRF
groups:
  - name: kwdlc
    filter: kwdlc
    gold: kwdlc.bio
    pipeline: crf_tagged
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.CorpusRoot != "/data/ner" || s.TrainRatio != 0.8 || s.DevRatio != 0.9 {
		t.Errorf("Unexpected settings: %+v", s)
	}
	if s.EntityLevel {
		t.Error("Expected entity_level false from file")
	}
	if s.Pipeline != "crf" {
		t.Errorf("Expected pipeline to be normalized to crf, got %s", s.Pipeline)
	}
	if s.Pattern != "*.bio" || !s.WarnOnLengthMismatch {
		t.Error("Expected unspecified fields to keep their defaults")
	}
	if len(s.Groups) != 1 || s.Groups[0].Pipeline != "crf_tagged" {
		t.Errorf("Expected file groups to replace defaults, got %+v", s.Groups)
	}
}

func TestLoad_NoGroupsKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagger_eval.yaml")
	if err := os.WriteFile(path, []byte("corpus_root: corpora\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Groups) != 2 {
		t.Errorf("Expected default groups, got %+v", s.Groups)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("groups: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "TAGGER_EVAL_CORPUS_ROOT=/from/dotenv\nTAGGER_EVAL_ENTITY_LEVEL=false\n"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPipeline, "crf")
	// t.Setenv restores the variables godotenv sets as well.
	t.Setenv(EnvCorpusRoot, "")
	os.Unsetenv(EnvCorpusRoot)
	t.Setenv(EnvEntityLevel, "")
	os.Unsetenv(EnvEntityLevel)

	s := Default()
	if err := LoadEnv(envPath, s); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if s.CorpusRoot != "/from/dotenv" {
		t.Errorf("Expected corpus root from .env, got %s", s.CorpusRoot)
	}
	if s.EntityLevel {
		t.Error("Expected entity level false from .env")
	}
	if s.Pipeline != "crf" {
		t.Errorf("Expected pipeline from environment, got %s", s.Pipeline)
	}
}

func TestLoadEnv_MissingFileAndBadBool(t *testing.T) {
	t.Setenv(EnvEntityLevel, "maybe")

	err := LoadEnv(filepath.Join(t.TempDir(), "absent.env"), Default())
	if err == nil || !strings.Contains(err.Error(), EnvEntityLevel) {
		t.Errorf("Expected invalid bool error, got %v", err)
	}
}
