package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvCorpusRoot     = "TAGGER_EVAL_CORPUS_ROOT"
	EnvReportDir      = "TAGGER_EVAL_REPORT_DIR"
	EnvPipeline       = "TAGGER_EVAL_PIPELINE"
	EnvTrainerCommand = "TAGGER_EVAL_TRAINER_COMMAND"
	EnvEntityLevel    = "TAGGER_EVAL_ENTITY_LEVEL"
	EnvLogFile        = "TAGGER_EVAL_LOG_FILE"
)

// Load reads settings from a YAML file. Fields missing from the file keep the
// values of Default().
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	s := Default()
	// A file listing groups replaces the default ones instead of merging into them.
	s.Groups = nil
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if s.Groups == nil {
		s.Groups = Default().Groups
	}
	s.ApplyDefaults()
	return s, nil
}

// LoadEnv loads a .env file into the process environment, when one exists, and
// applies TAGGER_EVAL_* overrides to s. Variables already set in the environment
// win over the file.
func LoadEnv(envPath string, s *Settings) error {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load %s: %w", envPath, err)
			}
			log.Printf("Info: no env file at %s, using process environment only", envPath)
		}
	}

	if v, ok := os.LookupEnv(EnvCorpusRoot); ok {
		s.CorpusRoot = v
	}
	if v, ok := os.LookupEnv(EnvReportDir); ok {
		s.ReportDir = v
	}
	if v, ok := os.LookupEnv(EnvPipeline); ok {
		s.Pipeline = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvTrainerCommand); ok {
		s.Trainer.Command = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		s.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvEntityLevel); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", EnvEntityLevel, v, err)
		}
		s.EntityLevel = b
	}
	s.ApplyDefaults()
	return nil
}
