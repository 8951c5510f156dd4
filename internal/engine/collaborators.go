package engine

import (
	"log"

	"github.com/gcbaptista/go-tagger-eval/config"
	"github.com/gcbaptista/go-tagger-eval/internal/corpus"
	"github.com/gcbaptista/go-tagger-eval/internal/pipeline"
	"github.com/gcbaptista/go-tagger-eval/internal/preprocess"
	"github.com/gcbaptista/go-tagger-eval/internal/trainer"
	"github.com/gcbaptista/go-tagger-eval/internal/vocab"
)

// NewCollaborators wires the default implementations: the BIO loader, the vocabulary
// builder, the preprocessor and either the external command trainer or, when no
// command is configured, the dry-run trainer.
func NewCollaborators(settings *config.Settings) pipeline.Collaborators {
	builder := vocab.NewBuilder()
	c := pipeline.Collaborators{
		Loader:       corpus.NewLoader(true),
		Vocabulary:   builder,
		Extender:     builder,
		Preprocessor: preprocess.NewAdapter(settings.Normalize),
	}

	if settings.Trainer.Command == "" {
		log.Printf("Info: no trainer command configured, using the dry-run trainer")
		dry := trainer.NewDryRun()
		c.CRF, c.Tagged, c.Neural = dry, dry, dry.Neural()
		return c
	}

	cmd := trainer.NewCommand(settings.Trainer.Command, settings.Trainer.Args, settings.Trainer.WorkDir)
	c.CRF, c.Tagged, c.Neural = cmd, cmd, cmd.Neural()
	return c
}
