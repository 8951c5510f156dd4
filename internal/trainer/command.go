package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-tagger-eval/internal/vocab"
	"github.com/gcbaptista/go-tagger-eval/model"
)

const (
	trainFile       = "train.json"
	devFile         = "dev.json"
	testFile        = "test.json"
	wordMapFile     = "word2id.json"
	tagMapFile      = "tag2id.json"
	predictionsFile = "predictions.json"
)

// Command delegates training to an external program. Partitions and vocabulary maps
// are written as JSON into a fresh working directory, the program is invoked with
// their paths, and it must leave a model.Predictions document at the --output path.
//
// The program is called as:
//
//	<name> <args...> --variant V --train F --test F [--dev F --word-map F --tag-map F] --entity-level B --output F
type Command struct {
	Name string
	Args []string
	// WorkDir is the parent of the per-invocation directories. Empty means the OS temp dir.
	WorkDir string
	// KeepFiles leaves the per-invocation directory in place for inspection.
	KeepFiles bool
}

// NewCommand creates an external trainer.
func NewCommand(name string, args []string, workDir string) *Command {
	return &Command{Name: name, Args: args, WorkDir: workDir}
}

// TrainEval implements services.LinearChainTrainer.
func (c *Command) TrainEval(ctx context.Context, train, test model.Partition, entityLevel bool) (model.Predictions, error) {
	return c.invoke(ctx, "crf", entityLevel, map[string]any{
		trainFile: train,
		testFile:  test,
	})
}

// TrainEvalTagged implements services.TaggedTrainer.
func (c *Command) TrainEvalTagged(ctx context.Context, train, test []model.TaggedSentence, entityLevel bool) (model.Predictions, error) {
	return c.invoke(ctx, "crf_tagged", entityLevel, map[string]any{
		trainFile: train,
		testFile:  test,
	})
}

// Neural returns the BiLSTM-CRF side of the command trainer.
func (c *Command) Neural() *NeuralCommand {
	return &NeuralCommand{c: c}
}

// NeuralCommand implements services.NeuralTrainer on top of a Command.
type NeuralCommand struct {
	c *Command
}

// TrainEval implements services.NeuralTrainer.
func (n *NeuralCommand) TrainEval(ctx context.Context, train, dev, test model.Partition, maps model.VocabularyMaps, entityLevel bool) (model.Predictions, error) {
	return n.c.invoke(ctx, "bilstm_crf", entityLevel, map[string]any{
		trainFile:   train,
		devFile:     dev,
		testFile:    test,
		wordMapFile: maps.Words,
		tagMapFile:  maps.Tags,
	})
}

func (c *Command) invoke(ctx context.Context, variant string, entityLevel bool, inputs map[string]any) (model.Predictions, error) {
	if c.Name == "" {
		return model.Predictions{}, fmt.Errorf("trainer command is not configured")
	}
	if err := ctx.Err(); err != nil {
		return model.Predictions{}, err
	}

	if c.WorkDir != "" {
		if err := os.MkdirAll(c.WorkDir, 0750); err != nil {
			return model.Predictions{}, fmt.Errorf("failed to create trainer work dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(c.WorkDir, variant+"-")
	if err != nil {
		return model.Predictions{}, fmt.Errorf("failed to create trainer work dir: %w", err)
	}
	if !c.KeepFiles {
		defer os.RemoveAll(dir)
	}

	args := append(make([]string, 0, len(c.Args)+16), c.Args...)
	args = append(args, "--variant", variant)
	for _, name := range []string{trainFile, devFile, testFile, wordMapFile, tagMapFile} {
		v, ok := inputs[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if m, isMap := v.(model.Vocabulary); isMap {
			err = vocab.Save(path, m)
		} else {
			err = writeJSON(path, v)
		}
		if err != nil {
			return model.Predictions{}, err
		}
		args = append(args, flagFor(name), path)
	}
	output := filepath.Join(dir, predictionsFile)
	args = append(args, "--entity-level", strconv.FormatBool(entityLevel), "--output", output)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, args...) // #nosec G204 -- command comes from operator configuration
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return model.Predictions{}, fmt.Errorf("%s exited: %w: %s", c.Name, err, msg)
		}
		return model.Predictions{}, fmt.Errorf("%s exited: %w", c.Name, err)
	}
	if stderr.Len() > 0 {
		log.Printf("Info: %s stderr: %s", c.Name, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(output) // #nosec G304 -- path is inside our own work dir
	if err != nil {
		return model.Predictions{}, fmt.Errorf("trainer produced no predictions: %w", err)
	}
	var pred model.Predictions
	if err := json.Unmarshal(data, &pred); err != nil {
		return model.Predictions{}, fmt.Errorf("failed to decode predictions: %w", err)
	}
	return pred, nil
}

func flagFor(file string) string {
	switch file {
	case trainFile:
		return "--train"
	case devFile:
		return "--dev"
	case testFile:
		return "--test"
	case wordMapFile:
		return "--word-map"
	default:
		return "--tag-map"
	}
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
