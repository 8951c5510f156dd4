package model

import "time"

// RunStatus represents the outcome of evaluating a single corpus path
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PartitionSizes records how many sentences ended up in each partition.
// Dev is zero for pipelines without a dev partition.
type PartitionSizes struct {
	Train int `json:"train"`
	Dev   int `json:"dev"`
	Test  int `json:"test"`
}

// RunReport summarizes one trainer invocation. It is the only value that outlives
// a pipeline iteration; corpora, partitions and predictions are dropped with it.
type RunReport struct {
	ID          string             `json:"id"`
	Group       string             `json:"group"`
	Variant     string             `json:"variant"`
	DataPath    string             `json:"data_path"`
	GoldPath    string             `json:"gold_path"`
	EntityLevel bool               `json:"entity_level"`
	Sizes       PartitionSizes     `json:"sizes"`
	GoldLen     int                `json:"gold_len"`
	TaggedLen   int                `json:"tagged_len"`
	Status      RunStatus          `json:"status"`
	Error       string             `json:"error,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration_ns"`
}

// GroupInfo describes a configured corpus group as resolved against the corpus root.
type GroupInfo struct {
	Name     string   `json:"name"`
	Filter   string   `json:"filter"`
	Pipeline string   `json:"pipeline"`
	GoldPath string   `json:"gold_path"`
	Paths    []string `json:"paths"`
	Error    string   `json:"error,omitempty"`
}
