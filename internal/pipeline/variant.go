package pipeline

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
)

// Variant selects one of the three evaluation pipelines.
type Variant string

const (
	// VariantCRF trains a linear-chain CRF on tagged labels and tests it on gold.
	VariantCRF Variant = "crf"
	// VariantBiLSTMCRF trains a BiLSTM with a CRF decoding layer using a dev partition.
	VariantBiLSTMCRF Variant = "bilstm_crf"
	// VariantCRFTagged trains a CRF that uses the tagged variant's labels as features.
	VariantCRFTagged Variant = "crf_tagged"
)

// Variants lists every supported variant in a stable order.
var Variants = []Variant{VariantCRF, VariantBiLSTMCRF, VariantCRFTagged}

// ParseVariant converts a configuration string into a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VariantCRF, VariantBiLSTMCRF, VariantCRFTagged:
		return v, nil
	}
	return "", errors.NewValidationError("pipeline", fmt.Sprintf("unknown pipeline '%s' (must be one of crf, bilstm_crf, crf_tagged)", s))
}

// DisplayName returns the model name used in log lines.
func (v Variant) DisplayName() string {
	switch v {
	case VariantBiLSTMCRF:
		return "Bi-LSTM-CRF"
	default:
		return "CRF"
	}
}
