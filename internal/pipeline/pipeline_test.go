package pipeline

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tagger-eval/internal/corpus"
	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/internal/preprocess"
	testutil "github.com/gcbaptista/go-tagger-eval/internal/testing"
	"github.com/gcbaptista/go-tagger-eval/internal/vocab"
	"github.com/gcbaptista/go-tagger-eval/model"
)

type fixture struct {
	dir     string
	gold    string
	tagged  []string
	trainer *testutil.RecordingTrainer
	runner  *Runner
}

// newFixture writes a gold corpus and the given tagged variants, all n sentences long.
func newFixture(t *testing.T, n int, variants ...string) *fixture {
	t.Helper()
	dir := t.TempDir()

	sents, gold := testutil.SentinelCorpus(n, "gold")
	f := &fixture{
		dir:     dir,
		gold:    testutil.WriteCorpus(t, dir, "bccwj.bio", sents, gold),
		trainer: &testutil.RecordingTrainer{Metrics: map[string]float64{"f1": 0.5}},
	}
	for _, v := range variants {
		s, tags := testutil.SentinelCorpus(n, "tag")
		f.tagged = append(f.tagged, testutil.WriteCorpus(t, dir, v, s, tags))
	}

	b := vocab.NewBuilder()
	f.runner = NewRunner(Collaborators{
		Loader:       corpus.NewLoader(false),
		CRF:          f.trainer,
		Tagged:       f.trainer,
		Neural:       f.trainer.NeuralTrainer(),
		Vocabulary:   b,
		Extender:     b,
		Preprocessor: preprocess.NewAdapter(false),
	}, DefaultOptions())
	return f
}

func TestRunCRF_AsymmetricLabelSources(t *testing.T) {
	f := newFixture(t, 10, "bccwj_dict.bio")

	reports, err := f.runner.RunCRF(context.Background(), f.tagged, f.gold)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, 1, f.trainer.CallCount())

	call := f.trainer.Calls[0]
	require.Equal(t, 7, call.Train.Len())
	require.Equal(t, 3, call.Test.Len())
	assert.True(t, call.EntityLevel)
	for i, tags := range call.Train.Tags {
		assert.Equal(t, []string{"tag" + itoa(i)}, tags)
	}
	for i, tags := range call.Test.Tags {
		assert.Equal(t, []string{"gold" + itoa(i+7)}, tags)
	}
	assert.Equal(t, []string{"w7"}, call.Test.Words[0])

	report := reports[0]
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, string(VariantCRF), report.Variant)
	assert.Equal(t, model.RunStatusCompleted, report.Status)
	assert.Equal(t, model.PartitionSizes{Train: 7, Test: 3}, report.Sizes)
	assert.Equal(t, 10, report.GoldLen)
	assert.Equal(t, 10, report.TaggedLen)
	assert.Equal(t, f.gold, report.GoldPath)
	assert.Equal(t, 0.5, report.Metrics["f1"])
}

func TestRunBiLSTMCRF_ThreeWaySplitAndMaps(t *testing.T) {
	f := newFixture(t, 10, "bccwj_dict.bio")

	report, err := f.runner.RunBiLSTMCRF(context.Background(), f.tagged[0], f.gold)
	require.NoError(t, err)
	assert.Equal(t, model.PartitionSizes{Train: 7, Dev: 1, Test: 2}, report.Sizes)
	require.Equal(t, 1, f.trainer.CallCount())

	call := f.trainer.Calls[0]
	assert.Equal(t, [][]string{{"w7", vocab.End}}, call.Dev.Words)
	assert.Equal(t, [][]string{{"gold7", vocab.End}}, call.Dev.Tags)
	assert.Equal(t, []string{"w0", vocab.End}, call.Train.Words[0])
	assert.Equal(t, []string{"tag0", vocab.End}, call.Train.Tags[0])

	// test mode: words get the boundary symbol, gold tags keep their length
	assert.Equal(t, [][]string{{"w8", vocab.End}, {"w9", vocab.End}}, call.Test.Words)
	assert.Equal(t, [][]string{{"gold8"}, {"gold9"}}, call.Test.Tags)

	// maps come from the train partition only, plus the reserved symbols
	assert.Len(t, call.Maps.Words, 7+4)
	assert.Contains(t, call.Maps.Words, "w6")
	assert.NotContains(t, call.Maps.Words, "w7")
	assert.NotContains(t, call.Maps.Tags, "gold7")
	for _, sym := range []string{vocab.Unknown, vocab.Padding, vocab.Start, vocab.End} {
		assert.Contains(t, call.Maps.Words, sym)
		assert.Contains(t, call.Maps.Tags, sym)
	}
}

func TestRunCRFTagged_AlignsTriples(t *testing.T) {
	f := newFixture(t, 10, "bccwj_dict.bio", "bccwj_unidic_dict.bio")

	reports, err := f.runner.RunCRFTagged(context.Background(), f.tagged, f.gold)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, 2, f.trainer.CallCount())

	call := f.trainer.Calls[0]
	require.Len(t, call.TrainTagged, 7)
	require.Len(t, call.TestTagged, 3)
	assert.Equal(t, model.TaggedSentence{
		Words:      []string{"w7"},
		TagLabels:  []string{"tag7"},
		GoldLabels: []string{"gold7"},
	}, call.TestTagged[0])
	assert.Equal(t, []string{"tag0"}, call.TrainTagged[0].TagLabels)
	assert.Equal(t, []string{"gold0"}, call.TrainTagged[0].GoldLabels)
	assert.Equal(t, string(VariantCRFTagged), reports[1].Variant)
}

func TestRunCRFTagged_TruncatesToShortestStream(t *testing.T) {
	f := newFixture(t, 10)
	s, tags := testutil.SentinelCorpus(4, "tag")
	short := testutil.WriteCorpus(t, f.dir, "bccwj_short.bio", s, tags)

	reports, err := f.runner.RunCRFTagged(context.Background(), []string{short}, f.gold)
	require.NoError(t, err)
	assert.Equal(t, model.PartitionSizes{Train: 2, Test: 2}, reports[0].Sizes)
	assert.Equal(t, 4, reports[0].TaggedLen)
	assert.Equal(t, 10, reports[0].GoldLen)
}

func TestRun_ProcessesPathsInOrder(t *testing.T) {
	f := newFixture(t, 10, "bccwj.a.bio", "bccwj_b.bio", "bccwj_cc.bio")

	for _, v := range Variants {
		t.Run(string(v), func(t *testing.T) {
			f.trainer.Calls = nil
			reports, err := f.runner.Run(context.Background(), Group{Name: "bccwj", Variant: v, Paths: f.tagged, GoldPath: f.gold})
			require.NoError(t, err)
			require.Len(t, reports, 3)
			assert.Equal(t, 3, f.trainer.CallCount())
			for i, r := range reports {
				assert.Equal(t, "bccwj", r.Group)
				assert.Equal(t, string(v), r.Variant)
				assert.Equal(t, f.tagged[i], r.DataPath)
			}
		})
	}
}

func TestRun_LoadFailureStopsGroup(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio")
	paths := []string{f.tagged[0], filepath.Join(f.dir, "bccwj_missing.bio"), f.tagged[0]}

	for _, v := range Variants {
		t.Run(string(v), func(t *testing.T) {
			f.trainer.Calls = nil
			reports, err := f.runner.Run(context.Background(), Group{Name: "bccwj", Variant: v, Paths: paths, GoldPath: f.gold})
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrCorpusNotFound))
			assert.Equal(t, 1, f.trainer.CallCount())

			require.Len(t, reports, 2)
			assert.Equal(t, model.RunStatusCompleted, reports[0].Status)
			assert.Equal(t, model.RunStatusFailed, reports[1].Status)
			assert.NotEmpty(t, reports[1].Error)
		})
	}
}

func TestRun_GoldLoadFailure(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio")

	reports, err := f.runner.Run(context.Background(), Group{
		Name: "bccwj", Variant: VariantCRF, Paths: f.tagged, GoldPath: filepath.Join(f.dir, "nope.bio"),
	})
	assert.True(t, stderrors.Is(err, errors.ErrCorpusNotFound))
	assert.Empty(t, reports)
	assert.Zero(t, f.trainer.CallCount())
}

func TestRun_TrainerFailureStopsGroup(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio", "bccwj_b.bio")
	cause := stderrors.New("out of memory")
	f.trainer.FailOn = 1
	f.trainer.Err = cause

	reports, err := f.runner.Run(context.Background(), Group{Name: "bccwj", Variant: VariantCRF, Paths: f.tagged, GoldPath: f.gold})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrTrainerFailed))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, 1, f.trainer.CallCount())
	require.Len(t, reports, 1)
	assert.Equal(t, model.RunStatusFailed, reports[0].Status)
}

func TestRun_EmptyCorpusReachesTrainer(t *testing.T) {
	f := newFixture(t, 0, "bccwj_empty.bio")

	reports, err := f.runner.Run(context.Background(), Group{Name: "bccwj", Variant: VariantBiLSTMCRF, Paths: f.tagged, GoldPath: f.gold})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, model.PartitionSizes{}, reports[0].Sizes)

	call := f.trainer.Calls[0]
	assert.Zero(t, call.Train.Len())
	assert.Zero(t, call.Dev.Len())
	assert.Zero(t, call.Test.Len())
	assert.Len(t, call.Maps.Tags, 4)
}

func TestRun_MissingCollaborators(t *testing.T) {
	r := NewRunner(Collaborators{Loader: corpus.NewLoader(false)}, DefaultOptions())

	for _, v := range Variants {
		_, err := r.Run(context.Background(), Group{Name: "g", Variant: v, GoldPath: "gold.bio"})
		assert.True(t, stderrors.Is(err, errors.ErrInvalidInput), "variant %s", v)
	}

	_, err := r.Run(context.Background(), Group{Name: "g", Variant: Variant("hmm")})
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner.Run(ctx, Group{Name: "bccwj", Variant: VariantCRF, Paths: f.tagged, GoldPath: f.gold})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.trainer.CallCount())
}

type observer struct{ reports []model.RunReport }

func (o *observer) ObserveRun(r model.RunReport) { o.reports = append(o.reports, r) }

func TestRunner_NotifiesObserver(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio", "bccwj_b.bio")
	obs := &observer{}
	f.runner.SetObserver(obs)

	_, err := f.runner.RunCRF(context.Background(), f.tagged, f.gold)
	require.NoError(t, err)
	require.Len(t, obs.reports, 2)
	assert.Equal(t, f.tagged[1], obs.reports[1].DataPath)
}

func TestRun_ObserverSeesGroup(t *testing.T) {
	f := newFixture(t, 10, "bccwj_a.bio", "bccwj_b.bio")
	obs := &observer{}
	f.runner.SetObserver(obs)

	for _, v := range []Variant{VariantCRF, VariantCRFTagged, VariantBiLSTMCRF} {
		obs.reports = nil
		reports, err := f.runner.Run(context.Background(), Group{Name: "bccwj", Variant: v, Paths: f.tagged, GoldPath: f.gold})
		require.NoError(t, err)
		require.Len(t, obs.reports, 2, v)
		for i := range reports {
			assert.Equal(t, "bccwj", obs.reports[i].Group, v)
			assert.Equal(t, "bccwj", reports[i].Group, v)
		}
	}

	// direct pipeline calls carry no group
	obs.reports = nil
	_, err := f.runner.RunCRF(context.Background(), f.tagged, f.gold)
	require.NoError(t, err)
	assert.Empty(t, obs.reports[0].Group)
}

func TestRunBiLSTMCRF_NormalizesBeforeBuildingMaps(t *testing.T) {
	dir := t.TempDir()
	sents := [][]string{{"ＡＢＣ"}, {"ｶﾀｶﾅ"}, {"x"}, {"ＸＹＺ"}}
	labels := [][]string{{"B-ORG"}, {"O"}, {"O"}, {"B-ORG"}}
	gold := testutil.WriteCorpus(t, dir, "bccwj.bio", sents, labels)
	tagged := testutil.WriteCorpus(t, dir, "bccwj_dict.bio", sents, labels)

	tr := &testutil.RecordingTrainer{}
	b := vocab.NewBuilder()
	opts := DefaultOptions()
	opts.TrainRatio, opts.DevRatio = 0.5, 0.75
	r := NewRunner(Collaborators{
		Loader:       corpus.NewLoader(false),
		Neural:       tr.NeuralTrainer(),
		Vocabulary:   b,
		Extender:     b,
		Preprocessor: preprocess.NewAdapter(true),
	}, opts)

	_, err := r.RunBiLSTMCRF(context.Background(), tagged, gold)
	require.NoError(t, err)
	require.Equal(t, 1, tr.CallCount())

	call := tr.Calls[0]
	assert.Equal(t, [][]string{{"ABC", vocab.End}, {"カタカナ", vocab.End}}, call.Train.Words)
	for _, words := range call.Train.Words {
		for _, w := range words {
			assert.Contains(t, call.Maps.Words, w)
		}
	}
	assert.NotContains(t, call.Maps.Words, "ＡＢＣ")
	assert.Equal(t, [][]string{{"XYZ", vocab.End}}, call.Test.Words)
}

func TestRunner_ForceReclaim(t *testing.T) {
	f := newFixture(t, 3, "bccwj_a.bio")
	opts := DefaultOptions()
	opts.ForceReclaim = true
	f.runner.opts = opts

	reports, err := f.runner.RunCRF(context.Background(), f.tagged, f.gold)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{"crf", VariantCRF, false},
		{" BiLSTM_CRF ", VariantBiLSTMCRF, false},
		{"crf_tagged", VariantCRFTagged, false},
		{"", "", true},
		{"lstm", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "bccwj_dict", stem(filepath.Join("data", "bccwj_dict.bio")))
	assert.Equal(t, "plain", stem("plain"))
}

func itoa(i int) string {
	return string(rune('0' + i))
}
