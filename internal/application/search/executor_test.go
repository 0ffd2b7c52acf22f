package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-adopt-api/internal/config"
	"paw-adopt-api/internal/domain/query"
	"paw-adopt-api/pkg/errors"
)

type stubEmbedder struct {
	lastText string
	vec      []float32
	err      error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.lastText = text
	return s.vec, s.err
}

type stubTranslator struct {
	out string
	err error
}

func (s *stubTranslator) Translate(_ context.Context, _ string) (string, error) {
	return s.out, s.err
}

type stubVectorIndex struct {
	lastLimit      int
	lastCandidates int
	lastFilter     query.Filter
	hits           []Hit
	err            error
}

func (s *stubVectorIndex) Search(_ context.Context, _ []float32, filter query.Filter, limit, candidates int) ([]Hit, error) {
	s.lastFilter = filter
	s.lastLimit = limit
	s.lastCandidates = candidates
	return s.hits, s.err
}

type stubTextIndex struct {
	lastSpec *TextQuerySpec
	hits     []Hit
	err      error
}

func (s *stubTextIndex) Search(_ context.Context, spec *TextQuerySpec, _ query.Filter) ([]Hit, error) {
	s.lastSpec = spec
	return s.hits, s.err
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		Analyzer: testAnalyzerConfig(),
		Vector: config.VectorSearchConfig{
			MinCandidates:   100,
			MinTopK:         10,
			SimilarityFloor: 0.3,
		},
		Semantic: testSemanticConfig(),
	}
}

func newTestExecutor(t *testing.T, emb *stubEmbedder, tr Translator, vec *stubVectorIndex, txt *stubTextIndex) *Executor {
	t.Helper()
	cfg := testSearchConfig()
	analyzer, err := NewAnalyzer(cfg.Analyzer)
	require.NoError(t, err)
	return NewExecutor(analyzer, emb, tr, vec, txt, cfg)
}

func TestExecutorSearch_EmptyQueryRejected(t *testing.T) {
	e := newTestExecutor(t, &stubEmbedder{}, nil, &stubVectorIndex{}, &stubTextIndex{})

	_, err := e.Search(context.Background(), "   ", nil, 20)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.AsAppError(err).Code)
}

func TestExecutorSearch_MergesBothLegs(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{0.1, 0.2}}
	vec := &stubVectorIndex{hits: hits("a", 0.9, "b", 0.8)}
	// raw 10 → x=10*1.5/30=0.5 → sigmoid(0)=0.5，通过阈值
	txt := &stubTextIndex{hits: hits("b", 10.0, "c", 10.0)}
	e := newTestExecutor(t, emb, nil, vec, txt)

	res, err := e.Search(context.Background(), "golden retriever", nil, 20)
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, MatchExact, res.Analysis.MatchType)

	require.NotEmpty(t, res.Items)
	assert.Equal(t, "b", res.Items[0].ID, "overlap hit ranks first")
	assert.Equal(t, SourceBoth, res.Items[0].Source)
}

func TestExecutorSearch_FailFast(t *testing.T) {
	t.Run("vector leg error aborts", func(t *testing.T) {
		vec := &stubVectorIndex{err: errors.New(errors.CodeVectorDBError, "milvus down")}
		txt := &stubTextIndex{hits: hits("a", 10.0)}
		e := newTestExecutor(t, &stubEmbedder{vec: []float32{0.1}}, nil, vec, txt)

		_, err := e.Search(context.Background(), "golden retriever", nil, 20)
		assert.Error(t, err)
	})

	t.Run("text leg error aborts", func(t *testing.T) {
		vec := &stubVectorIndex{hits: hits("a", 0.9)}
		txt := &stubTextIndex{err: errors.New(errors.CodeSearchIndexError, "redisearch down")}
		e := newTestExecutor(t, &stubEmbedder{vec: []float32{0.1}}, nil, vec, txt)

		_, err := e.Search(context.Background(), "golden retriever", nil, 20)
		assert.Error(t, err)
	})

	t.Run("embedding error aborts", func(t *testing.T) {
		emb := &stubEmbedder{err: errors.New(errors.CodeEmbeddingFailed, "api error")}
		e := newTestExecutor(t, emb, nil, &stubVectorIndex{}, &stubTextIndex{})

		_, err := e.Search(context.Background(), "golden retriever", nil, 20)
		assert.Error(t, err)
	})
}

func TestExecutorSearch_SimilarityFloor(t *testing.T) {
	vec := &stubVectorIndex{hits: hits("high", 0.9, "low", 0.2)}
	e := newTestExecutor(t, &stubEmbedder{vec: []float32{0.1}}, nil, vec, &stubTextIndex{})

	res, err := e.Search(context.Background(), "golden retriever", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"high"}, idsOf(res.Items), "hits below the floor are dropped")
}

func TestExecutorSearch_TextThreshold(t *testing.T) {
	// raw 0 → sigmoid(-4)≈0.018，低于阈值被丢弃
	txt := &stubTextIndex{hits: hits("weak", 0.0, "strong", 10.0)}
	e := newTestExecutor(t, &stubEmbedder{vec: []float32{0.1}}, nil, &stubVectorIndex{}, txt)

	res, err := e.Search(context.Background(), "golden retriever", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"strong"}, idsOf(res.Items))
}

func TestExecutorSearch_LimitsClamped(t *testing.T) {
	vec := &stubVectorIndex{}
	e := newTestExecutor(t, &stubEmbedder{vec: []float32{0.1}}, nil, vec, &stubTextIndex{})

	t.Run("small page uses min top k", func(t *testing.T) {
		_, err := e.Search(context.Background(), "husky", nil, 2)
		require.NoError(t, err)
		assert.Equal(t, 10, vec.lastLimit)
		assert.Equal(t, 100, vec.lastCandidates)
	})

	t.Run("large page scales up", func(t *testing.T) {
		_, err := e.Search(context.Background(), "husky", nil, 50)
		require.NoError(t, err)
		assert.Equal(t, 150, vec.lastLimit)
		assert.Equal(t, 1500, vec.lastCandidates)
	})
}

func TestExecutorSearch_Translation(t *testing.T) {
	t.Run("translated text feeds both legs", func(t *testing.T) {
		emb := &stubEmbedder{vec: []float32{0.1}}
		txt := &stubTextIndex{}
		e := newTestExecutor(t, emb, &stubTranslator{out: "golden retriever"},
			&stubVectorIndex{}, txt)

		_, err := e.Search(context.Background(), "金毛寻回犬", nil, 20)
		require.NoError(t, err)
		assert.Equal(t, "golden retriever", emb.lastText)
		require.NotNil(t, txt.lastSpec)
		assert.Equal(t, []string{"golden", "retriever"}, txt.lastSpec.Tokens)
	})

	t.Run("translation failure aborts the search", func(t *testing.T) {
		emb := &stubEmbedder{vec: []float32{0.1}}
		tr := &stubTranslator{err: errors.New(errors.CodeTranslationFailed, "llm down")}
		e := newTestExecutor(t, emb, tr, &stubVectorIndex{}, &stubTextIndex{})

		_, err := e.Search(context.Background(), "golden retriever", nil, 20)
		require.Error(t, err)
		assert.Equal(t, errors.CodeTranslationFailed, errors.AsAppError(err).Code)
		assert.Empty(t, emb.lastText, "no leg runs after a failed translation")
	})

	t.Run("empty translation keeps the original text", func(t *testing.T) {
		emb := &stubEmbedder{vec: []float32{0.1}}
		e := newTestExecutor(t, emb, &stubTranslator{out: ""},
			&stubVectorIndex{}, &stubTextIndex{})

		_, err := e.Search(context.Background(), "Golden Retriever", nil, 20)
		require.NoError(t, err)
		assert.Equal(t, "golden retriever", emb.lastText)
	})

	t.Run("no translator embeds original", func(t *testing.T) {
		emb := &stubEmbedder{vec: []float32{0.1}}
		e := newTestExecutor(t, emb, nil, &stubVectorIndex{}, &stubTextIndex{})

		_, err := e.Search(context.Background(), "Golden Retriever", nil, 20)
		require.NoError(t, err)
		assert.Equal(t, "golden retriever", emb.lastText)
	})
}

func TestNormalize(t *testing.T) {
	exact := &TextQuerySpec{MatchType: MatchExact, Multiplier: 1.5, MaxExpected: 30}
	mixed := &TextQuerySpec{MatchType: MatchMixed, Multiplier: 1.0, MaxExpected: 100}

	t.Run("midpoint maps to half", func(t *testing.T) {
		assert.InDelta(t, 0.5, normalize(10, exact), 1e-9)
		assert.InDelta(t, 0.5, normalize(50, mixed), 1e-9)
	})

	t.Run("monotonic", func(t *testing.T) {
		assert.Greater(t, normalize(20, exact), normalize(10, exact))
	})

	t.Run("exact curve is steeper", func(t *testing.T) {
		// 同样超出中点的相对幅度，精确匹配压得更接近 1
		assert.Greater(t, normalize(15, exact), normalize(75, mixed))
	})

	t.Run("bounded to unit interval", func(t *testing.T) {
		assert.Less(t, normalize(1000, exact), 1.0)
		assert.Greater(t, normalize(0, exact), 0.0)
	})
}
