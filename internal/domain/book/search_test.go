package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

func newBuilder() *SpecificationBuilder {
	return NewSpecificationBuilder(NewProviderRegistry())
}

func sampleBooks() []*Book {
	return []*Book{
		{ID: 1, Title: "Math study guide", Author: "Ada Lovelace", ISBN: "9780000000001", Price: decimal.RequireFromString("10.00")},
		{ID: 2, Title: "English for beginners", Author: "Jane Austen", ISBN: "9780000000002", Price: decimal.RequireFromString("12.50")},
		{ID: 3, Title: "Applied MATHEMATICS", Author: "ada lovelace", ISBN: "9780000000003", Price: decimal.RequireFromString("30")},
	}
}

func filter(spec Specification, books []*Book) []uint {
	var ids []uint
	for _, b := range books {
		if spec.IsSatisfiedBy(b) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

func TestRegistry(t *testing.T) {
	r := NewProviderRegistry()

	for _, f := range []Field{FieldTitle, FieldAuthor, FieldISBN, FieldPrice} {
		_, ok := r.Provider(f)
		assert.True(t, ok, "缺少Provider: %s", f)
	}

	_, ok := r.Provider(Field("publisher"))
	assert.False(t, ok)
}

func TestBuildEmptyMatchesAll(t *testing.T) {
	spec, err := newBuilder().Build(SearchParameters{})
	require.NoError(t, err)

	assert.True(t, spec.MatchesAll())
	assert.Equal(t, []uint{1, 2, 3}, filter(spec, sampleBooks()))

	spec, err = newBuilder().Build(SearchParameters{Titles: []string{""}, Authors: []string{}})
	require.NoError(t, err)
	assert.True(t, spec.MatchesAll(), "空字符串视为未提供")
}

func TestTitleContainsFirstValueOnly(t *testing.T) {
	spec, err := newBuilder().Build(SearchParameters{Titles: []string{"math", "english"}})
	require.NoError(t, err)

	assert.Equal(t, []uint{1, 3}, filter(spec, sampleBooks()))
}

func TestAuthorExactAnyOfIgnoringCase(t *testing.T) {
	spec, err := newBuilder().Build(SearchParameters{Authors: []string{"ADA LOVELACE", "Nobody"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, filter(spec, sampleBooks()))

	spec, err = newBuilder().Build(SearchParameters{Authors: []string{"Ada"}})
	require.NoError(t, err)
	assert.Empty(t, filter(spec, sampleBooks()), "作者是精确匹配,不是包含")
}

func TestPredicatesAreConjoined(t *testing.T) {
	spec, err := newBuilder().Build(SearchParameters{
		Titles:  []string{"math"},
		Authors: []string{"ada lovelace"},
		Prices:  []string{"30.00", "99"},
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{3}, filter(spec, sampleBooks()))

	preds := spec.Predicates()
	require.Len(t, preds, 3)
	assert.Equal(t, FieldTitle, preds[0].Field)
	assert.Equal(t, FieldAuthor, preds[1].Field)
	assert.Equal(t, FieldPrice, preds[2].Field)
}

func TestISBNProvider(t *testing.T) {
	spec, err := newBuilder().Build(SearchParameters{Isbns: []string{"9780000000002"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, filter(spec, sampleBooks()))
}

func TestInvalidPriceIsValidationError(t *testing.T) {
	_, err := newBuilder().Build(SearchParameters{Prices: []string{"ten"}})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrInvalidSearchValue)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
}

func TestBuildIsDeterministic(t *testing.T) {
	params := SearchParameters{Titles: []string{"Go"}, Isbns: []string{"1", "2"}, Authors: []string{"Pike"}}

	a, err := newBuilder().Build(params)
	require.NoError(t, err)
	b, err := newBuilder().Build(params)
	require.NoError(t, err)

	assert.Equal(t, a.Predicates(), b.Predicates())
}

func TestBuildFromValuesIgnoresUnknownKeys(t *testing.T) {
	spec, err := newBuilder().BuildFromValues(map[string][]string{
		"titles":    {"english"},
		"publisher": {"O'Reilly"},
		"page":      {"2"},
	})
	require.NoError(t, err)

	require.Len(t, spec.Predicates(), 1)
	assert.Equal(t, []uint{2}, filter(spec, sampleBooks()))
}

func TestSpecificationAndDoesNotMutate(t *testing.T) {
	base := Specification{}.And(Predicate{Field: FieldTitle, Op: OpContainsFold, Values: []string{"a"}})
	_ = base.And(Predicate{Field: FieldAuthor, Op: OpInFold, Values: []string{"b"}})

	assert.Len(t, base.Predicates(), 1)
}

func TestSearchParametersIsEmpty(t *testing.T) {
	assert.True(t, SearchParameters{}.IsEmpty())
	assert.True(t, SearchParameters{Titles: []string{""}}.IsEmpty())
	assert.False(t, SearchParameters{Prices: []string{"1"}}.IsEmpty())
}
