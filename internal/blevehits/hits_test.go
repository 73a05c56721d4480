package blevehits

import (
	"context"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/hyperjump/lindenview/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromExplanation(t *testing.T) {
	expl := &search.Explanation{
		Value:   1.5,
		Message: "sum of:",
		Children: []*search.Explanation{
			{Value: 1, Message: "weight(title:red)"},
			nil,
			{Value: 0.5, Message: "coord(1/2)"},
		},
	}
	node := FromExplanation(expl)
	require.NotNil(t, node)
	assert.Equal(t, 1.5, node.Value)
	assert.Equal(t, "sum of:", node.Description)
	require.Len(t, node.Details, 2)
	assert.Equal(t, "coord(1/2)", node.Details[1].Description)
	assert.Nil(t, FromExplanation(nil))
}

func TestFromDocumentMatch(t *testing.T) {
	m := &search.DocumentMatch{
		ID:     "doc-1",
		Score:  0.75,
		Fields: map[string]interface{}{"title": "red apple", "rank": 2.0},
	}
	hit, err := FromDocumentMatch(m)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", hit.ID)
	assert.Equal(t, 0.75, hit.Score)
	assert.Nil(t, hit.Explanation)
	require.NotNil(t, hit.Source)
	assert.JSONEq(t, `{"title":"red apple","rank":2}`, *hit.Source)

	bare, err := FromDocumentMatch(&search.DocumentMatch{ID: "doc-2"})
	require.NoError(t, err)
	assert.Nil(t, bare.Source)
}

func TestSearch_MemOnlyIndex(t *testing.T) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	require.NoError(t, err)
	defer index.Close()

	docs := map[string]map[string]interface{}{
		"1": {"title": "red apple", "color": "red"},
		"2": {"title": "green pear", "color": "green"},
		"3": {"title": "red cherry", "color": "red"},
	}
	for id, doc := range docs {
		require.NoError(t, index.Index(id, doc))
	}

	res, err := Search(context.Background(), index, "title:red", 10)
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)
	assert.EqualValues(t, 2, res.TotalHits)
	require.Len(t, res.Hits, 2)
	for _, hit := range res.Hits {
		require.NotNil(t, hit.Explanation, "explain was requested")
		require.NotNil(t, hit.Source, "stored fields are returned")
	}

	tbl, err := table.Build(res.Hits, []string{"color", "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "score", "id", "color", "title"}, tbl.Titles)
	assert.True(t, tbl.HasExplanation)
	assert.Equal(t, "red", tbl.Rows[0].Cells[3])
	assert.NotEmpty(t, tbl.Rows[0].Explanation)
}
