package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResult_Err(t *testing.T) {
	succeeded, failedFlag := true, false
	ok := &SearchResult{Success: &succeeded}
	assert.NoError(t, ok.Err())

	failed := &SearchResult{Success: &failedFlag, Error: "bql syntax error"}
	err := failed.Err()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "bql syntax error", svcErr.Message)
	assert.Contains(t, err.Error(), "bql syntax error")
}

func TestSearchResult_Err_missingSuccess(t *testing.T) {
	var res SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"hits":[{"id":"1","score":1.5}]}`), &res))
	assert.Nil(t, res.Success)
	assert.NoError(t, res.Err())

	require.NoError(t, json.Unmarshal([]byte(`{"success":false}`), &res))
	assert.Error(t, res.Err())
}

func TestSearchResult_PrettyFacets(t *testing.T) {
	var res SearchResult
	body := `{"success":true,"facetResults":[{"dim":"color","labelValues":[{"label":"red","value":2}]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &res))

	want := "[\n" +
		"    {\n" +
		"        \"dim\": \"color\",\n" +
		"        \"labelValues\": [\n" +
		"            {\n" +
		"                \"label\": \"red\",\n" +
		"                \"value\": 2\n" +
		"            }\n" +
		"        ]\n" +
		"    }\n" +
		"]"
	assert.Equal(t, want, res.PrettyFacets())
	assert.Equal(t, "", res.PrettyAggregations())
}

func TestSchema_FieldNames(t *testing.T) {
	var cfg ServiceConfig
	body := `{"schema":{"id":"id","fields":[{"name":"title","type":"STRING"},{"name":"price","type":"DOUBLE"}]}}`
	require.NoError(t, json.Unmarshal([]byte(body), &cfg))
	assert.Equal(t, []string{"title", "price"}, cfg.Schema.FieldNames())

	empty := Schema{}
	assert.Empty(t, empty.FieldNames())
}
