package schema

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceConfig = `{
  "schema": {
    "id": "id",
    "fields": [
      {"name": "title", "type": "STRING"},
      {"name": "rank", "type": "FLOAT"},
      {"name": "tagnum", "type": "INTEGER"}
    ]
  },
  "clusterUrl": "127.0.0.1:2181/linden"
}`

func TestParseServiceConfig(t *testing.T) {
	fields, err := ParseServiceConfig(strings.NewReader(serviceConfig))
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "rank", "tagnum"}, fields)
}

func TestParseServiceConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "schema:"},
		{"unnamed field", `{"schema":{"fields":[{"type":"STRING"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServiceConfig(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseServiceConfig_NoSchema(t *testing.T) {
	fields, err := ParseServiceConfig(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linden-config.json")
	require.NoError(t, os.WriteFile(path, []byte(serviceConfig), 0600))

	s := NewStore([]string{"old"})
	require.NoError(t, s.Reload(path))
	assert.Equal(t, []string{"title", "rank", "tagnum"}, s.Fields())

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	assert.Error(t, s.Reload(path))
	assert.Equal(t, []string{"title", "rank", "tagnum"}, s.Fields(), "failed reload keeps previous fields")

	assert.Error(t, s.Reload(filepath.Join(t.TempDir(), "missing.json")))
}

func TestStore_FieldsIsCopy(t *testing.T) {
	s := NewStore([]string{"a", "b"})
	got := s.Fields()
	got[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Fields())
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set([]string{"x", "y"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Fields()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"x", "y"}, s.Fields())
}
