package models

// ResultTable is the display-ready form of a list of hits.
// Rows are not guaranteed to have len(Titles) cells: titles are derived from
// the first hit only.
type ResultTable struct {
	Titles         []string `json:"titles"`
	Rows           []*Row   `json:"rows"`
	HasExplanation bool     `json:"has_explanation"`
}

// Row is the rendering of one hit.
type Row struct {
	Cells []any `json:"cells"`
	// Explanation is the indented score summary; it is not a table column.
	Explanation string `json:"explanation,omitempty"`
}

// ServiceConfig is the subset of the Linden configuration response the viewer reads.
type ServiceConfig struct {
	Schema Schema `json:"schema"`
}

// Schema describes the indexed source record.
type Schema struct {
	ID     string        `json:"id,omitempty"`
	Fields []SchemaField `json:"fields"`
}

// SchemaField is one configured attribute of the source record.
type SchemaField struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FieldNames returns the field names in schema order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}
