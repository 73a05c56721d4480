package models

import (
	"reflect"
	"testing"
)

func TestRenderOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		opts      *RenderOptions
		wantErr   bool
		wantDepth int
	}{
		{"negative depth", &RenderOptions{DepthCap: -1}, true, 0},
		{"sets default depth", &RenderOptions{}, false, DefaultDepthCap},
		{"keeps explicit depth", &RenderOptions{DepthCap: 5}, false, 5},
		{"caps depth", &RenderOptions{DepthCap: 500}, false, MaxDepthCap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.opts.DepthCap != tt.wantDepth {
				t.Errorf("DepthCap = %d, want %d", tt.opts.DepthCap, tt.wantDepth)
			}
		})
	}
}

func TestRenderOptions_ValidateTrimsFields(t *testing.T) {
	opts := &RenderOptions{Fields: []string{" color", "", "size "}}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(opts.Fields, []string{"color", "size"}) {
		t.Errorf("Fields = %v", opts.Fields)
	}
}

func TestParseFieldList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"color", []string{"color"}},
		{"color, size,,price ", []string{"color", "size", "price"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFieldList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFieldList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
