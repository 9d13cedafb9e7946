package cmd

import (
	"reflect"
	"testing"
)

func TestParseIndices(t *testing.T) {
	tests := []struct {
		spec    string
		want    []int
		wantErr bool
	}{
		{"0,2,5", []int{0, 2, 5}, false},
		{" 1 , 3 ", []int{1, 3}, false},
		{"7", []int{7}, false},
		{"", nil, false},
		{"0,,2", []int{0, 2}, false},
		{"a", nil, true},
		{"1,-2", nil, true},
	}

	for _, tt := range tests {
		got, err := parseIndices(tt.spec)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIndices(%q) expected an error", tt.spec)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIndices(%q) unexpected error: %v", tt.spec, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseIndices(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}
