package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value", Page{}, Page{Limit: DefaultLimit, Offset: 0}},
		{"negative", Page{Limit: -5, Offset: -3}, Page{Limit: DefaultLimit, Offset: 0}},
		{"over max", Page{Limit: 10_000, Offset: 20}, Page{Limit: MaxLimit, Offset: 20}},
		{"in range", Page{Limit: 10, Offset: 30}, Page{Limit: 10, Offset: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
