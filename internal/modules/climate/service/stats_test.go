package service

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name                   string
		in                     []float64
		wantMin, wantMax, want float64
	}{
		{name: "single", in: []float64{70}, wantMin: 70, wantMax: 70, want: 70},
		{name: "mixed", in: []float64{62, 79, 71}, wantMin: 62, wantMax: 79, want: 212.0 / 3},
		{name: "repeated extremes", in: []float64{54, 54, 87, 87}, wantMin: 54, wantMax: 87, want: 70.5},
		{name: "negative", in: []float64{-3, 4}, wantMin: -3, wantMax: 4, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.in)
			if *got.Min != tt.wantMin || *got.Max != tt.wantMax || *got.Avg != tt.want {
				t.Errorf("Summarize(%v) = %v/%v/%v; want %v/%v/%v",
					tt.in, *got.Min, *got.Max, *got.Avg, tt.wantMin, tt.wantMax, tt.want)
			}
		})
	}
}

func TestSummarize_empty(t *testing.T) {
	for _, in := range [][]float64{nil, {}} {
		got := Summarize(in)
		if got.Min != nil || got.Max != nil || got.Avg != nil {
			t.Errorf("Summarize(%v) = %+v; want all nil", in, got)
		}
	}
}
