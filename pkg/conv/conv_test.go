package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{name: "float64", in: 1.5, want: 1.5, wantOK: true},
		{name: "int", in: 3, want: 3.0, wantOK: true},
		{name: "int64", in: int64(7), want: 7.0, wantOK: true},
		{name: "bool true", in: true, want: 1.0, wantOK: true},
		{name: "string fails", in: "1.5", wantOK: false},
		{name: "nil fails", in: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)",
					tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestConfigGetInt(t *testing.T) {
	cfg := map[string]any{
		"n_int":   5,
		"n_float": 5.0, // JSON 解析数字会得到 float64
		"n_str":   "5",
	}
	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "int value", key: "n_int", want: 5},
		{name: "float value from json", key: "n_float", want: 5},
		{name: "wrong type falls back", key: "n_str", want: -1},
		{name: "missing key falls back", key: "nope", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfigGetInt(cfg, tt.key, -1); got != tt.want {
				t.Errorf("ConfigGetInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestSliceAnyToInt64(t *testing.T) {
	got := SliceAnyToInt64([]any{1, 2.0, "x", int64(3)})
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
