package quota

import "testing"

func TestDefaultPolicy_Capacities(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		key  string
		want int
	}{
		{"elfos", 3},
		{"anoes", 7},
		{"homens", 9},
		{"sauron", 1},
		{"orcs", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := policy.Capacity(tt.key); got != tt.want {
				t.Errorf("Capacity(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewPolicy_NormalizesKeys(t *testing.T) {
	policy := NewPolicy(map[string]int{"Anões": 7})

	if got := policy.Capacity("anoes"); got != 7 {
		t.Errorf("Capacity(\"anoes\") = %d, want 7", got)
	}
	if !policy.Known("anoes") {
		t.Error("expected \"anoes\" to be a known key")
	}
	if policy.Known("elfos") {
		t.Error("did not expect \"elfos\" to be a known key")
	}
}
