package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

func f(v float64) *float64 { return &v }

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, p := range Parts {
		sum += Weights[p]
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Len(t, Weights, len(Parts))
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name        string
		sym         map[string]float64
		match       map[string]*float64
		wantPart    string
		wantScore   float64
		wantOverall float64
	}{
		{
			name:      "eyes blend evenly",
			sym:       map[string]float64{"eyes": 80},
			match:     map[string]*float64{"eyes": f(60)},
			wantPart:  "eyes",
			wantScore: 70,
			// 0.30 * 70
			wantOverall: 21,
		},
		{
			name:        "chin is match only",
			sym:         map[string]float64{"chin": 99},
			match:       map[string]*float64{"chin": f(55)},
			wantPart:    "chin",
			wantScore:   55,
			wantOverall: 11,
		},
		{
			name:        "missing match counts as zero",
			sym:         map[string]float64{"nose": 90},
			match:       map[string]*float64{"nose": nil},
			wantPart:    "nose",
			wantScore:   45,
			wantOverall: 9,
		},
		{
			name:        "absent key counts as zero",
			sym:         map[string]float64{"mouth": 50},
			match:       map[string]*float64{},
			wantPart:    "mouth",
			wantScore:   25,
			wantOverall: 5,
		},
		{
			// 0.5 * 60.01 is 30.00499... in binary and rounds down.
			name:        "blend rounds from the binary value",
			sym:         map[string]float64{"eyes": 60.01},
			match:       map[string]*float64{"eyes": f(0)},
			wantPart:    "eyes",
			wantScore:   30,
			wantOverall: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, overall := Aggregate(tt.sym, tt.match)
			assert.Equal(t, tt.wantScore, final[tt.wantPart])
			assert.Equal(t, tt.wantOverall, overall)
		})
	}
}

func TestAggregate_AllPerfect(t *testing.T) {
	sym := map[string]float64{}
	match := map[string]*float64{}
	for _, p := range Parts {
		sym[p] = 100
		match[p] = f(100)
	}

	final, overall := Aggregate(sym, match)

	assert.Equal(t, 100.0, overall)
	for _, p := range Parts {
		assert.Equal(t, 100.0, final[p])
	}
}

func TestAggregate_WeightedSum(t *testing.T) {
	// Symmetry equal to match makes each final score equal to its input.
	in := map[string]float64{
		landmark.PartEyes:  90,
		landmark.PartNose:  80,
		landmark.PartMouth: 70,
		landmark.PartChin:  60,
		landmark.PartEars:  50,
	}
	match := map[string]*float64{}
	for k, v := range in {
		match[k] = f(v)
	}

	final, overall := Aggregate(in, match)

	assert.Equal(t, in, final)
	assert.Equal(t, 74.0, overall)
}
