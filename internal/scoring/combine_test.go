package scoring

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func numeric(v float64) *TypeScore { return &TypeScore{Score: f(v)} }

func TestCombineSingleScore(t *testing.T) {
	got := Combine(numeric(82), nil, nil)
	if got.Score == nil || *got.Score != 82 {
		t.Fatalf("score = %v", got.Score)
	}
	if got.Grade != "B" {
		t.Errorf("grade %q", got.Grade)
	}
}

func TestCombineHomeAuto(t *testing.T) {
	got := Combine(numeric(80), numeric(90), nil)
	if got.Score == nil || *got.Score != 85 {
		t.Fatalf("score = %v, want 85", got.Score)
	}
}

func TestCombineAutoRenters(t *testing.T) {
	got := Combine(nil, numeric(90), numeric(60))
	if got.Score == nil || *got.Score != 69 {
		t.Fatalf("score = %v, want 69", got.Score)
	}
	if got.Grade != "D" {
		t.Errorf("grade %q", got.Grade)
	}
}

func TestCombineOtherSubsetsUseMean(t *testing.T) {
	// all three present
	got := Combine(numeric(90), numeric(80), numeric(70))
	if got.Score == nil || *got.Score != 80 {
		t.Fatalf("all three: score = %v, want 80", got.Score)
	}
	// home + renters has no dedicated weight
	got = Combine(numeric(90), nil, numeric(70))
	if got.Score == nil || *got.Score != 80 {
		t.Fatalf("home+renters: score = %v, want 80", got.Score)
	}
}

func TestCombineNoInputs(t *testing.T) {
	got := Combine(nil, nil, nil)
	if got.Score != nil {
		t.Fatalf("score = %v, want nil", got.Score)
	}
	if got.Grade != "" {
		t.Errorf("grade %q, want empty", got.Grade)
	}
}

func TestResolveLetterGrades(t *testing.T) {
	cases := []struct {
		grade string
		want  float64
	}{
		{"A", 95}, {"b", 85}, {" C ", 75}, {"D", 65}, {"F", 45},
	}
	for _, tc := range cases {
		got := resolve(&TypeScore{Grade: tc.grade})
		if got == nil || *got != tc.want {
			t.Errorf("grade %q: got %v, want %v", tc.grade, got, tc.want)
		}
	}
	if resolve(&TypeScore{Grade: "Z"}) != nil {
		t.Error("unknown grade must resolve to nil")
	}
	// a finite numeric score beats the letter
	got := resolve(&TypeScore{Score: f(72), Grade: "A"})
	if got == nil || *got != 72 {
		t.Errorf("numeric precedence: got %v", got)
	}
	// NaN falls back to the letter
	got = resolve(&TypeScore{Score: f(math.NaN()), Grade: "A"})
	if got == nil || *got != 95 {
		t.Errorf("nan fallback: got %v", got)
	}
}

func TestResolveClamps(t *testing.T) {
	got := resolve(&TypeScore{Score: f(130)})
	if got == nil || *got != 100 {
		t.Errorf("clamp high: %v", got)
	}
	got = resolve(&TypeScore{Score: f(-5)})
	if got == nil || *got != 0 {
		t.Errorf("clamp low: %v", got)
	}
}

func TestMergeHomeScores(t *testing.T) {
	if got := MergeHomeScores(f(80), f(90)); got == nil || *got != 85 {
		t.Errorf("both: %v", got)
	}
	if got := MergeHomeScores(f(80), nil); got == nil || *got != 80 {
		t.Errorf("home only: %v", got)
	}
	if got := MergeHomeScores(nil, f(90)); got == nil || *got != 90 {
		t.Errorf("condo only: %v", got)
	}
	if MergeHomeScores(nil, nil) != nil {
		t.Error("neither must be nil")
	}
}

func TestAverage(t *testing.T) {
	if got := Average([]float64{90, 80}); got == nil || *got != 85 {
		t.Errorf("got %v", got)
	}
	if Average(nil) != nil {
		t.Error("empty input must be nil")
	}
}

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {90, "A"}, {89.9, "B"}, {80, "B"}, {79, "C"},
		{70, "C"}, {69, "D"}, {60, "D"}, {59, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Errorf("GradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPercentile(t *testing.T) {
	if got := Percentile(50); got != 50 {
		t.Fatalf("Percentile(50) = %d", got)
	}
	// monotonically increasing
	prev := -1
	for s := 0; s <= 100; s += 5 {
		p := Percentile(float64(s))
		if p < prev {
			t.Fatalf("not monotone at %d: %d < %d", s, p, prev)
		}
		prev = p
	}
	// clamps out-of-range input
	if Percentile(-10) != Percentile(0) {
		t.Error("low clamp")
	}
	if Percentile(200) != Percentile(100) {
		t.Error("high clamp")
	}
}
