package ticks

import "testing"

func TestChooseStepSnapsToNextRung(t *testing.T) {
	cases := []struct {
		span   int64
		target int
		want   int64
	}{
		{span: 60, target: 7, want: 10},           // raw 8.6 -> 10s
		{span: 3600, target: 7, want: 600},        // raw 514 -> 10min
		{span: 6 * 3600, target: 7, want: 3600},   // raw 3085 -> 1h
		{span: 86400, target: 7, want: 21600},     // raw 12342 -> 6h
		{span: 10 * 86400, target: 7, want: 172800},
		{span: 30 * 86400, target: 7, want: 604800},
	}
	for _, c := range cases {
		got := ChooseStep(c.span, c.target)
		if got != c.want {
			t.Errorf("ChooseStep(%d, %d) = %d, want %d", c.span, c.target, got, c.want)
		}
	}
}

func TestChooseStepExactRungBoundary(t *testing.T) {
	// span/target landing exactly on a rung must return that rung
	if got := ChooseStep(7*60, 7); got != 60 {
		t.Errorf("ChooseStep(420, 7) = %d, want 60", got)
	}
	if got := ChooseStep(7*86400, 7); got != 86400 {
		t.Errorf("ChooseStep(604800, 7) = %d, want 86400", got)
	}
}

func TestChooseStepIsSmallestQualifyingRung(t *testing.T) {
	spans := []int64{30, 90, 600, 3600, 7200, 43200, 86400, 604800, 2592000, 31536000}
	for _, span := range spans {
		got := ChooseStep(span, 7)
		raw := float64(span) / 7
		if float64(got) < raw && got != axisLadder[len(axisLadder)-1] {
			t.Fatalf("ChooseStep(%d, 7) = %d below raw target %f", span, got, raw)
		}
		// No smaller rung may also satisfy the raw target
		for _, rung := range axisLadder {
			if rung >= got {
				break
			}
			if float64(rung) >= raw {
				t.Fatalf("ChooseStep(%d, 7) = %d but smaller rung %d qualifies", span, got, rung)
			}
		}
	}
}

func TestChooseStepMonotonicInSpan(t *testing.T) {
	prev := int64(0)
	for span := int64(10); span <= 200*86400; span *= 2 {
		got := ChooseStep(span, 7)
		if got < prev {
			t.Fatalf("ChooseStep not monotonic: span %d gave %d after %d", span, got, prev)
		}
		prev = got
	}
}

func TestChooseStepClampsTargetCount(t *testing.T) {
	// target counts below 2 behave like 2
	want := ChooseStep(3600, 2)
	if got := ChooseStep(3600, 0); got != want {
		t.Errorf("ChooseStep(3600, 0) = %d, want %d", got, want)
	}
	if got := ChooseStep(3600, 1); got != want {
		t.Errorf("ChooseStep(3600, 1) = %d, want %d", got, want)
	}
	if got := ChooseStep(3600, -5); got != want {
		t.Errorf("ChooseStep(3600, -5) = %d, want %d", got, want)
	}
}

func TestChooseStepLadderMaximum(t *testing.T) {
	// A span far beyond the ladder falls back to the coarsest rung
	if got := ChooseStep(10*365*86400, 7); got != 7776000 {
		t.Errorf("ChooseStep(10y, 7) = %d, want 7776000", got)
	}
}

func TestResampleStepCeilsRawTarget(t *testing.T) {
	// 900 points over 900 seconds is exactly 1s per point
	if got := ResampleStep(900, 900); got != 1 {
		t.Errorf("ResampleStep(900, 900) = %d, want 1", got)
	}
	// One second more forces the 2s rung
	if got := ResampleStep(901, 900); got != 2 {
		t.Errorf("ResampleStep(901, 900) = %d, want 2", got)
	}
}

func TestResampleStepCommonRanges(t *testing.T) {
	cases := []struct {
		span int64
		want int64
	}{
		{span: 3600, want: 5},           // 1h / 900 = 4s -> 5s
		{span: 6 * 3600, want: 30},      // 6h / 900 = 24s -> 30s
		{span: 86400, want: 120},        // 24h / 900 = 96s -> 2min
		{span: 7 * 86400, want: 900},    // 7d / 900 = 672s -> 15min
		{span: 30 * 86400, want: 3600},  // 30d / 900 = 2880s -> 1h
		{span: 90 * 86400, want: 10800}, // 90d / 900 = 8640s -> 3h
	}
	for _, c := range cases {
		got := ResampleStep(c.span, 900)
		if got != c.want {
			t.Errorf("ResampleStep(%d, 900) = %d, want %d", c.span, got, c.want)
		}
	}
}

func TestResampleStepClampsBudget(t *testing.T) {
	want := ResampleStep(3600, 2)
	if got := ResampleStep(3600, 0); got != want {
		t.Errorf("ResampleStep(3600, 0) = %d, want %d", got, want)
	}
	if got := ResampleStep(3600, 1); got != want {
		t.Errorf("ResampleStep(3600, 1) = %d, want %d", got, want)
	}
}

func TestResampleStepLadderMaximum(t *testing.T) {
	// Beyond the resample ladder the step caps at one day
	if got := ResampleStep(10*365*86400, 2); got != 86400 {
		t.Errorf("ResampleStep(10y, 2) = %d, want 86400", got)
	}
}
