package difficulty

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, -3}, {5, 3}, {0, 0}, {-3, -3}, {3, 3}, {-2, -2}, {2, 2}, {1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInitialize(t *testing.T) {
	m := Initialize([]string{"add", "subtract", "multiply"})
	if len(m) != 3 {
		t.Fatalf("len = %d, want 3", len(m))
	}
	for op, score := range m {
		if score != 0 {
			t.Errorf("%s = %d, want 0", op, score)
		}
	}

	if got := Initialize(nil); len(got) != 0 {
		t.Errorf("Initialize(nil) has %d keys, want 0", len(got))
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		start   Map
		op      string
		correct bool
		want    Map
	}{
		{"correct increments", Map{"add": 0}, "add", true, Map{"add": 1}},
		{"wrong decrements", Map{"add": 0}, "add", false, Map{"add": -1}},
		{"clamped at max", Map{"add": 3}, "add", true, Map{"add": 3}},
		{"clamped at min", Map{"add": -3}, "add", false, Map{"add": -3}},
		{"others untouched", Map{"add": 1, "subtract": 2}, "add", true, Map{"add": 2, "subtract": 2}},
		{"absent op not created", Map{"add": 1}, "multiply", true, Map{"add": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.start.Clone()
			got := Update(tt.start, tt.op, tt.correct)

			if len(got) != len(tt.want) {
				t.Fatalf("keys = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d", k, got[k], v)
				}
			}
			for k, v := range before {
				if tt.start[k] != v {
					t.Errorf("input mutated: %s = %d, want %d", k, tt.start[k], v)
				}
			}
		})
	}
}

func TestUpdateStaysInBounds(t *testing.T) {
	m := Map{"divide": 0}
	for i := 0; i < 50; i++ {
		m = Update(m, "divide", i%7 != 0)
		if s := m["divide"]; s < MinScore || s > MaxScore {
			t.Fatalf("score %d out of bounds after %d updates", s, i+1)
		}
	}
}

func TestAdjustedRange(t *testing.T) {
	tests := []struct {
		name             string
		min, max, score  int
		wantMin, wantMax int
	}{
		{"zero keeps range", 10, 50, 0, 10, 50},
		{"max score shifts up", 0, 100, 3, 30, 130},
		{"min score shifts down", 0, 100, -3, -30, 70},
		{"level 1 plus one", -20, 50, 1, -13, 57},
		{"level 1 minus one", -20, 50, -1, -27, 43},
		{"level 3 max", -100, 100, 3, -40, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := AdjustedRange(tt.min, tt.max, tt.score)
			if lo != tt.wantMin || hi != tt.wantMax {
				t.Errorf("AdjustedRange(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.min, tt.max, tt.score, lo, hi, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestAdjustedTableMax(t *testing.T) {
	tests := []struct {
		base, score, want int
	}{
		{10, 0, 10},
		{10, 3, 13},
		{10, -3, 7},
		{10, 1, 11},
		{10, -1, 9},
		{20, 3, 26},
		{1, -3, 1},
	}
	for _, tt := range tests {
		if got := AdjustedTableMax(tt.base, tt.score); got != tt.want {
			t.Errorf("AdjustedTableMax(%d, %d) = %d, want %d", tt.base, tt.score, got, tt.want)
		}
	}

	for base := 1; base <= 30; base++ {
		for s := MinScore; s <= MaxScore; s++ {
			got := AdjustedTableMax(base, s)
			if got < 1 || got > 2*base {
				t.Errorf("AdjustedTableMax(%d, %d) = %d, outside [1, %d]", base, s, got, 2*base)
			}
		}
	}
}

func TestClampIdempotent(t *testing.T) {
	for s := -10; s <= 10; s++ {
		c := Clamp(s)
		if c < MinScore || c > MaxScore {
			t.Errorf("Clamp(%d) = %d, out of range", s, c)
		}
		if Clamp(c) != c {
			t.Errorf("Clamp(Clamp(%d)) = %d, want %d", s, Clamp(c), c)
		}
	}
}

func TestUpdateSaturatesAtMax(t *testing.T) {
	m := Map{"add": 0}
	want := []int{1, 2, 3, 3}
	for i, w := range want {
		m = Update(m, "add", true)
		if m["add"] != w {
			t.Fatalf("after %d correct: add = %d, want %d", i+1, m["add"], w)
		}
	}
	m = Update(m, "add", true)
	if m["add"] != 3 {
		t.Errorf("fifth correct: add = %d, want 3", m["add"])
	}
}
