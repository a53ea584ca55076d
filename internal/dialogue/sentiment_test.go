package dialogue

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		text     string
		delta    int
		positive bool
		negative bool
	}{
		{"오늘 날씨 어때?", 0, false, false},
		{"고마워!", 2, true, false},
		{"사랑해", 3, true, false},
		{"너무 좋아!", 5, true, false},
		{"진짜 싫어", -2, false, true},
		{"너 정말 미워", -3, false, true},
		{"thank you so much", 2, true, false},
		{"i hate you", -3, false, true},
	}
	for _, tc := range cases {
		got := Classify(tc.text)
		if got.Delta != tc.delta || got.Positive != tc.positive || got.Negative != tc.negative {
			t.Errorf("Classify(%q) = %+v, want delta=%d positive=%v negative=%v",
				tc.text, got, tc.delta, tc.positive, tc.negative)
		}
	}
}

func TestClassifyOffsetting(t *testing.T) {
	// Positive and negative matches in one message cancel out.
	got := Classify("고마워, 근데 좀 서운했어")
	if got.Delta != 0 || got.Positive || got.Negative {
		t.Errorf("mixed message = %+v, want neutral", got)
	}
}
