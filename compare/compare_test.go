package compare

import (
	"image"
	"image/color"
	"testing"
)

func page(seed int) image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*seed + y*7 + seed*13) % 251)})
		}
	}
	return img
}

func TestSame(t *testing.T) {
	a, err := Hash(page(3))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Hash(page(3))
	c, _ := Hash(page(11))

	if !Same(a, b, 0) {
		t.Error("identical images should hash the same")
	}
	if Same(a, c, 0) {
		t.Error("different images should not be the same")
	}
	if Same(nil, a, 0) {
		t.Error("nil hash should never match")
	}
}

func TestTrackerDetectsRepeat(t *testing.T) {
	tr := NewTracker(3)
	seq := []image.Image{page(1), page(2), page(2), page(2)}
	want := []bool{false, false, false, true}

	for i, img := range seq {
		got, err := tr.Observe(img)
		if err != nil {
			t.Fatal(err)
		}
		if got != want[i] {
			t.Errorf("Observe #%d = %v, want %v (run=%d)", i+1, got, want[i], tr.Run())
		}
	}
	if tr.Run() != 3 {
		t.Errorf("Run() = %d, want 3", tr.Run())
	}

	tr.Reset()
	if tr.Run() != 0 {
		t.Error("Reset should clear the run")
	}
}

func TestTrackerDisabled(t *testing.T) {
	tr := NewTracker(0)
	for i := 0; i < 5; i++ {
		if got, _ := tr.Observe(page(1)); got {
			t.Fatal("a tracker with Limit < 2 should never report")
		}
	}
}
