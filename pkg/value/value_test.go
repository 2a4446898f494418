package value

import "testing"

func TestBroadcast(t *testing.T) {
	v := Scalar(5).Broadcast()
	want := Vector(5, 5, 5)
	if v != want {
		t.Errorf("Broadcast() = %v, want %v", v, want)
	}
}

func TestAtOutOfRange(t *testing.T) {
	v := Vector(1, 2, 3)
	if got := v.At(-1); got != 0 {
		t.Errorf("At(-1) = %v, want 0", got)
	}
	if got := v.At(3); got != 0 {
		t.Errorf("At(3) = %v, want 0", got)
	}
	if got := v.At(1); got != 2 {
		t.Errorf("At(1) = %v, want 2", got)
	}
}
