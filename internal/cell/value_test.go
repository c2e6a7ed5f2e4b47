package cell

import (
	"testing"
	"time"
)

func TestValue_ZeroIsEmpty(t *testing.T) {
	var v Value
	if !v.IsEmpty() || v.Kind() != KindEmpty {
		t.Errorf("zero Value kind = %v, want empty", v.Kind())
	}
	if !v.Equal(Empty()) {
		t.Error("zero Value != Empty()")
	}
}

func TestValue_Display(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Empty(), ""},
		{Text("abc"), "abc"},
		{Number(42), "42"},
		{Number(3.25), "3.25"},
		{Number(-0.5), "-0.5"},
		{Number(1e21), "1000000000000000000000"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Date(time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)), "05-04-2024"},
	}

	for _, tt := range tests {
		if got := tt.v.Display(); got != tt.want {
			t.Errorf("%v.Display() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestValue_Equal(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.In(time.FixedZone("X", 3600))

	if !Date(a).Equal(Date(b)) {
		t.Error("same instant in different zones should be equal")
	}
	if Number(1).Equal(Text("1")) {
		t.Error("different kinds should not be equal")
	}
	if Text("a").Equal(Text("b")) {
		t.Error("different text should not be equal")
	}
}
