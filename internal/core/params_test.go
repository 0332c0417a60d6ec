package core

import "testing"

func TestParameterControlAdjust(t *testing.T) {
	intCtrl := ParameterControl{Type: ParamTypeInt, Step: 5, Min: 0, Max: 12, HasMin: true, HasMax: true}
	if got := intCtrl.Adjust(10, 1); got != 12 {
		t.Fatalf("int adjust %v, want clamp to 12", got)
	}
	if got := intCtrl.Adjust(3, -1); got != 0 {
		t.Fatalf("int adjust %v, want clamp to 0", got)
	}

	zeroStep := ParameterControl{Type: ParamTypeInt}
	if got := zeroStep.Adjust(4, 1); got != 5 {
		t.Fatalf("int controls step by at least one, got %v", got)
	}

	floatCtrl := ParameterControl{Type: ParamTypeFloat, Step: 0.25, Max: 1, HasMax: true}
	if got := floatCtrl.Adjust(0.5, 1); got != 0.75 {
		t.Fatalf("float adjust %v, want 0.75", got)
	}
	if got := floatCtrl.Adjust(0.9, 1); got != 1 {
		t.Fatalf("float adjust %v, want clamp to 1", got)
	}
	if got := floatCtrl.Adjust(-3, -1); got != -3.25 {
		t.Fatalf("no min means no lower clamp, got %v", got)
	}
}

func TestParameterSnapshotFind(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "A", Params: []Parameter{{Key: "x", Value: "1"}}},
		{Name: "B", Params: []Parameter{{Key: "y", Value: "2"}}},
	}}
	if p, ok := snap.Find("y"); !ok || p.Value != "2" {
		t.Fatalf("find y: %+v %v", p, ok)
	}
	if _, ok := snap.Find("z"); ok {
		t.Fatal("unexpected z")
	}
}
