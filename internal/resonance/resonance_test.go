package resonance

import "testing"

func TestZoneBoundaries(t *testing.T) {
	cases := []struct {
		value float64
		want  Zone
	}{
		{-100, ZoneDeepNav},
		{-61, ZoneDeepNav},
		{-60, ZoneNav},
		{-22, ZoneNav},
		{-21, ZoneYav},
		{-20, ZoneYav},
		{0, ZoneYav},
		{20, ZoneYav},
		{21, ZonePrav},
		{60, ZonePrav},
		{61, ZoneDeepPrav},
		{100, ZoneDeepPrav},
	}
	for _, c := range cases {
		if got := ZoneFor(c.value); got != c.want {
			t.Errorf("ZoneFor(%v) = %s, want %s", c.value, got, c.want)
		}
	}
}

func TestShiftClampsAndRecords(t *testing.T) {
	e := NewEngine(0)
	rec := e.Shift(30, "test")
	if rec.ResultingValue != 30 || rec.Amount != 30 || rec.Source != "test" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	rec = e.Shift(500, "overflow")
	if rec.ResultingValue != 100 {
		t.Fatalf("expected clamp at 100, got %v", rec.ResultingValue)
	}
	rec = e.Shift(-100000, "underflow")
	if rec.ResultingValue != -100 {
		t.Fatalf("expected clamp at -100, got %v", rec.ResultingValue)
	}
}

func TestSetValueAndInitializerClamp(t *testing.T) {
	e := NewEngine(99999)
	if e.Value() != 100 {
		t.Fatalf("initializer should clamp, got %v", e.Value())
	}
	e.SetValue(-1e9)
	if e.Value() != -100 {
		t.Fatalf("SetValue should clamp, got %v", e.Value())
	}
	e.SetValue(-35)
	if e.ActiveZone() != ZoneNav {
		t.Fatalf("expected nav zone at -35, got %s", e.ActiveZone())
	}
}
