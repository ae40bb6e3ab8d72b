package emath

import (
	"math"
	"testing"
)

func TestDownSampleConservesMean(t *testing.T) {
	g := NewFloatGrid(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			g.Set(x, y, float64(x+10*y))
		}
	}
	d := g.DownSample(3)
	if d.Dx() != 2 || d.Dy() != 2 {
		t.Fatalf("downsampled to %dx%d", d.Dx(), d.Dy())
	}
	if got, want := d.Sum()*9, g.Sum(); math.Abs(got-want) > 1e-9 {
		t.Errorf("sum*9 = %g, want %g", got, want)
	}
	if got := d.Get(0, 0); got != 11 {
		t.Errorf("block (0,0) averaged to %g, want 11", got)
	}
}

func TestAddShapeMismatch(t *testing.T) {
	a := NewFloatGrid(3, 3)
	b := NewFloatGrid(3, 4)
	if err := a.Add(b); err == nil {
		t.Errorf("expected shape mismatch error")
	}
}

func TestRowsRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	g, err := NewFloatGridFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	if g.Dx() != 3 || g.Dy() != 2 || g.Get(2, 1) != 6 {
		t.Errorf("bad grid %s", g.Stats())
	}
	back := g.Rows()
	if back[1][0] != 4 {
		t.Errorf("Rows()[1][0] = %g", back[1][0])
	}
	if _, err := NewFloatGridFromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Errorf("ragged rows accepted")
	}
}

func TestAffInvert(t *testing.T) {
	m := NewAff3([2][2]float64{{0.2, -0.05}, {0.03, 0.2}}, 1, -1).Scale(2, 0.5).Translate(3, 4)
	inv, err := m.Invert()
	if err != nil {
		t.Fatal(err)
	}
	id := m.Mult(inv)
	want := Identity()
	for i := range id {
		if math.Abs(id[i]-want[i]) > 1e-12 {
			t.Fatalf("m*inv(m) = %s", id)
		}
	}
}
