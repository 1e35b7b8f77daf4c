package norm

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-timing/timing"
)

func testContext() Context {
	return Context{N: 20, Params: 3, Chi2Ref: 40, YY: 2, PMax: 0.6}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"normalized", Normalized},
		{"ZK", Normalized},
		{"Scargle", Scargle},
		{"scargle", Scargle},
		{"HorneBaliunas", HorneBaliunas},
		{"hb", HorneBaliunas},
		{"Cumming", Cumming},
		{"chi2", Chi2},
		{"wrms", WRMS},
		{"  Cumming ", Cumming},
	}

	for _, tc := range tests {
		got, err := Parse(tc.name)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.name, err)
		}

		if got != tc.want {
			t.Fatalf("Parse(%q)=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("lomb"); !errors.Is(err, timing.ErrConfig) {
		t.Fatalf("err=%v want ErrConfig", err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, typ := range Types() {
		got, err := Parse(typ.String())
		if err != nil || got != typ {
			t.Fatalf("Parse(%q)=%v, %v", typ.String(), got, err)
		}
	}

	if Type(99).Valid() || Type(99).String() != "Type(99)" {
		t.Fatalf("invalid type String=%q", Type(99).String())
	}
}

func TestApplyValues(t *testing.T) {
	c := testContext()
	p := 0.3

	tests := []struct {
		typ  Type
		want float64
	}{
		{Normalized, 0.3},
		{Scargle, 0.3 * 40 / 2},
		{HorneBaliunas, 0.3 * 19 / 2},
		{Cumming, 0.3 * 17 / 2 / 0.4},
		{Chi2, 40 * 0.7},
		{WRMS, math.Sqrt(2 * 0.7)},
	}

	for _, tc := range tests {
		if got := tc.typ.Apply(p, c); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%v.Apply=%f want=%f", tc.typ, got, tc.want)
		}
	}
}

func TestApplyInvertRoundTrip(t *testing.T) {
	c := testContext()

	for _, typ := range Types() {
		for _, p := range []float64{0, 0.1, 0.5, 0.6, 0.99} {
			v := typ.Apply(p, c)
			if back := typ.Invert(v, c); math.Abs(back-p) > 1e-12 {
				t.Fatalf("%v: Invert(Apply(%f))=%f", typ, p, back)
			}
		}
	}
}

func TestScargleNormalizedRoundTrip(t *testing.T) {
	c := testContext()
	scargle := 7.25

	zk, err := Convert(scargle, Scargle, Normalized, c)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	back, err := Convert(zk, Normalized, Scargle, c)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if math.Abs(back-scargle) > 1e-12 {
		t.Fatalf("round trip=%f want=%f", back, scargle)
	}
}

func TestConvertInvalid(t *testing.T) {
	if _, err := Convert(1, Type(-1), Scargle, testContext()); !errors.Is(err, timing.ErrConfig) {
		t.Fatalf("err=%v want ErrConfig", err)
	}

	if _, err := ApplyAll(Type(42), []float64{0.1}, testContext()); !errors.Is(err, timing.ErrConfig) {
		t.Fatalf("err=%v want ErrConfig", err)
	}
}

func TestRangeContainsApplied(t *testing.T) {
	c := testContext()

	for _, typ := range Types() {
		lo, hi := typ.Range(c)
		if !(lo <= hi) {
			t.Fatalf("%v: Range=[%f, %f]", typ, lo, hi)
		}

		for _, p := range []float64{0, 0.2, c.PMax} {
			v := typ.Apply(p, c)
			if v < lo-1e-12 || v > hi+1e-12 {
				t.Fatalf("%v: Apply(%f)=%f outside [%f, %f]", typ, p, v, lo, hi)
			}
		}
	}
}

func TestAscending(t *testing.T) {
	c := testContext()

	for _, typ := range Types() {
		a, b := typ.Apply(0.2, c), typ.Apply(0.4, c)
		if typ.Ascending() != (b > a) {
			t.Fatalf("%v: Ascending=%t but Apply(0.2)=%f Apply(0.4)=%f", typ, typ.Ascending(), a, b)
		}
	}
}

func TestCummingPerfectFitStaysFinite(t *testing.T) {
	c := testContext()
	c.PMax = 1

	if v := Cumming.Apply(1, c); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Fatalf("Cumming.Apply with pmax=1 = %v", v)
	}
}
