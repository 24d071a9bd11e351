package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func vecApprox(a, b Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", a.Add(b), V3(5, -3, 9)},
		{"sub", a.Sub(b), V3(-3, 7, -3)},
		{"mul", a.Mul(b), V3(4, -10, 18)},
		{"div vec", b.DivVec(a), V3(4, -2.5, 2)},
		{"add scalar", a.AddScalar(1), V3(2, 3, 4)},
		{"sub scalar", a.SubScalar(1), V3(0, 1, 2)},
		{"scale", a.Scale(2), V3(2, 4, 6)},
		{"div", b.Div(2), V3(2, -2.5, 3)},
		{"negate", a.Negate(), V3(-1, -2, -3)},
		{"min", a.Min(b), V3(1, -5, 3)},
		{"max", a.Max(b), V3(4, 2, 6)},
		{"midpoint", a.Midpoint(b), V3(2.5, -1.5, 4.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !vecApprox(tc.got, tc.want) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestVec3ProductsMatchMathgl(t *testing.T) {
	pairs := [][2]Vec3{
		{V3(1, 2, 3), V3(4, 5, 6)},
		{V3(-0.5, 7, 2), V3(3, -1, 0.25)},
		{V3(0, 0, 1), V3(1, 0, 0)},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		ga := mgl64.Vec3{a.X, a.Y, a.Z}
		gb := mgl64.Vec3{b.X, b.Y, b.Z}

		if !approx(a.Dot(b), ga.Dot(gb)) {
			t.Errorf("Dot(%v, %v) = %v, mathgl %v", a, b, a.Dot(b), ga.Dot(gb))
		}
		c := a.Cross(b)
		gc := ga.Cross(gb)
		if !vecApprox(c, V3(gc[0], gc[1], gc[2])) {
			t.Errorf("Cross(%v, %v) = %v, mathgl %v", a, b, c, gc)
		}
		if !approx(a.Len(), ga.Len()) {
			t.Errorf("Len(%v) = %v, mathgl %v", a, a.Len(), ga.Len())
		}
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(0, 3, 4).Normalize()
	if !vecApprox(n, V3(0, 0.6, 0.8)) {
		t.Errorf("Normalize = %v, want (0, 0.6, 0.8)", n)
	}
	if !approx(n.Len(), 1) {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) || !z.IsFinite() {
		t.Errorf("Normalize(zero) = %v, want zero", z)
	}
}

func TestVec3At(t *testing.T) {
	v := V3(7, 8, 9)
	want := []float64{7, 8, 9, 1}
	for i, w := range want {
		if got := v.At(i); got != w {
			t.Errorf("At(%d) = %v, want %v", i, got, w)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("At(4) should panic")
		}
	}()
	v.At(4)
}

func TestVec3IsFinite(t *testing.T) {
	if !V3(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if V3(0, 1, 0).Div(0).IsFinite() {
		t.Error("division by zero should propagate to non-finite")
	}
}

func TestPlaneFromTriangle(t *testing.T) {
	p, ok := PlaneFromTriangle(V3(0, 0, 2), V3(1, 0, 2), V3(0, 1, 2), 1e-12)
	if !ok {
		t.Fatal("expected a valid plane")
	}
	if !approx(math.Abs(p.Normal.Z), 1) {
		t.Errorf("normal = %v, want ±Z", p.Normal)
	}
	// The plane quadric measures squared distance.
	if d := p.Quadric().Evaluate(V3(5, -3, 2)); !approx(d, 0) {
		t.Errorf("point on plane has error %v", d)
	}
	if d := p.Quadric().Evaluate(V3(0, 0, 5)); !approx(d, 9) {
		t.Errorf("error = %v, want 9", d)
	}

	if _, ok := PlaneFromTriangle(V3(0, 0, 0), V3(1, 1, 1), V3(2, 2, 2), 1e-12); ok {
		t.Error("collinear triangle should be degenerate")
	}
	if _, ok := PlaneFromTriangle(V3(1, 1, 1), V3(1, 1, 1), V3(1, 1, 1), 1e-12); ok {
		t.Error("point triangle should be degenerate")
	}
}
