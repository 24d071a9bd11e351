package math3d

import "math"

// SingularTolerance is the pivot magnitude at or below which Inverse
// declares a matrix singular.
const SingularTolerance = 1e-5

// Quadric is a 4x4 matrix stored in row-major order, Q[row][col].
// It is used as a symmetric error quadric: Evaluate(v) = vᵀ Q v for the
// homogeneous point v = (x, y, z, 1).
type Quadric [4][4]float64

// QuadricIdentity returns the identity matrix.
func QuadricIdentity() Quadric {
	return Quadric{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// OuterQuadric returns the outer product p pᵀ.
func OuterQuadric(p Vec4) Quadric {
	var q Quadric
	for row := range 4 {
		for col := range 4 {
			q[row][col] = p.At(row) * p.At(col)
		}
	}
	return q
}

// Add returns the element-wise sum a + b.
func (a Quadric) Add(b Quadric) Quadric {
	for row := range 4 {
		for col := range 4 {
			a[row][col] += b[row][col]
		}
	}
	return a
}

// Sub returns the element-wise difference a - b.
func (a Quadric) Sub(b Quadric) Quadric {
	for row := range 4 {
		for col := range 4 {
			a[row][col] -= b[row][col]
		}
	}
	return a
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Quadric) Mul(b Quadric) Quadric {
	var m Quadric
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row][k] * b[k][col]
			}
			m[row][col] = sum
		}
	}
	return m
}

// Evaluate returns vᵀ Q v with v extended to (x, y, z, 1).
func (q Quadric) Evaluate(v Vec3) float64 {
	var sum float64
	for col := range 4 {
		var t float64
		for row := range 4 {
			t += v.At(row) * q[row][col]
		}
		sum += t * v.At(col)
	}
	return sum
}

// Split returns a copy with the last row replaced by (0, 0, 0, 1).
// Inverting the result solves for the point minimizing the quadric.
func (q Quadric) Split() Quadric {
	q[3] = [4]float64{0, 0, 0, 1}
	return q
}

// Inverse returns the inverse using Gauss-Jordan elimination with partial
// pivoting. ok is false when a pivot's magnitude is at or below
// SingularTolerance.
func (q Quadric) Inverse() (inv Quadric, ok bool) {
	a := q
	inv = QuadricIdentity()

	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if !(math.Abs(a[pivot][col]) > SingularTolerance) {
			return Quadric{}, false
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			inv[pivot], inv[col] = inv[col], inv[pivot]
		}

		// Columns left of col are already zero in the pivot row.
		r := -1 / a[col][col]
		for row := range 4 {
			if row == col {
				continue
			}
			d := r * a[row][col]
			for k := col; k < 4; k++ {
				a[row][k] += d * a[col][k]
			}
			for k := range 4 {
				inv[row][k] += d * inv[col][k]
			}
		}
	}

	for row := range 4 {
		s := 1 / a[row][row]
		for k := range 4 {
			inv[row][k] *= s
		}
	}
	return inv, true
}

// Transpose returns the transposed matrix.
func (q Quadric) Transpose() Quadric {
	var t Quadric
	for row := range 4 {
		for col := range 4 {
			t[col][row] = q[row][col]
		}
	}
	return t
}

// Get returns the element at (row, col).
func (q Quadric) Get(row, col int) float64 {
	return q[row][col]
}

// Set sets the element at (row, col).
func (q *Quadric) Set(row, col int, val float64) {
	q[row][col] = val
}

// Column3 returns the first three entries of the last column. For the
// inverse of a split quadric this is the cost-minimizing point.
func (q Quadric) Column3() Vec3 {
	return Vec3{q[0][3], q[1][3], q[2][3]}
}

// IsFinite reports whether every entry is finite.
func (q Quadric) IsFinite() bool {
	for row := range 4 {
		for col := range 4 {
			v := q[row][col]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
