package core

import "math"

// Matrix4 is a row-major 4x4 matrix used for affine transforms
type Matrix4 struct {
	M [4][4]float64
}

// IdentityMatrix returns the identity transform
func IdentityMatrix() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

// TranslateMatrix returns a translation by v
func TranslateMatrix(v Vec3) Matrix4 {
	m := IdentityMatrix()
	m.M[0][3] = v.X
	m.M[1][3] = v.Y
	m.M[2][3] = v.Z
	return m
}

// ScaleMatrix returns a non-uniform scale
func ScaleMatrix(v Vec3) Matrix4 {
	var m Matrix4
	m.M[0][0] = v.X
	m.M[1][1] = v.Y
	m.M[2][2] = v.Z
	m.M[3][3] = 1
	return m
}

// RotateXMatrix returns a rotation about the x axis by angle radians
func RotateXMatrix(angle float64) Matrix4 {
	s, c := math.Sin(angle), math.Cos(angle)
	m := IdentityMatrix()
	m.M[1][1], m.M[1][2] = c, -s
	m.M[2][1], m.M[2][2] = s, c
	return m
}

// RotateYMatrix returns a rotation about the y axis by angle radians
func RotateYMatrix(angle float64) Matrix4 {
	s, c := math.Sin(angle), math.Cos(angle)
	m := IdentityMatrix()
	m.M[0][0], m.M[0][2] = c, s
	m.M[2][0], m.M[2][2] = -s, c
	return m
}

// RotateZMatrix returns a rotation about the z axis by angle radians
func RotateZMatrix(angle float64) Matrix4 {
	s, c := math.Sin(angle), math.Cos(angle)
	m := IdentityMatrix()
	m.M[0][0], m.M[0][1] = c, -s
	m.M[1][0], m.M[1][1] = s, c
	return m
}

// MultiplyMatrix returns m * other
func (m Matrix4) MultiplyMatrix(other Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m.M[i][k] * other.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// TransformPoint applies the full affine transform to a point
func (m Matrix4) TransformPoint(p Vec3) Vec3 {
	return NewVec3(
		m.M[0][0]*p.X+m.M[0][1]*p.Y+m.M[0][2]*p.Z+m.M[0][3],
		m.M[1][0]*p.X+m.M[1][1]*p.Y+m.M[1][2]*p.Z+m.M[1][3],
		m.M[2][0]*p.X+m.M[2][1]*p.Y+m.M[2][2]*p.Z+m.M[2][3],
	)
}

// TransformVector applies only the linear part of the transform
func (m Matrix4) TransformVector(v Vec3) Vec3 {
	return NewVec3(
		m.M[0][0]*v.X+m.M[0][1]*v.Y+m.M[0][2]*v.Z,
		m.M[1][0]*v.X+m.M[1][1]*v.Y+m.M[1][2]*v.Z,
		m.M[2][0]*v.X+m.M[2][1]*v.Y+m.M[2][2]*v.Z,
	)
}

// Transpose returns the transposed matrix
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.M[i][j] = m.M[j][i]
		}
	}
	return out
}

// Determinant3 returns the determinant of the upper-left 3x3 block
func (m Matrix4) Determinant3() float64 {
	return m.M[0][0]*(m.M[1][1]*m.M[2][2]-m.M[1][2]*m.M[2][1]) -
		m.M[0][1]*(m.M[1][0]*m.M[2][2]-m.M[1][2]*m.M[2][0]) +
		m.M[0][2]*(m.M[1][0]*m.M[2][1]-m.M[1][1]*m.M[2][0])
}

// Invert returns the inverse of an affine transform (linear 3x3 block plus
// translation). Returns false when the linear part is singular.
func (m Matrix4) Invert() (Matrix4, bool) {
	det := m.Determinant3()
	if math.Abs(det) < 1e-12 {
		return Matrix4{}, false
	}
	invDet := 1.0 / det

	var inv Matrix4
	inv.M[0][0] = (m.M[1][1]*m.M[2][2] - m.M[1][2]*m.M[2][1]) * invDet
	inv.M[0][1] = (m.M[0][2]*m.M[2][1] - m.M[0][1]*m.M[2][2]) * invDet
	inv.M[0][2] = (m.M[0][1]*m.M[1][2] - m.M[0][2]*m.M[1][1]) * invDet
	inv.M[1][0] = (m.M[1][2]*m.M[2][0] - m.M[1][0]*m.M[2][2]) * invDet
	inv.M[1][1] = (m.M[0][0]*m.M[2][2] - m.M[0][2]*m.M[2][0]) * invDet
	inv.M[1][2] = (m.M[0][2]*m.M[1][0] - m.M[0][0]*m.M[1][2]) * invDet
	inv.M[2][0] = (m.M[1][0]*m.M[2][1] - m.M[1][1]*m.M[2][0]) * invDet
	inv.M[2][1] = (m.M[0][1]*m.M[2][0] - m.M[0][0]*m.M[2][1]) * invDet
	inv.M[2][2] = (m.M[0][0]*m.M[1][1] - m.M[0][1]*m.M[1][0]) * invDet

	t := NewVec3(m.M[0][3], m.M[1][3], m.M[2][3])
	it := inv.TransformVector(t)
	inv.M[0][3] = -it.X
	inv.M[1][3] = -it.Y
	inv.M[2][3] = -it.Z
	inv.M[3][3] = 1
	return inv, true
}
