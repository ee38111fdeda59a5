package model

import "math"

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) DistTo(o Vec3) float64 {
	d := v.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// DirXZ is the unit vector from v toward o on the ground plane, or zero.
func (v Vec3) DirXZ(o Vec3) (dx, dz float64) {
	dx, dz = o.X-v.X, o.Z-v.Z
	l := math.Sqrt(dx*dx + dz*dz)
	if l == 0 {
		return 0, 0
	}
	return dx / l, dz / l
}

func (v Vec3) ToArray() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func Vec3FromArray(a [3]float64) Vec3 { return Vec3{X: a[0], Y: a[1], Z: a[2]} }
