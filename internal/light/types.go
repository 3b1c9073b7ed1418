package light

import "math"

type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Rotation is intrinsic yaw (about Y), pitch (about X), roll (about Z), in radians.
type Rotation struct{ Pitch, Yaw, Roll float64 }

// Transform places a device in the room: scale, then rotate, then translate.
type Transform struct {
	Location Vec3
	Scale    Vec3
	Rotation Rotation
}

// IdentityTransform returns a transform that leaves geometry untouched.
func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Apply maps a device-local point into room space.
func (t Transform) Apply(p Vec3) Vec3 {
	p = p.Mul(t.Scale)
	p = rotate(p, t.Rotation)
	return p.Add(t.Location)
}

func rotate(p Vec3, r Rotation) Vec3 {
	// Yaw about Y
	sy, cy := math.Sincos(r.Yaw)
	p = Vec3{p.X*cy + p.Z*sy, p.Y, -p.X*sy + p.Z*cy}
	// Pitch about X
	sp, cp := math.Sincos(r.Pitch)
	p = Vec3{p.X, p.Y*cp - p.Z*sp, p.Y*sp + p.Z*cp}
	// Roll about Z
	sr, cr := math.Sincos(r.Roll)
	return Vec3{p.X*cr - p.Y*sr, p.X*sr + p.Y*cr, p.Z}
}

// Box is the axis-aligned spatial extent of one addressable light element.
type Box struct {
	Center      Vec3
	HalfExtents Vec3
}

// Apply maps a device-local box into room space. Extents stay axis-aligned;
// only the center is rotated.
func (t Transform) ApplyBox(b Box) Box {
	return Box{
		Center:      t.Apply(b.Center),
		HalfExtents: b.HalfExtents.Mul(t.Scale),
	}
}

// Color is hue [0,1), saturation [0,1], value [0,1]. The zero value is the
// neutral (off) color that freshly resized color buffers start at.
type Color struct{ H, S, V float64 }

// RGB converts to linear [0,1] RGB components.
func (c Color) RGB() (float64, float64, float64) {
	h := math.Mod(c.H, 1.0)
	if h < 0 {
		h += 1.0
	}
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := c.V * (1.0 - c.S)
	q := c.V * (1.0 - f*c.S)
	t := c.V * (1.0 - (1.0-f)*c.S)
	switch i % 6 {
	case 0:
		return c.V, t, p
	case 1:
		return q, c.V, p
	case 2:
		return p, c.V, t
	case 3:
		return p, q, c.V
	case 4:
		return t, p, c.V
	default:
		return c.V, p, q
	}
}

// RGB8 converts to 8-bit channels for wire formats.
func (c Color) RGB8() (uint8, uint8, uint8) {
	r, g, b := c.RGB()
	return uint8(clamp01(r) * 255), uint8(clamp01(g) * 255), uint8(clamp01(b) * 255)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
