// Package builtins registers a small demonstration math library into a
// registry.Registry, standing in for the concrete function library the
// embedding host would normally supply (spec's Non-goals exclude a
// full math-function library from the core; this is a minimal stand-in
// that uses the FUNC1, FUNC2, FUNC3, FUNC6, FUNC1V, FUNC2V, FUNC1VV and
// FUNC2VV calling conventions; none of its functions is FUNC0, FUNC4,
// FUNC5, FUNCN, FUNCNV, FUNCNVV or FUNCX).
// Names and arities follow the shading-language builtins this engine's
// ancestor shipped (deg/rad/clamp/smoothstep/noise-adjacent vector ops).
package builtins

import (
	"math"

	"seshade/pkg/registry"
	"seshade/pkg/types"
)

// Register adds the demonstration builtins to reg, overwriting any
// existing entries with the same names.
func Register(reg *registry.Registry) {
	registerTrig(reg)
	registerClamping(reg)
	registerBlending(reg)
	registerVectors(reg)
}

func registerTrig(reg *registry.Registry) {
	fixed1 := func(name string, fn func(float64) float64) {
		reg.Register(&registry.Descriptor{
			Name: name, ReturnType: types.FP1, MinArgs: 1, MaxArgs: 1, Sig: registry.FUNC1,
			Fn: registry.Func1(fn),
		})
	}
	deg := func(x float64) float64 { return x * (180 / math.Pi) }
	rad := func(x float64) float64 { return x * (math.Pi / 180) }
	fixed1("deg", deg)
	fixed1("rad", rad)
	fixed1("cosd", func(x float64) float64 { return math.Cos(rad(x)) })
	fixed1("sind", func(x float64) float64 { return math.Sin(rad(x)) })
	fixed1("tand", func(x float64) float64 { return math.Tan(rad(x)) })
	fixed1("acosd", func(x float64) float64 { return deg(math.Acos(x)) })
	fixed1("asind", func(x float64) float64 { return deg(math.Asin(x)) })
	fixed1("atand", func(x float64) float64 { return deg(math.Atan(x)) })

	reg.Register(&registry.Descriptor{
		Name: "atan2d", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(func(y, x float64) float64 { return deg(math.Atan2(y, x)) }),
	})
}

func registerClamping(reg *registry.Registry) {
	reg.Register(&registry.Descriptor{
		Name: "clamp", ReturnType: types.FP1, MinArgs: 3, MaxArgs: 3, Sig: registry.FUNC3,
		Fn: registry.Func3(func(x, lo, hi float64) float64 {
			if x < lo {
				return lo
			}
			if x > hi {
				return hi
			}
			return x
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "round", ReturnType: types.FP1, MinArgs: 1, MaxArgs: 1, Sig: registry.FUNC1,
		Fn: registry.Func1(func(x float64) float64 {
			if x < 0 {
				return math.Ceil(x - 0.5)
			}
			return math.Floor(x + 0.5)
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "max", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(math.Max),
	})
	reg.Register(&registry.Descriptor{
		Name: "min", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(math.Min),
	})
}

func registerBlending(reg *registry.Registry) {
	reg.Register(&registry.Descriptor{
		Name: "invert", ReturnType: types.FP1, MinArgs: 1, MaxArgs: 1, Sig: registry.FUNC1,
		Fn: registry.Func1(func(x float64) float64 { return 1 - x }),
	})
	reg.Register(&registry.Descriptor{
		Name: "gamma", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(func(x, g float64) float64 {
			if x <= 0 {
				return 0
			}
			return math.Pow(x, 1/g)
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "bias", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(func(x, b float64) float64 {
			if b <= 0 || x <= 0 {
				return 0
			}
			return math.Pow(x, math.Log(b)/math.Log(0.5))
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "mix", ReturnType: types.FP1, MinArgs: 3, MaxArgs: 3, Sig: registry.FUNC3,
		Fn: registry.Func3(func(x, y, alpha float64) float64 { return x*(1-alpha) + y*alpha }),
	})
	reg.Register(&registry.Descriptor{
		Name: "smoothstep", ReturnType: types.FP1, MinArgs: 3, MaxArgs: 3, Sig: registry.FUNC3,
		Fn: registry.Func3(func(x, a, b float64) float64 {
			if a == b {
				if x < a {
					return 0
				}
				return 1
			}
			t := (x - a) / (b - a)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			return t * t * (3 - 2*t)
		}),
	})
}

func registerVectors(reg *registry.Registry) {
	reg.Register(&registry.Descriptor{
		Name: "length", ReturnType: types.FP1, MinArgs: 1, MaxArgs: 1, Sig: registry.FUNC1V,
		Fn: registry.Func1V(func(v [3]float64) float64 {
			return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "hypot", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(math.Hypot),
	})
	reg.Register(&registry.Descriptor{
		Name: "dot", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2V,
		Fn: registry.Func2V(func(a, b [3]float64) float64 {
			return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "norm", ReturnType: types.FPN(3), MinArgs: 1, MaxArgs: 1, Sig: registry.FUNC1VV,
		Fn: registry.Func1VV(func(v [3]float64) [3]float64 {
			l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
			if l == 0 {
				return [3]float64{0, 0, 0}
			}
			return [3]float64{v[0] / l, v[1] / l, v[2] / l}
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "cross", ReturnType: types.FPN(3), MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2VV,
		Fn: registry.Func2VV(func(a, b [3]float64) [3]float64 {
			return [3]float64{
				a[1]*b[2] - a[2]*b[1],
				a[2]*b[0] - a[0]*b[2],
				a[0]*b[1] - a[1]*b[0],
			}
		}),
	})
	reg.Register(&registry.Descriptor{
		Name: "dist", ReturnType: types.FP1, MinArgs: 6, MaxArgs: 6, Sig: registry.FUNC6,
		Fn: registry.Func6(func(ax, ay, az, bx, by, bz float64) float64 {
			dx, dy, dz := ax-bx, ay-by, az-bz
			return math.Sqrt(dx*dx + dy*dy + dz*dz)
		}),
	})
}
