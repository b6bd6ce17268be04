package integrator

import (
	"math"
	"sync/atomic"

	"github.com/achilleasa/raytra/bvh"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/types"
)

// Ray counters. The fields are updated atomically.
type Counters struct {
	PrimaryRays    uint64
	ShadowRays     uint64
	ReflectionRays uint64

	// The number of shade invocations including the ones that hit the
	// depth limit.
	ShadeCalls uint64
}

// A recursive Whitted-style shader with Phong local illumination and
// mirror reflections. The shader only reads the scene so a single instance
// can serve concurrent callers.
type Whitted struct {
	intersector   Intersector
	pointLights   []*scene.PointLight
	squareLights  []*scene.SquareLight
	ambient       *scene.AmbientLight
	shadowSamples int

	counters Counters
}

// Create a shader for the lights of sc. Square lights are sampled over a
// shadowSamples x shadowSamples grid.
func NewWhitted(sc *scene.Scene, intersector Intersector, shadowSamples uint32) *Whitted {
	if shadowSamples == 0 {
		shadowSamples = 1
	}
	return &Whitted{
		intersector:   intersector,
		pointLights:   sc.PointLights,
		squareLights:  sc.SquareLights,
		ambient:       sc.Ambient,
		shadowSamples: int(shadowSamples),
	}
}

// Get a snapshot of the ray counters.
func (w *Whitted) Counters() Counters {
	return Counters{
		PrimaryRays:    atomic.LoadUint64(&w.counters.PrimaryRays),
		ShadowRays:     atomic.LoadUint64(&w.counters.ShadowRays),
		ReflectionRays: atomic.LoadUint64(&w.counters.ReflectionRays),
		ShadeCalls:     atomic.LoadUint64(&w.counters.ShadeCalls),
	}
}

// Shade a ray leaving the camera.
func (w *Whitted) TracePrimary(ray types.Ray, maxDepth uint32, sampler Sampler) types.Vec3 {
	atomic.AddUint64(&w.counters.PrimaryRays, 1)
	return w.Shade(ray, maxDepth, bvh.NoSurface, sampler)
}

// Compute the color carried along a ray. The origin argument is the index
// of the surface the ray leaves from, or bvh.NoSurface for primary rays.
// Reflections are followed while depth > 0.
func (w *Whitted) Shade(ray types.Ray, depth uint32, origin int, sampler Sampler) types.Vec3 {
	var color types.Vec3

	atomic.AddUint64(&w.counters.ShadeCalls, 1)
	if depth == 0 {
		return color
	}

	surface, t := w.intersector.ClosestSurface(ray, origin)
	if surface == bvh.NoSurface {
		return color
	}

	hit := ray.PointAt(t)
	mat := w.intersector.Material(surface)
	normal := w.intersector.NormalAt(surface, hit)

	for _, light := range w.pointLights {
		color = color.Add(
			w.direct(surface, hit, normal, ray.Dir, mat, light.Position, light.Color.Mul(light.Intensity), nil),
		)
	}

	cells := w.shadowSamples
	for _, light := range w.squareLights {
		var sum types.Vec3
		for p := 0; p < cells; p++ {
			for q := 0; q < cells; q++ {
				samplePoint := light.SamplePoint(p, q, cells, sampler.Float32(), sampler.Float32())
				sum = sum.Add(
					w.direct(surface, hit, normal, ray.Dir, mat, samplePoint, light.Color, &light.Normal),
				)
			}
		}
		color = color.Add(sum.Mul(1 / float32(cells*cells)))
	}

	// Ambient light only reaches surfaces seen from the eye
	if origin == bvh.NoSurface && w.ambient != nil {
		color = color.Add(mat.Diffuse.MulVec(w.ambient.Color))
	}

	if mat.IsReflective() && w.intersector.IsFrontFacedTo(surface, ray, hit) {
		reflected := ray.Dir.Sub(normal.Mul(2 * ray.Dir.Dot(normal)))
		atomic.AddUint64(&w.counters.ReflectionRays, 1)
		reflection := w.Shade(types.NewRay(hit, reflected), depth-1, surface, sampler)
		color = color.Add(reflection.MulVec(mat.IdealSpecular))
	}

	return color
}

// Evaluate the Phong contribution of a light sample at a surface point. A
// non-nil lightNormal applies the emitter cosine falloff.
func (w *Whitted) direct(surface int, hit types.Point, normal, viewDir types.Vec3, mat *scene.Material, lightPos types.Point, radiance types.Vec3, lightNormal *types.Vec3) types.Vec3 {
	shadowRay, tMax := types.RayBetween(lightPos, hit)

	atomic.AddUint64(&w.counters.ShadowRays, 1)
	if w.intersector.Occluded(shadowRay, tMax, surface) {
		return types.Vec3{}
	}

	toLight := shadowRay.Dir.Neg()
	halfVec := toLight.Add(viewDir.Neg()).Normalize()

	diffuse := max32(0, normal.Dot(toLight))
	specular := float32(math.Pow(float64(max32(0, normal.Dot(halfVec))), float64(mat.Phong)))

	scale := 1 / max32(tMax*tMax, 1)
	if lightNormal != nil {
		scale *= max32(0, shadowRay.Dir.Dot(*lightNormal))
	}

	return mat.Diffuse.Mul(diffuse).
		Add(mat.Specular.Mul(specular)).
		MulVec(radiance).
		Mul(scale)
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
