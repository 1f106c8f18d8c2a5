package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
)

// PPFDPerLumen converts luminous flux to photosynthetic photon flux for a
// broad-spectrum horticultural source. A proxy, not a spectral model.
const PPFDPerLumen = 0.015

// fieldAngleFactor widens the beam angle into the field angle over which
// intensity falls off to zero.
const fieldAngleFactor = 1.25

// PointSource is the built-in reference simulator: cone-limited point
// sources with inverse-square attenuation, a single diffuse interreflection
// term, and seed-driven sample noise scaled by the ray budget. Not safe for
// concurrent use.
type PointSource struct {
	surfaces []Surface
	sources  []LightSource
}

// NewPointSource returns an empty-scene simulator. Use it as a Factory:
// each worker constructs its own.
func NewPointSource() Simulator {
	return &PointSource{}
}

func (s *PointSource) AddSurface(surface Surface) {
	s.surfaces = append(s.surfaces, surface)
}

func (s *PointSource) AddLightSource(source LightSource) {
	s.sources = append(s.sources, source)
}

func (s *PointSource) ClearScene() {
	s.surfaces = s.surfaces[:0]
	s.sources = s.sources[:0]
}

func (s *PointSource) Run(ctx context.Context, points []Point, params Params) ([]float64, error) {
	if len(points) == 0 {
		return nil, errors.New("no measurement points")
	}
	if params.RayCount <= 0 {
		return nil, errors.New("ray count must be > 0")
	}

	samples := make([]float64, len(points))
	total := 0.0
	for i, p := range points {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		direct := 0.0
		for _, src := range s.sources {
			direct += s.directIlluminance(src, p)
		}
		samples[i] = direct
		total += direct
	}

	if params.MaxBounces > 0 && len(s.surfaces) > 0 {
		ambient := total / float64(len(points)) * s.meanReflectance() * 0.25
		for i := range samples {
			samples[i] += ambient
		}
	}

	// Sample noise stands in for Monte Carlo variance: it shrinks with the
	// ray budget and is fully determined by the seed.
	rng := rand.New(rand.NewSource(params.Seed))
	noise := 1.0 / math.Sqrt(float64(params.RayCount))
	for i := range samples {
		samples[i] *= 1 + rng.NormFloat64()*noise
		if samples[i] < 0 {
			samples[i] = 0
		}
	}
	return samples, nil
}

func (s *PointSource) directIlluminance(src LightSource, p Point) float64 {
	dx := p.X - src.Position.X
	dy := p.Y - src.Position.Y
	dz := p.Z - src.Position.Z
	d2 := dx*dx + dy*dy + dz*dz
	if d2 < 1e-6 {
		d2 = 1e-6
	}
	d := math.Sqrt(d2)

	// angle between the source axis and the ray to the point
	dot := (dx*src.Direction.X + dy*src.Direction.Y + dz*src.Direction.Z) / d
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	angle := math.Acos(dot) * 180 / math.Pi

	halfBeam := src.BeamAngle / 2
	halfField := halfBeam * fieldAngleFactor
	var falloff float64
	switch {
	case angle <= halfBeam:
		falloff = 1
	case angle < halfField:
		falloff = 1 - (angle-halfBeam)/(halfField-halfBeam)
	default:
		return 0
	}

	solid := 2 * math.Pi * (1 - math.Cos(halfField*math.Pi/180))
	if solid < 1e-9 {
		solid = 1e-9
	}
	intensity := src.Lumens / solid

	// cosine of incidence on the upward-facing measurement plane
	cosInc := -dz / d
	if cosInc < 0 {
		cosInc = 0
	}

	return intensity * falloff * cosInc / d2 * PPFDPerLumen
}

func (s *PointSource) meanReflectance() float64 {
	if len(s.surfaces) == 0 {
		return 0
	}
	total := 0.0
	for _, surface := range s.surfaces {
		total += surface.Reflectance
	}
	return total / float64(len(s.surfaces))
}
