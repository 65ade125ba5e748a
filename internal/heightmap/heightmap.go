// Package heightmap synthesizes 2-D scalar fields in [0,1]: white noise,
// fractal Perlin and simplex noise, an elliptic continent mask, and blends
// of them. Fields drive the heightmap map generators and can be exported as
// grayscale images.
package heightmap

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Defaults for fractal noise.
const (
	DefaultScale       = 0.05
	DefaultOctaves     = 4
	DefaultPersistence = 0.5
	DefaultLacunarity  = 2.0
	DefaultPercent     = 0.85
)

// ErrInvalidInput is wrapped by every parameter validation error.
var ErrInvalidInput = errors.New("heightmap: invalid input")

// Field is a width x height grid of values stored row-major.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// NewField allocates a zeroed field.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Values: make([]float64, width*height)}
}

func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

func (f *Field) Set(x, y int, v float64) {
	f.Values[y*f.Width+x] = v
}

// Normalize rescales the field linearly to [0,1]. A constant field becomes 0.
func (f *Field) Normalize() {
	if len(f.Values) == 0 {
		return
	}
	lo, hi := f.Values[0], f.Values[0]
	for _, v := range f.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range f.Values {
		if span == 0 {
			f.Values[i] = 0
		} else {
			f.Values[i] = (v - lo) / span
		}
	}
}

// Generator produces fields from a single seed. Noise fields depend only on
// the seed; white noise and the elliptic jitter consume the generator's
// random stream, so successive calls differ.
type Generator struct {
	seed    int64
	rng     *rand.Rand
	perm    [512]int
	simplex opensimplex.Noise
}

// NewGenerator creates a generator and shuffles its permutation table.
func NewGenerator(seed int64) *Generator {
	g := &Generator{
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		simplex: opensimplex.New(seed),
	}
	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	for i := range g.perm {
		g.perm[i] = p[i&255]
	}
	return g
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 { return g.seed }

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width and height must be positive, got %dx%d", ErrInvalidInput, width, height)
	}
	return nil
}

func checkFractal(width, height int, scale float64, octaves int, persistence, lacunarity float64) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	if scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidInput, scale)
	}
	if octaves < 1 {
		return fmt.Errorf("%w: octaves must be at least 1, got %d", ErrInvalidInput, octaves)
	}
	if persistence < 0 || persistence > 1 {
		return fmt.Errorf("%w: persistence must be within [0,1], got %v", ErrInvalidInput, persistence)
	}
	if lacunarity < 1 {
		return fmt.Errorf("%w: lacunarity must be at least 1, got %v", ErrInvalidInput, lacunarity)
	}
	return nil
}

// WhiteNoise fills a field with independent uniform samples.
func (g *Generator) WhiteNoise(width, height int) (*Field, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	f := NewField(width, height)
	for i := range f.Values {
		f.Values[i] = g.rng.Float64()
	}
	return f, nil
}

// PerlinNoise sums octaves of gradient noise sampled at (x, y) * scale and
// normalizes the result. The same generator always yields the same field.
func (g *Generator) PerlinNoise(width, height int, scale float64, octaves int, persistence, lacunarity float64) (*Field, error) {
	if err := checkFractal(width, height, scale, octaves, persistence, lacunarity); err != nil {
		return nil, err
	}
	return fractal(width, height, scale, octaves, persistence, lacunarity, g.perlin), nil
}

// SimplexNoise is PerlinNoise backed by OpenSimplex noise.
func (g *Generator) SimplexNoise(width, height int, scale float64, octaves int, persistence, lacunarity float64) (*Field, error) {
	if err := checkFractal(width, height, scale, octaves, persistence, lacunarity); err != nil {
		return nil, err
	}
	return fractal(width, height, scale, octaves, persistence, lacunarity, g.simplex.Eval2), nil
}

func fractal(width, height int, scale float64, octaves int, persistence, lacunarity float64, noise func(x, y float64) float64) *Field {
	f := NewField(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			amplitude, frequency, total := 1.0, 1.0, 0.0
			for o := 0; o < octaves; o++ {
				total += noise(float64(x)*scale*frequency, float64(y)*scale*frequency) * amplitude
				amplitude *= persistence
				frequency *= lacunarity
			}
			f.Set(x, y, total)
		}
	}
	f.Normalize()
	return f
}

// perlin evaluates classic 2-D gradient noise, roughly in [-1,1].
func (g *Generator) perlin(x, y float64) float64 {
	xf, yf := math.Floor(x), math.Floor(y)
	xi, yi := int(xf)&255, int(yf)&255
	x -= xf
	y -= yf
	u, v := fade(x), fade(y)

	p := &g.perm
	aa := p[p[xi]+yi]
	ab := p[p[xi]+yi+1]
	ba := p[p[xi+1]+yi]
	bb := p[p[xi+1]+yi+1]

	x1 := lerp(u, grad(aa, x, y), grad(ba, x-1, y))
	x2 := lerp(u, grad(ab, x, y-1), grad(bb, x-1, y-1))
	return lerp(v, x1, x2)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

// EllipticContinent returns a mask that is high in the middle and falls off
// toward an ellipse covering roughly percentOfMap of the field. Every cell
// gets up to +-0.1 of jitter; values are clipped to [0,1].
func (g *Generator) EllipticContinent(width, height int, percentOfMap float64) (*Field, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if percentOfMap <= 0 || percentOfMap > 1 {
		return nil, fmt.Errorf("%w: percentOfMap must be within (0,1], got %v", ErrInvalidInput, percentOfMap)
	}
	f := NewField(width, height)
	cx, cy := float64(width-1)/2, float64(height-1)/2
	rx := math.Max(float64(width)/2*math.Sqrt(percentOfMap), 0.5)
	ry := math.Max(float64(height)/2*math.Sqrt(percentOfMap), 0.5)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			d := math.Sqrt(dx*dx + dy*dy)
			v := 1 - d + (g.rng.Float64()-0.5)*0.2
			f.Set(x, y, clamp01(v))
		}
	}
	return f, nil
}

// Blend returns weight*a + (1-weight)*b cell by cell.
func Blend(a, b *Field, weight float64) (*Field, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: blend of nil field", ErrInvalidInput)
	}
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("%w: blend of %dx%d and %dx%d fields", ErrInvalidInput, a.Width, a.Height, b.Width, b.Height)
	}
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("%w: blend weight must be within [0,1], got %v", ErrInvalidInput, weight)
	}
	f := NewField(a.Width, a.Height)
	for i := range f.Values {
		f.Values[i] = clamp01(weight*a.Values[i] + (1-weight)*b.Values[i])
	}
	return f, nil
}

// Invert returns 1 - v for every cell.
func Invert(f *Field) *Field {
	out := NewField(f.Width, f.Height)
	for i, v := range f.Values {
		out.Values[i] = 1 - v
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
