package imagegen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"golang.org/x/image/colornames"
)

// Image is a generated image. PNG holds the encoded bytes; callers treat it
// as an opaque blob.
type Image struct {
	ID     string
	Prompt string
	PNG    []byte
}

// Generator is the image-generation capability. Generate may block and is
// called off the frame thread.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Image, error)
}

type GeneratorFunc func(ctx context.Context, prompt string) (Image, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (Image, error) {
	return f(ctx, prompt)
}

// Swatch is an offline generator that renders a flat tile in the first
// colour named in the prompt.
type Swatch struct {
	Size     int
	Fallback color.RGBA
}

func NewSwatch() *Swatch {
	return &Swatch{Size: 64, Fallback: colornames.Gray}
}

func (s *Swatch) Generate(ctx context.Context, prompt string) (Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Image{}, errors.NotValidf("empty prompt")
	}
	if err := ctx.Err(); err != nil {
		return Image{}, errors.Trace(err)
	}

	size := s.Size
	if size <= 0 {
		size = 64
	}
	fill := ColorFor(prompt, s.Fallback)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := fill
			// Outline so the tile is visible against a matching background.
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				c = colornames.Black
			}
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, errors.Annotate(err, "encode swatch")
	}
	return Image{ID: uuid.NewString(), Prompt: prompt, PNG: buf.Bytes()}, nil
}

// ColorFor returns the first CSS colour name found in prompt, or fallback.
func ColorFor(prompt string, fallback color.RGBA) color.RGBA {
	for _, word := range strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if c, ok := colornames.Map[word]; ok {
			return c
		}
	}
	return fallback
}

// Decode parses an image blob produced by a generator.
func Decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Annotate(err, "decode image")
	}
	return img, nil
}
