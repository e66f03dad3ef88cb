package imagegen

import (
	"context"
	"image/color"
	"testing"

	"golang.org/x/image/colornames"
)

func TestColorFor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	tests := []struct {
		prompt string
		want   color.RGBA
	}{
		{"a red balloon", colornames.Red},
		{"Draw a RoyalBlue whale", colornames.Royalblue},
		{"a red sea below a royalblue sky", colornames.Red},
		{"nothing colourful", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			if got := ColorFor(tt.prompt, fallback); got != tt.want {
				t.Fatalf("ColorFor(%q) = %v, want %v", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestSwatchGenerates(t *testing.T) {
	s := NewSwatch()
	img, err := s.Generate(context.Background(), "  a red balloon ")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if img.ID == "" || img.Prompt != "a red balloon" {
		t.Fatalf("unexpected image metadata %+v", img)
	}

	decoded, err := Decode(img.PNG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("unexpected bounds %v", b)
	}
	r, g, b, _ := decoded.At(32, 32).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Fatalf("expected red centre, got %d %d %d", r>>8, g>>8, b>>8)
	}

	other, err := s.Generate(context.Background(), "a red balloon")
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == img.ID {
		t.Fatalf("expected unique ids")
	}
}

func TestSwatchErrors(t *testing.T) {
	s := NewSwatch()
	if _, err := s.Generate(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Generate(ctx, "red"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
