package heightmap

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"golang.org/x/image/bmp"
)

// ToGray converts a field to an 8-bit grayscale image, 0 black and 1 white.
func ToGray(f *Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: toByte(f.At(x, y))})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// WriteBMP encodes the field as a grayscale bitmap.
func WriteBMP(w io.Writer, f *Field) error {
	if err := bmp.Encode(w, ToGray(f)); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// WritePGM writes the field as a plain-text (P2) portable graymap.
func WritePGM(w io.Writer, f *Field) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P2\n%d %d\n255\n", f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d", toByte(f.At(x, y)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
