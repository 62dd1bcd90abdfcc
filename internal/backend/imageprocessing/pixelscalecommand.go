package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

const PixelScaleCommandName = "PixelScaleCommand"

// PixelScaleParams holds the target size. A nil dimension is derived from the other one.
type PixelScaleParams struct {
	Height *int
	Width  *int
}

func NewPixelScaleParamsFromMap(params map[string]any) (*PixelScaleParams, error) {
	_, hasHeight := params["height"]
	_, hasWidth := params["width"]
	if !hasHeight && !hasWidth {
		return nil, fmt.Errorf("at least one of 'height' or 'width' must be specified")
	}

	result := &PixelScaleParams{}
	if hasHeight {
		height := getIntParam(params, "height", 0)
		if height <= 0 {
			return nil, fmt.Errorf("height must be positive, got %d", height)
		}
		result.Height = &height
	}
	if hasWidth {
		width := getIntParam(params, "width", 0)
		if width <= 0 {
			return nil, fmt.Errorf("width must be positive, got %d", width)
		}
		result.Width = &width
	}
	return result, nil
}

// PixelScaleCommand scales a PNG while preserving the aspect ratio when only one side is given
type PixelScaleCommand struct {
	params *PixelScaleParams
}

func NewPixelScaleCommand(params map[string]any) (Command, error) {
	typedParams, err := NewPixelScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &PixelScaleCommand{params: typedParams}, nil
}

func (c *PixelScaleCommand) Name() string {
	return PixelScaleCommandName
}

func (c *PixelScaleCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	targetWidth, targetHeight := c.targetSize(bounds.Dx(), bounds.Dy())
	if targetWidth == bounds.Dx() && targetHeight == bounds.Dy() {
		return imageData, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode scaled PNG image: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *PixelScaleCommand) targetSize(originalWidth, originalHeight int) (int, int) {
	aspectRatio := float64(originalWidth) / float64(originalHeight)

	switch {
	case c.params.Width != nil && c.params.Height != nil:
		return *c.params.Width, *c.params.Height
	case c.params.Width != nil:
		return *c.params.Width, max(1, int(math.Round(float64(*c.params.Width)/aspectRatio)))
	default:
		return max(1, int(math.Round(float64(*c.params.Height)*aspectRatio))), *c.params.Height
	}
}

func (c *PixelScaleCommand) GetHeight() *int {
	return c.params.Height
}

func (c *PixelScaleCommand) GetWidth() *int {
	return c.params.Width
}

func init() {
	mustRegister(PixelScaleCommandName, NewPixelScaleCommand)
}
