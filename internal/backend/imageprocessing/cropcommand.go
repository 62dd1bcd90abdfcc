package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
)

const CropCommandName = "CropCommand"

// CropParams is the aspect ratio the image is cut to, e.g. 4:3
type CropParams struct {
	AspectWidth  int
	AspectHeight int
}

func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	aspectWidth := getIntParam(params, "aspectWidth", 0)
	aspectHeight := getIntParam(params, "aspectHeight", 0)
	if aspectWidth <= 0 || aspectHeight <= 0 {
		return nil, fmt.Errorf("aspectWidth and aspectHeight must be positive, got %d:%d", aspectWidth, aspectHeight)
	}
	return &CropParams{
		AspectWidth:  aspectWidth,
		AspectHeight: aspectHeight,
	}, nil
}

// CropCommand center crops a PNG to a fixed aspect ratio so that thumbnails line up in a grid
type CropCommand struct {
	params *CropParams
}

func NewCropCommand(params map[string]any) (Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &CropCommand{params: typedParams}, nil
}

func (c *CropCommand) Name() string {
	return CropCommandName
}

func (c *CropCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	cropWidth, cropHeight := c.cropSize(bounds.Dx(), bounds.Dy())
	if cropWidth == bounds.Dx() && cropHeight == bounds.Dy() {
		return imageData, nil
	}

	origin := image.Pt(
		bounds.Min.X+(bounds.Dx()-cropWidth)/2,
		bounds.Min.Y+(bounds.Dy()-cropHeight)/2,
	)
	dst := image.NewRGBA(image.Rect(0, 0, cropWidth, cropHeight))
	draw.Draw(dst, dst.Bounds(), img, origin, draw.Src)

	return encodePNG(dst)
}

func (c *CropCommand) cropSize(width, height int) (int, int) {
	target := float64(c.params.AspectWidth) / float64(c.params.AspectHeight)
	current := float64(width) / float64(height)

	if current > target {
		return max(1, min(width, int(math.Round(float64(height)*target)))), height
	}
	return width, max(1, min(height, int(math.Round(float64(width)/target))))
}

func (c *CropCommand) GetParams() *CropParams {
	return c.params
}

func init() {
	mustRegister(CropCommandName, NewCropCommand)
}
