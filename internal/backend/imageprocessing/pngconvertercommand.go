package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const PngConverterCommandName = "PngConverterCommand"

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// PngConverterCommand re-encodes any supported raster format, or an SVG document, as PNG
type PngConverterCommand struct {
	svgFallbackWidth  int
	svgFallbackHeight int
}

func NewPngConverterCommand(params map[string]any) (Command, error) {
	w := getIntParam(params, "svgFallbackWidth", 0)
	h := getIntParam(params, "svgFallbackHeight", 0)
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("svg fallback size must not be negative, got %dx%d", w, h)
	}
	return &PngConverterCommand{
		svgFallbackWidth:  w,
		svgFallbackHeight: h,
	}, nil
}

func (c *PngConverterCommand) Name() string {
	return PngConverterCommandName
}

func (c *PngConverterCommand) Execute(imageData []byte) ([]byte, error) {
	if bytes.HasPrefix(imageData, pngSignature) {
		return imageData, nil
	}
	if isSVGData(imageData) {
		return c.convertSVG(imageData)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return encodePNG(img)
}

func (c *PngConverterCommand) convertSVG(svgData []byte) ([]byte, error) {
	w, h, ok := parseSVGExplicitSize(svgData)
	if !ok {
		w, h = c.svgFallbackWidth, c.svgFallbackHeight
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG has no explicit size and no fallback size is configured")
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	return encodePNG(dst)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isSVGData inspects the first few KB for an <svg tag
func isSVGData(data []byte) bool {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	return bytes.Contains(bytes.ToLower(data[:n]), []byte("<svg"))
}

var (
	svgTagPattern    = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	svgWidthPattern  = regexp.MustCompile(`(?i)\swidth\s*=\s*["']\s*(\d+)`)
	svgHeightPattern = regexp.MustCompile(`(?i)\sheight\s*=\s*["']\s*(\d+)`)
)

// parseSVGExplicitSize reads integer width and height attributes of the root <svg> tag.
// A viewBox alone is not treated as a pixel size.
func parseSVGExplicitSize(data []byte) (int, int, bool) {
	tag := svgTagPattern.Find(data)
	if tag == nil {
		return 0, 0, false
	}
	w, wOk := firstInt(svgWidthPattern, tag)
	h, hOk := firstInt(svgHeightPattern, tag)
	if !wOk || !hOk || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func firstInt(pattern *regexp.Regexp, s []byte) (int, bool) {
	m := pattern.FindSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return v, true
}

func init() {
	mustRegister(PngConverterCommandName, NewPngConverterCommand)
}
