package summary

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 800
	Height = 600

	topCountries = 5
	marginX      = 10
	firstLineY   = 10
	lineHeight   = 30
	timeLayout   = "2006-01-02 15:04:05 UTC"
)

type countrySource interface {
	CountCountries(ctx context.Context) (int64, error)
	TopCountriesByGDP(ctx context.Context, limit int) ([]*domain.Country, error)
}

type Renderer struct {
	countries countrySource
	store     domain.SummaryStore
	newFace   func() font.Face
	logger    *zap.Logger
	now       func() time.Time
}

// NewRenderer loads the font at fontPath, falling back to the built-in
// bitmap face when the path is empty or the file cannot be used.
func NewRenderer(countries countrySource, store domain.SummaryStore, fontPath string, fontSize float64, logger *zap.Logger) *Renderer {
	logger = logger.Named("SummaryRenderer")
	return &Renderer{
		countries: countries,
		store:     store,
		newFace:   loadFace(fontPath, fontSize, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// loadFace returns a constructor for the summary face. opentype faces keep
// per-face glyph buffers, so every render gets its own.
func loadFace(fontPath string, fontSize float64, logger *zap.Logger) func() font.Face {
	fallback := func() font.Face { return basicfont.Face7x13 }
	if fontPath == "" {
		return fallback
	}
	if fontSize <= 0 {
		fontSize = 20
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		logger.Warn("Font unavailable, using default face", zap.String("path", fontPath), zap.Error(err))
		return fallback
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		logger.Warn("Font could not be parsed, using default face", zap.String("path", fontPath), zap.Error(err))
		return fallback
	}
	options := &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}
	checkFace, err := opentype.NewFace(parsed, options)
	if err != nil {
		logger.Warn("Font face could not be created, using default face", zap.String("path", fontPath), zap.Error(err))
		return fallback
	}
	_ = checkFace.Close()

	return func() font.Face {
		face, err := opentype.NewFace(parsed, options)
		if err != nil {
			logger.Warn("Font face could not be created, using default face", zap.String("path", fontPath), zap.Error(err))
			return basicfont.Face7x13
		}
		return face
	}
}

// Render draws the current store state and replaces the stored image.
func (r *Renderer) Render(ctx context.Context) error {
	total, err := r.countries.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	top, err := r.countries.TopCountriesByGDP(ctx, topCountries)
	if err != nil {
		return fmt.Errorf("failed to load top countries: %w", err)
	}

	lines := []string{
		fmt.Sprintf("Total Countries: %d", total),
		fmt.Sprintf("Last Refresh: %s", r.now().UTC().Format(timeLayout)),
		fmt.Sprintf("Top %d Countries by Estimated GDP:", topCountries),
	}
	for _, country := range top {
		lines = append(lines, fmt.Sprintf("%s: %.2f", country.Name, *country.EstimatedGDP))
	}

	face := r.newFace()
	defer face.Close()

	encoded, err := r.draw(face, lines)
	if err != nil {
		return err
	}

	if err := r.store.Save(ctx, encoded); err != nil {
		return fmt.Errorf("failed to store summary image: %w", err)
	}

	r.logger.Info("Summary image rendered", zap.Int64("total_countries", total), zap.Int("top", len(top)), zap.Int("bytes", len(encoded)))
	return nil
}

func (r *Renderer) draw(face font.Face, lines []string) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	// Lines are positioned by their top edge, the drawer wants the baseline.
	ascent := face.Metrics().Ascent
	y := firstLineY
	for i, line := range lines {
		drawer.Dot = fixed.Point26_6{X: fixed.I(marginX), Y: fixed.I(y) + ascent}
		drawer.DrawString(line)
		y += lineHeight
		if i == 1 {
			// header is separated from the first two lines by an extra gap
			y += 10
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}
