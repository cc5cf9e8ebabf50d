package summary

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

type stubCountries struct {
	mu       sync.Mutex
	total    int64
	top      []*domain.Country
	err      error
	gotLimit int
}

func (s *stubCountries) CountCountries(ctx context.Context) (int64, error) {
	return s.total, s.err
}

func (s *stubCountries) TopCountriesByGDP(ctx context.Context, limit int) ([]*domain.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotLimit = limit
	return s.top, s.err
}

func gdp(v float64) *float64 {
	return &v
}

func TestRenderer_RenderStoresDecodablePNG(t *testing.T) {
	countries := &stubCountries{
		total: 3,
		top: []*domain.Country{
			{Name: "Alpha", EstimatedGDP: gdp(3000)},
			{Name: "Beta", EstimatedGDP: gdp(2000.5)},
		},
	}
	store := NewMemoryStore()
	renderer := NewRenderer(countries, store, "", 0, zap.NewNop())
	renderer.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, renderer.Render(context.Background()))
	assert.Equal(t, 5, countries.gotLimit)

	data, err := store.Load(context.Background())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderer_RenderOverwritesPreviousImage(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), []byte("stale")))

	renderer := NewRenderer(&stubCountries{}, store, "", 0, zap.NewNop())
	require.NoError(t, renderer.Render(context.Background()))

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, []byte("stale"), data)
}

func TestRenderer_RenderPropagatesStoreErrors(t *testing.T) {
	countries := &stubCountries{err: errors.New("db down")}
	store := NewMemoryStore()
	renderer := NewRenderer(countries, store, "", 0, zap.NewNop())

	require.Error(t, renderer.Render(context.Background()))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)
}

func TestLoadFace_FallsBackToBasicFont(t *testing.T) {
	assert.Equal(t, basicfont.Face7x13, loadFace("", 20, zap.NewNop())())
	assert.Equal(t, basicfont.Face7x13, loadFace(filepath.Join(t.TempDir(), "missing.ttf"), 20, zap.NewNop())())

	garbage := filepath.Join(t.TempDir(), "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0o644))
	assert.Equal(t, basicfont.Face7x13, loadFace(garbage, 20, zap.NewNop())())
}

func writeGoRegular(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	return path
}

func TestLoadFace_BuildsSeparateOpenTypeFaces(t *testing.T) {
	newFace := loadFace(writeGoRegular(t), 18, zap.NewNop())

	first := newFace()
	second := newFace()
	defer first.Close()
	defer second.Close()

	assert.NotEqual(t, basicfont.Face7x13, first)
	assert.NotSame(t, first, second)
}

func TestRenderer_ConcurrentRendersWithOpenTypeFont(t *testing.T) {
	countries := &stubCountries{
		total: 2,
		top: []*domain.Country{
			{Name: "Alpha", EstimatedGDP: gdp(3000)},
			{Name: "Beta", EstimatedGDP: gdp(2000.5)},
		},
	}
	store := NewMemoryStore()
	renderer := NewRenderer(countries, store, writeGoRegular(t), 18, zap.NewNop())

	const workers = 8
	errs := make(chan error, workers*10)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				errs <- renderer.Render(context.Background())
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(filepath.Join(t.TempDir(), "cache", "summary.png"))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	require.NoError(t, store.Save(ctx, []byte("first")))
	require.NoError(t, store.Save(ctx, []byte("second")))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	original := []byte("png")
	require.NoError(t, store.Save(ctx, original))
	original[0] = 'x'

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}
