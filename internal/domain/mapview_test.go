package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripstamp-microservice/internal/domain"
)

func TestTilePresetFor(t *testing.T) {
	t.Run("known styles map to their presets", func(t *testing.T) {
		assert.Contains(t, domain.TilePresetFor(domain.StyleStandard).URL, "openstreetmap")
		assert.Contains(t, domain.TilePresetFor(domain.StyleVintage).URL, "stamen_watercolor")
		assert.Contains(t, domain.TilePresetFor(domain.StyleNeon).URL, "dark_all")
	})

	t.Run("unknown style falls back to standard", func(t *testing.T) {
		preset := domain.TilePresetFor("sepia")
		assert.Equal(t, domain.StyleStandard, preset.Name)
	})
}

func TestComputeBounds(t *testing.T) {
	t.Run("no coordinates", func(t *testing.T) {
		assert.Nil(t, domain.ComputeBounds(nil))
	})

	t.Run("single coordinate collapses to a point", func(t *testing.T) {
		b := domain.ComputeBounds([]domain.Coordinate{{Name: "Paris", Lat: 48.8566, Lng: 2.3522}})
		require.NotNil(t, b)
		assert.Equal(t, b.MinLat, b.MaxLat)
		assert.Equal(t, b.MinLng, b.MaxLng)
	})

	t.Run("multiple coordinates", func(t *testing.T) {
		b := domain.ComputeBounds([]domain.Coordinate{
			{Name: "Paris", Lat: 48.8566, Lng: 2.3522},
			{Name: "Rome", Lat: 41.9028, Lng: 12.4964},
			{Name: "Lisbon", Lat: 38.7223, Lng: -9.1393},
		})
		require.NotNil(t, b)
		assert.Equal(t, 38.7223, b.MinLat)
		assert.Equal(t, 48.8566, b.MaxLat)
		assert.Equal(t, -9.1393, b.MinLng)
		assert.Equal(t, 12.4964, b.MaxLng)
	})
}

func TestComputeRenderPlan(t *testing.T) {
	base := domain.DefaultStyleConfig()

	t.Run("coords change forces full rebuild", func(t *testing.T) {
		plan := domain.ComputeRenderPlan(base, base, true)
		assert.True(t, plan.RebuildAll)
		assert.True(t, plan.Refit)
	})

	t.Run("style change touches tiles only", func(t *testing.T) {
		next := base
		next.Style = domain.StyleNeon
		plan := domain.ComputeRenderPlan(base, next, false)
		assert.Equal(t, domain.RenderPlan{Tiles: true}, plan)
	})

	t.Run("color and weight touch path only", func(t *testing.T) {
		next := base
		next.Color = "#ff0000"
		next.Weight = 8
		plan := domain.ComputeRenderPlan(base, next, false)
		assert.Equal(t, domain.RenderPlan{Path: true}, plan)
	})

	t.Run("icon change touches markers only", func(t *testing.T) {
		next := base
		next.CustomIconURL = "data:image/png;base64,AAAA"
		plan := domain.ComputeRenderPlan(base, next, false)
		assert.Equal(t, domain.RenderPlan{Markers: true}, plan)
	})

	t.Run("height change requests refit", func(t *testing.T) {
		next := base
		next.MapHeight = domain.MapHeightLarge
		plan := domain.ComputeRenderPlan(base, next, false)
		assert.Equal(t, domain.RenderPlan{Refit: true}, plan)
	})

	t.Run("no change yields empty plan", func(t *testing.T) {
		plan := domain.ComputeRenderPlan(base, base, false)
		assert.Equal(t, domain.RenderPlan{}, plan)
	})
}
