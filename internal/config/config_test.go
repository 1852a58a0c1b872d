package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karya.dev/internal/assets"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORTFOLIO_SITE_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, dir, cfg.SiteDir)
	assert.Equal(t, "public", cfg.OutDir)
	assert.Equal(t, DefaultSite(), cfg.Site)
}

func TestLoadFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portfolio.yaml", `
pages: [index, work]
catalog_path: data/catalog.json
close_delay_ms: 260
`)
	t.Setenv("PORTFOLIO_ADDR", ":9090")
	t.Setenv("PORTFOLIO_SITE_DIR", dir)
	t.Setenv("PORTFOLIO_SITE_CONFIG", "portfolio.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, []string{"index", "work"}, cfg.Site.Pages)
	assert.Equal(t, "data/catalog.json", cfg.Site.CatalogPath)
	assert.Equal(t, "assets/partials/header.html", cfg.Site.HeaderPartial, "unset fields keep defaults")
	assert.True(t, cfg.Site.HasPage("work"))
	assert.False(t, cfg.Site.HasPage("about"))

	settings := cfg.Site.Settings()
	assert.Equal(t, 260*time.Millisecond, settings.CloseDelay)
	assert.Equal(t, "data/catalog.json", settings.CatalogPath)
}

func TestLoadSiteErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadSite(writeFile(t, dir, "bad.yaml", "pages: [index"))
		assert.Error(t, err)
	})

	t.Run("page with path", func(t *testing.T) {
		_, err := LoadSite(writeFile(t, dir, "path.yaml", "pages: [../secret]"))
		assert.ErrorContains(t, err, "bare name")
	})

	t.Run("page named like the language dir", func(t *testing.T) {
		_, err := LoadSite(writeFile(t, dir, "en.yaml", "pages: [en]"))
		assert.Error(t, err)
	})

	for _, delay := range []string{"0", "150", "261", "5000"} {
		t.Run("delay "+delay, func(t *testing.T) {
			_, err := LoadSite(writeFile(t, dir, "delay.yaml", "close_delay_ms: "+delay))
			assert.ErrorContains(t, err, "out of range")
		})
	}

	t.Run("delay bounds accepted", func(t *testing.T) {
		for _, delay := range []string{"200", "260"} {
			_, err := LoadSite(writeFile(t, dir, "ok.yaml", "close_delay_ms: "+delay))
			assert.NoError(t, err, delay)
		}
	})
}

func TestParseEnvError(t *testing.T) {
	var target struct {
		Port int `env:"PORTFOLIO_TEST_PORT"`
	}
	t.Setenv("PORTFOLIO_TEST_PORT", "not-a-number")
	assert.Error(t, ParseEnv(&target))
}

func TestSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html></html>")

	cfg := &Config{SiteDir: dir}
	src, err := cfg.Source()
	require.NoError(t, err)
	assert.IsType(t, &assets.FSFetcher{}, src)
	data, err := src.Fetch(context.Background(), "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	t.Setenv("PORTFOLIO_SITE_DIR", dir)
	t.Setenv("PORTFOLIO_SITE_URL", "https://example.com/site")
	cfg, err = Load()
	require.NoError(t, err)
	src, err = cfg.Source()
	require.NoError(t, err)
	assert.IsType(t, &assets.HTTPFetcher{}, src)

	cfg.SiteURL = "http://[::1"
	_, err = cfg.Source()
	assert.Error(t, err)
}
