package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"karya.dev/internal/assets"
	"karya.dev/internal/i18n"
	"karya.dev/internal/nav"
	"karya.dev/internal/projects"
	"karya.dev/internal/site"
)

// Config holds all application configuration. SiteURL, when set, points
// build at a deployed copy of the site for page shells, partials and the
// catalog.
type Config struct {
	ServerAddr string `env:"PORTFOLIO_ADDR" envDefault:":8080"`
	SiteDir    string `env:"PORTFOLIO_SITE_DIR" envDefault:"site"`
	SiteFile   string `env:"PORTFOLIO_SITE_CONFIG" envDefault:"site.yaml"`
	OutDir     string `env:"PORTFOLIO_OUT_DIR" envDefault:"public"`
	SiteURL    string `env:"PORTFOLIO_SITE_URL"`
	Site       *SiteConfig
}

// Menu close delay bounds, matching the menu's CSS transition
const (
	MinCloseDelayMs = 200
	MaxCloseDelayMs = 260
)

// SiteConfig holds the site layout read from the site file
type SiteConfig struct {
	Pages         []string `yaml:"pages"`
	HeaderPartial string   `yaml:"header_partial"`
	FooterPartial string   `yaml:"footer_partial"`
	CatalogPath   string   `yaml:"catalog_path"`
	ImageBase     string   `yaml:"image_base"`
	CloseDelayMs  int      `yaml:"close_delay_ms"`
	AssetsDir     string   `yaml:"assets_dir"`
}

// DefaultSite returns the layout used when no site file exists
func DefaultSite() *SiteConfig {
	return &SiteConfig{
		Pages:         []string{"index", "about", "work", "skills", "contact"},
		HeaderPartial: "assets/partials/header.html",
		FooterPartial: "assets/partials/footer.html",
		CatalogPath:   "assets/js/data/proyek.json",
		ImageBase:     projects.DefaultImageBase,
		CloseDelayMs:  int(nav.DefaultCloseDelay / time.Millisecond),
		AssetsDir:     "assets",
	}
}

// Load reads the environment and the site file
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	siteCfg, err := LoadSite(cfg.SiteFilePath())
	if err != nil {
		return nil, err
	}
	cfg.Site = siteCfg
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Source returns the fetcher build reads page resources through
func (c *Config) Source() (assets.Fetcher, error) {
	if c.SiteURL == "" {
		return assets.NewFSFetcher(os.DirFS(c.SiteDir)), nil
	}
	return assets.NewHTTPFetcher(c.SiteURL, nil)
}

// SiteFilePath resolves the site file relative to the site directory
func (c *Config) SiteFilePath() string {
	if filepath.IsAbs(c.SiteFile) {
		return c.SiteFile
	}
	return filepath.Join(c.SiteDir, c.SiteFile)
}

// LoadSite reads the site file at path. A missing file yields DefaultSite;
// fields the file leaves out keep their defaults.
func LoadSite(path string) (*SiteConfig, error) {
	siteCfg := DefaultSite()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return siteCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, siteCfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := siteCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return siteCfg, nil
}

// Validate checks page names and the close delay range
func (s *SiteConfig) Validate() error {
	for _, p := range s.Pages {
		if p == "" || strings.ContainsAny(p, `/\.`) {
			return fmt.Errorf("page %q: must be a bare name", p)
		}
		if p == i18n.English {
			return fmt.Errorf("page %q: clashes with the English output directory", p)
		}
	}
	if s.CloseDelayMs < MinCloseDelayMs || s.CloseDelayMs > MaxCloseDelayMs {
		return fmt.Errorf("close_delay_ms %d: out of range %d-%d", s.CloseDelayMs, MinCloseDelayMs, MaxCloseDelayMs)
	}
	return nil
}

// HasPage reports whether name is a configured page
func (s *SiteConfig) HasPage(name string) bool {
	for _, p := range s.Pages {
		if p == name {
			return true
		}
	}
	return false
}

// Settings converts the site file into bootstrapper settings
func (s *SiteConfig) Settings() site.Settings {
	return site.Settings{
		HeaderPartial: s.HeaderPartial,
		FooterPartial: s.FooterPartial,
		CatalogPath:   s.CatalogPath,
		ImageBase:     s.ImageBase,
		CloseDelay:    time.Duration(s.CloseDelayMs) * time.Millisecond,
	}
}
