package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL      time.Duration `yaml:"job_ttl"`
	StatsWindow time.Duration `yaml:"stats_window"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Outline extraction
	DefaultSelected  bool    `yaml:"default_selected"`
	HeadingFontRatio float64 `yaml:"heading_font_ratio"`
	LineYTolerance   float64 `yaml:"line_y_tolerance"`
	TOCMaxLines      int     `yaml:"toc_max_lines"`

	// Context chunking defaults
	DefaultChunkSize    int `yaml:"default_chunk_size"`
	DefaultChunkOverlap int `yaml:"default_chunk_overlap"`
}

func defaults() Config {
	o := outline.DefaultOptions()
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		JobTTL:               time.Hour,
		StatsWindow:          time.Hour,
		PDFFallbackPdftotext: true,
		DefaultSelected:      o.DefaultSelected,
		HeadingFontRatio:     o.FontHeadingRatio,
		LineYTolerance:       o.LineYTolerance,
		TOCMaxLines:          o.TOCMaxLines,
		DefaultChunkSize:     1500,
		DefaultChunkOverlap:  200,
	}
}

// Load reads configuration from the environment.
func Load() Config {
	return fromEnv(defaults())
}

// LoadFile reads a YAML file and then applies environment overrides on top.
func LoadFile(path string) (Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fromEnv(cfg), nil
}

func fromEnv(base Config) Config {
	cfg := Config{
		Port: envOr("PORT", base.Port),

		APIKey: envOr("OUTLINE_API_KEY", base.APIKey),

		WorkerCount:  envInt("WORKER_COUNT", base.WorkerCount),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", base.MaxQueueSize),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", base.MaxUploadBytes),

		JobTTL:      envDuration("JOB_TTL", base.JobTTL),
		StatsWindow: envDuration("STATS_WINDOW", base.StatsWindow),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", base.PDFFallbackPdftotext),

		DefaultSelected:  envBool("DEFAULT_SELECTED", base.DefaultSelected),
		HeadingFontRatio: envFloat("HEADING_FONT_RATIO", base.HeadingFontRatio),
		LineYTolerance:   envFloat("LINE_Y_TOLERANCE", base.LineYTolerance),
		TOCMaxLines:      envInt("TOC_MAX_LINES", base.TOCMaxLines),

		DefaultChunkSize:    envInt("DEFAULT_CHUNK_SIZE", base.DefaultChunkSize),
		DefaultChunkOverlap: envInt("DEFAULT_CHUNK_OVERLAP", base.DefaultChunkOverlap),
	}

	d := defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = d.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = d.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = d.MaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = d.JobTTL
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = d.StatsWindow
	}
	if cfg.HeadingFontRatio <= 1 {
		cfg.HeadingFontRatio = d.HeadingFontRatio
	}
	if cfg.LineYTolerance <= 0 {
		cfg.LineYTolerance = d.LineYTolerance
	}
	if cfg.TOCMaxLines <= 0 {
		cfg.TOCMaxLines = d.TOCMaxLines
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = d.DefaultChunkSize
	}
	if cfg.DefaultChunkOverlap < 0 || cfg.DefaultChunkOverlap >= cfg.DefaultChunkSize {
		cfg.DefaultChunkOverlap = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OUTLINE_API_KEY is required")
	}
	return nil
}

// ParserOptions returns the parser settings carried by the config.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{PDFFallback: c.PDFFallbackPdftotext}
}

// OutlineOptions returns extraction settings that log to log.
func (c Config) OutlineOptions(log *slog.Logger) outline.Options {
	return outline.Options{
		FontHeadingRatio: c.HeadingFontRatio,
		LineYTolerance:   c.LineYTolerance,
		TOCMaxLines:      c.TOCMaxLines,
		DefaultSelected:  c.DefaultSelected,
		Logger:           log,
	}
}

// ChunkerConfig returns the default context chunking settings.
func (c Config) ChunkerConfig() chunker.Config {
	return chunker.Config{
		ChunkSize:    c.DefaultChunkSize,
		ChunkOverlap: c.DefaultChunkOverlap,
		MinChunk:     1,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
