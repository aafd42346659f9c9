package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "OUTLINE_API_KEY", "WORKER_COUNT", "MAX_QUEUE_SIZE", "DEFAULT_SELECTED", "HEADING_FONT_RATIO", "LINE_Y_TOLERANCE", "TOC_MAX_LINES", "JOB_TTL", "DEFAULT_CHUNK_SIZE", "DEFAULT_CHUNK_OVERLAP"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool defaults %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.HeadingFontRatio != 1.15 || cfg.LineYTolerance != 5 || cfg.TOCMaxLines != 100 {
		t.Errorf("unexpected outline defaults %+v", cfg)
	}
	if !cfg.DefaultSelected {
		t.Error("expected sections selected by default")
	}
	if cc := cfg.ChunkerConfig(); cc.ChunkSize != 1500 || cc.ChunkOverlap != 200 {
		t.Errorf("unexpected chunk defaults %+v", cc)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OUTLINE_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("JOB_TTL", "10m")
	t.Setenv("DEFAULT_SELECTED", "false")
	t.Setenv("HEADING_FONT_RATIO", "1.3")
	t.Setenv("TOC_MAX_LINES", "40")

	cfg := Load()
	if cfg.Port != "9000" || cfg.APIKey != "secret" || cfg.WorkerCount != 2 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.JobTTL != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %s", cfg.JobTTL)
	}
	if cfg.DefaultSelected {
		t.Error("expected DEFAULT_SELECTED=false to apply")
	}
	if cfg.HeadingFontRatio != 1.3 || cfg.TOCMaxLines != 40 {
		t.Errorf("outline overrides not applied: %+v", cfg)
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("HEADING_FONT_RATIO", "0.5")
	t.Setenv("LINE_Y_TOLERANCE", "NaN")
	t.Setenv("JOB_TTL", "not-a-duration")
	t.Setenv("DEFAULT_CHUNK_SIZE", "100")
	t.Setenv("DEFAULT_CHUNK_OVERLAP", "100")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected worker count reset to 4, got %d", cfg.WorkerCount)
	}
	if cfg.HeadingFontRatio != 1.15 {
		t.Errorf("expected ratio reset to 1.15, got %v", cfg.HeadingFontRatio)
	}
	if cfg.LineYTolerance != 5 {
		t.Errorf("expected tolerance 5, got %v", cfg.LineYTolerance)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.JobTTL)
	}
	if cfg.DefaultChunkOverlap != 0 {
		t.Errorf("expected overlap >= chunk size to reset to 0, got %d", cfg.DefaultChunkOverlap)
	}
}

func TestLoadFile_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "outline.yaml")
	body := "port: \"7000\"\napi_key: from-file\nworker_count: 8\njob_ttl: 30m\ntoc_max_lines: 60\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORKER_COUNT", "3")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "7000" || cfg.APIKey != "from-file" || cfg.TOCMaxLines != 60 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.JobTTL)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("expected env to override file, got %d", cfg.WorkerCount)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("worker_count: [1, 2"), 0o600)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected missing api key to fail validation")
	}
	if err := (Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestOutlineOptions(t *testing.T) {
	cfg := Config{HeadingFontRatio: 1.4, LineYTolerance: 3, TOCMaxLines: 20, DefaultSelected: true, PDFFallbackPdftotext: true}
	o := cfg.OutlineOptions(nil)
	if o.FontHeadingRatio != 1.4 || o.LineYTolerance != 3 || o.TOCMaxLines != 20 || !o.DefaultSelected {
		t.Errorf("unexpected options %+v", o)
	}
	if !cfg.ParserOptions().PDFFallback {
		t.Error("expected pdf fallback enabled")
	}
}
