package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/joho/godotenv"
)

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("OPSBOARD_TEST_INT", "not-a-number")
	if got := getEnvInt("OPSBOARD_TEST_INT", 300); got != 300 {
		t.Errorf("unparsable value should fall back, got %d", got)
	}

	t.Setenv("OPSBOARD_TEST_INT", "42")
	if got := getEnvInt("OPSBOARD_TEST_INT", 300); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("http://localhost:3000, https://dash.example.com ,")
	want := []string{"http://localhost:3000", "https://dash.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnvFileQuoting(t *testing.T) {
	// Feed paths may contain spaces and quotes; godotenv must hand them
	// through intact.
	content := `PARTS_DATA_FILE='/srv/data/parts "march" export.csv'`
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `/srv/data/parts "march" export.csv`
	if env["PARTS_DATA_FILE"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["PARTS_DATA_FILE"])
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PARTS_DATA_FILE", "LISTEN_ADDR", "CACHE_TTL_SECONDS", "FISCAL_START_MONTH", "MIN_RECORD_FIELDS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != "localhost:8080" {
		t.Errorf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.CacheTTL.Minutes() != 5 {
		t.Errorf("expected 5m TTL, got %v", cfg.CacheTTL)
	}
	if cfg.MinRecordFields != 25 {
		t.Errorf("expected 25 minimum fields, got %d", cfg.MinRecordFields)
	}
	if int(cfg.FiscalStartMonth) != 2 {
		t.Errorf("expected February fiscal start, got %v", cfg.FiscalStartMonth)
	}
}

func TestLoadFiscalMonthOutOfRange(t *testing.T) {
	t.Setenv("FISCAL_START_MONTH", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if int(cfg.FiscalStartMonth) != 2 {
		t.Errorf("out-of-range month should fall back to February, got %v", cfg.FiscalStartMonth)
	}
}
