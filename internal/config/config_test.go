package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WAGERD_ADDR", "")
	t.Setenv("WAGERD_DB_PATH", "")
	t.Setenv("WAGERD_HOUSE_EDGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.ListenAddr)
	}
	if cfg.DBPath != "wagerd.db" {
		t.Errorf("expected default db path wagerd.db, got %s", cfg.DBPath)
	}
	if cfg.HouseEdge != 0.01 {
		t.Errorf("expected default house edge 0.01, got %v", cfg.HouseEdge)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WAGERD_ADDR", ":9090")
	t.Setenv("WAGERD_DB_PATH", "/tmp/engine.db")
	t.Setenv("WAGERD_REDIS_ADDR", "localhost:6379")
	t.Setenv("WAGERD_REDIS_DB", "3")
	t.Setenv("WAGERD_HOUSE_EDGE", "0.02")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9090" || cfg.DBPath != "/tmp/engine.db" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Errorf("redis overrides not applied: %+v", cfg)
	}
	if cfg.HouseEdge != 0.02 {
		t.Errorf("expected house edge 0.02, got %v", cfg.HouseEdge)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"edge not a number", "WAGERD_HOUSE_EDGE", "abc"},
		{"edge out of range", "WAGERD_HOUSE_EDGE", "1.5"},
		{"negative edge", "WAGERD_HOUSE_EDGE", "-0.1"},
		{"redis db not an integer", "WAGERD_REDIS_DB", "three"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("WAGERD_HOUSE_EDGE", "")
			t.Setenv("WAGERD_REDIS_DB", "")
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
