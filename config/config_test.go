package config

import "testing"

func TestDefaultDisablesAutoGC(t *testing.T) {
	cfg := Default()
	if cfg.AutoGCThreshold != 0 {
		t.Fatalf("expected zero auto-GC threshold, got %d", cfg.AutoGCThreshold)
	}
	if cfg.DebugPoisoning {
		t.Fatalf("expected debug poisoning disabled by default")
	}
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ARENAGC_AUTO_GC_THRESHOLD", "64")
	t.Setenv("ARENAGC_AUTO_GC_INTERVAL_SEC", "0.5")
	t.Setenv("ARENAGC_DEBUG_POISON", "true")

	cfg := FromEnv()
	if cfg.AutoGCThreshold != 64 {
		t.Fatalf("expected threshold 64, got %d", cfg.AutoGCThreshold)
	}
	if cfg.AutoGCIntervalSeconds != 0.5 {
		t.Fatalf("expected interval 0.5, got %v", cfg.AutoGCIntervalSeconds)
	}
	if !cfg.DebugPoisoning {
		t.Fatalf("expected debug poisoning enabled")
	}
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("ARENAGC_AUTO_GC_THRESHOLD", "not-a-number")
	cfg := FromEnv()
	if cfg.AutoGCThreshold != 0 {
		t.Fatalf("expected invalid value to be ignored, got %d", cfg.AutoGCThreshold)
	}
}

func TestApplyOptions(t *testing.T) {
	cfg := Apply(Default(), WithAutoGCThreshold(10), WithDebugPoisoning(true))
	if cfg.AutoGCThreshold != 10 {
		t.Fatalf("expected threshold 10, got %d", cfg.AutoGCThreshold)
	}
	if !cfg.DebugPoisoning {
		t.Fatalf("expected debug poisoning enabled")
	}
}
