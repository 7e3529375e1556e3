package config

import "testing"

func TestGetEnvBool(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"", false, false},
		{"", true, true},
		{"maybe", true, true},
	}
	for _, c := range cases {
		t.Setenv("LOCMATCH_TEST_BOOL", c.value)
		if got := GetEnvBool("LOCMATCH_TEST_BOOL", c.def); got != c.want {
			t.Errorf("GetEnvBool(%q, default %v) = %v, want %v", c.value, c.def, got, c.want)
		}
	}
}

func TestLoadLogPretty(t *testing.T) {
	t.Setenv("LOG_PRETTY", "false")
	if cfg := Load(); cfg.LogPretty {
		t.Error("LogPretty = true with LOG_PRETTY=false")
	}

	t.Setenv("LOG_PRETTY", "")
	if cfg := Load(); !cfg.LogPretty {
		t.Error("LogPretty = false, want true by default")
	}
}
