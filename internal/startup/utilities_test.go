package startup

import (
	"testing"
	"time"
)

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue bool
		want         bool
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_BOOL_UNSET",
			defaultValue: true,
			want:         true,
			setEnv:       false,
		},
		{
			name:         "Returns default false when env var not set",
			key:          "TEST_BOOL_UNSET2",
			defaultValue: false,
			want:         false,
			setEnv:       false,
		},
		{
			name:         "Returns true when env var is 'true'",
			key:          "TEST_BOOL_TRUE",
			envValue:     "true",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is 'false'",
			key:          "TEST_BOOL_FALSE",
			envValue:     "false",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns true when env var is '1'",
			key:          "TEST_BOOL_ONE",
			envValue:     "1",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is '0'",
			key:          "TEST_BOOL_ZERO",
			envValue:     "0",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns true when env var is 'T'",
			key:          "TEST_BOOL_T_UPPER",
			envValue:     "T",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is 'FALSE'",
			key:          "TEST_BOOL_FALSE_UPPER",
			envValue:     "FALSE",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is invalid",
			key:          "TEST_BOOL_INVALID",
			envValue:     "not-a-bool",
			defaultValue: true,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty string",
			key:          "TEST_BOOL_EMPTY",
			envValue:     "",
			defaultValue: false,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is 'yes'",
			key:          "TEST_BOOL_YES",
			envValue:     "yes",
			defaultValue: false,
			want:         false,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue time.Duration
		want         time.Duration
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_DUR_UNSET",
			defaultValue: 15 * time.Minute,
			want:         15 * time.Minute,
			setEnv:       false,
		},
		{
			name:         "Parses Go duration syntax",
			key:          "TEST_DUR_GO",
			envValue:     "2m30s",
			defaultValue: time.Minute,
			want:         2*time.Minute + 30*time.Second,
			setEnv:       true,
		},
		{
			name:         "Treats bare numbers as seconds",
			key:          "TEST_DUR_SECONDS",
			envValue:     "900",
			defaultValue: time.Minute,
			want:         15 * time.Minute,
			setEnv:       true,
		},
		{
			name:         "Returns default for invalid value",
			key:          "TEST_DUR_INVALID",
			envValue:     "soon",
			defaultValue: 10 * time.Second,
			want:         10 * time.Second,
			setEnv:       true,
		},
		{
			name:         "Returns default for empty value",
			key:          "TEST_DUR_EMPTY",
			envValue:     "",
			defaultValue: 10 * time.Second,
			want:         10 * time.Second,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration(%q, %v) = %v, want %v (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue []string
		want         []string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_LIST_UNSET",
			defaultValue: []string{"*"},
			want:         []string{"*"},
			setEnv:       false,
		},
		{
			name:         "Splits on commas",
			key:          "TEST_LIST_SPLIT",
			envValue:     "https://a.example,https://b.example",
			defaultValue: []string{"*"},
			want:         []string{"https://a.example", "https://b.example"},
			setEnv:       true,
		},
		{
			name:         "Trims whitespace and drops empty items",
			key:          "TEST_LIST_TRIM",
			envValue:     " https://a.example , ,https://b.example,",
			defaultValue: []string{"*"},
			want:         []string{"https://a.example", "https://b.example"},
			setEnv:       true,
		},
		{
			name:         "Returns default when only separators given",
			key:          "TEST_LIST_SEPARATORS",
			envValue:     " , , ",
			defaultValue: []string{"*"},
			want:         []string{"*"},
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvList(tt.key, tt.defaultValue)
			if len(got) != len(tt.want) {
				t.Fatalf("getEnvList(%q) = %v, want %v", tt.key, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("getEnvList(%q)[%d] = %q, want %q", tt.key, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetEnvPrefix(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     string
		setEnv   bool
	}{
		{
			name:   "Returns default when env var not set",
			want:   "/video-hls",
			setEnv: false,
		},
		{
			name:     "Strips trailing slash",
			envValue: "/streams/video/",
			want:     "/streams/video",
			setEnv:   true,
		},
		{
			name:     "Leaves clean prefix alone",
			envValue: "/cdn/video",
			want:     "/cdn/video",
			setEnv:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("TEST_PREFIX_VAR", tt.envValue)
			}

			got := getEnvPrefix("TEST_PREFIX_VAR", "/video-hls")
			if got != tt.want {
				t.Errorf("getEnvPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildInfoStruct(t *testing.T) {
	info := BuildInfo{
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildTime: "2026-01-01",
		GoVersion: "go1.25.0",
		OS:        "linux",
		Arch:      "amd64",
	}

	if info.Version != "1.0.0" {
		t.Errorf("Expected Version='1.0.0', got %q", info.Version)
	}

	if info.Commit != "abc123" {
		t.Errorf("Expected Commit='abc123', got %q", info.Commit)
	}

	if info.OS != "linux" {
		t.Errorf("Expected OS='linux', got %q", info.OS)
	}

	if info.Arch != "amd64" {
		t.Errorf("Expected Arch='amd64', got %q", info.Arch)
	}
}

func BenchmarkGetEnv(b *testing.B) {
	b.Setenv("BENCH_TEST_VAR", "test-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnv("BENCH_TEST_VAR", "default")
	}
}

func BenchmarkGetEnvBool(b *testing.B) {
	b.Setenv("BENCH_TEST_BOOL", "true")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnvBool("BENCH_TEST_BOOL", false)
	}
}
