package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDir(t *testing.T) {
	t.Run("default uses home directory", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "")

		dir, err := BaseDir()
		if err != nil {
			t.Fatalf("BaseDir() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".procsim")
		if dir != expected {
			t.Errorf("BaseDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("PROCSIM_DIR overrides default", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/tmp/procsim-test")

		dir, err := BaseDir()
		if err != nil {
			t.Fatalf("BaseDir() error = %v", err)
		}
		if dir != "/tmp/procsim-test" {
			t.Errorf("BaseDir() = %q, want %q", dir, "/tmp/procsim-test")
		}
	})
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		config  string
		want    func(home string) string
	}{
		{
			name: "default",
			want: func(home string) string { return filepath.Join(home, ".config", "procsim", "config.toml") },
		},
		{
			name:    "PROCSIM_DIR",
			baseDir: "/tmp/ps",
			want:    func(string) string { return "/tmp/ps/config/config.toml" },
		},
		{
			name:    "PROCSIM_CONFIG wins",
			baseDir: "/tmp/ps",
			config:  "/etc/procsim.toml",
			want:    func(string) string { return "/etc/procsim.toml" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBaseDir, tt.baseDir)
			t.Setenv(EnvConfigPath, tt.config)

			got, err := ConfigPath()
			if err != nil {
				t.Fatalf("ConfigPath() error = %v", err)
			}
			home, _ := os.UserHomeDir()
			if want := tt.want(home); got != want {
				t.Errorf("ConfigPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestLogPath(t *testing.T) {
	t.Run("derives from PROCSIM_DIR", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/tmp/ps")
		t.Setenv(EnvLogPath, "")

		got, err := LogPath()
		if err != nil {
			t.Fatalf("LogPath() error = %v", err)
		}
		if got != "/tmp/ps/procsim.log" {
			t.Errorf("LogPath() = %q, want /tmp/ps/procsim.log", got)
		}
	})

	t.Run("PROCSIM_LOG_FILE wins", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/tmp/ps")
		t.Setenv(EnvLogPath, "/var/log/ps.log")

		got, err := LogPath()
		if err != nil {
			t.Fatalf("LogPath() error = %v", err)
		}
		if got != "/var/log/ps.log" {
			t.Errorf("LogPath() = %q, want /var/log/ps.log", got)
		}
	})
}
