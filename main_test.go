package main

import (
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// TestValidateOptions verifies the engine and rate checks behind every
// command.
func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		rate    float64
		wantErr string
	}{
		{"defaults", "", 0, ""},
		{"local engine", string(vocab.EngineLocal), 1.5, ""},
		{"hosted engine", string(vocab.EngineHosted), vocab.RateMin, ""},
		{"rate at ceiling", "", vocab.RateMax, ""},
		{"unknown engine", "espeak", 0, "unknown speech engine"},
		{"rate too slow", "", 0.1, "rate must be between"},
		{"rate too fast", "", 3.0, "rate must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Overrides shadow whatever config file the host may have.
			viper.Set("engine", tt.engine)
			viper.Set("rate", tt.rate)
			t.Cleanup(func() {
				viper.Set("engine", "")
				viper.Set("rate", 0)
			})

			err := validateOptions(rootCmd)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateOptions = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateOptions = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestValidateOptionsWidthFallback verifies width settles on 80 columns
// when no flag is given and stdout is not a terminal, as under go test.
func TestValidateOptionsWidthFallback(t *testing.T) {
	viper.Set("width", 0)
	t.Cleanup(func() { viper.Set("width", 0) })

	if err := validateOptions(rootCmd); err != nil {
		t.Fatalf("validateOptions = %v", err)
	}
	if width != 80 {
		t.Errorf("width = %d, want 80", width)
	}
}
