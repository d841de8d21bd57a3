package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/pickbind/internal/app"
)

func TestPickerOptions(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		want    func(t *testing.T, o app.Options)
		wantErr bool
	}{
		{
			name:   "toml config by extension",
			config: "keys.toml",
			want: func(t *testing.T, o app.Options) {
				if o.ConfigTOML != "keys.toml" || o.ConfigJSON != "" {
					t.Errorf("got TOML=%q JSON=%q", o.ConfigTOML, o.ConfigJSON)
				}
			},
		},
		{
			name:   "json config by extension",
			config: "keys.json",
			want: func(t *testing.T, o app.Options) {
				if o.ConfigJSON != "keys.json" || o.ConfigTOML != "" {
					t.Errorf("got TOML=%q JSON=%q", o.ConfigTOML, o.ConfigJSON)
				}
			},
		},
		{
			name:    "unsupported extension",
			config:  "keys.yaml",
			wantErr: true,
		},
		{
			name: "items from args",
			args: []string{"a", "b"},
			want: func(t *testing.T, o app.Options) {
				if len(o.Items) != 2 || o.Items[0] != "a" {
					t.Errorf("Items = %v, want [a b]", o.Items)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := pickerOptions(tt.config, "", "", tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("pickerOptions() error = %v", err)
			}
			tt.want(t, opts)
		})
	}
}

func TestPickerOptionsItemsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	if err := os.WriteFile(path, []byte("one\n\n  two  \nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := pickerOptions("", "", path, []string{"ignored"})
	if err != nil {
		t.Fatalf("pickerOptions() error = %v", err)
	}
	if len(opts.Items) != 3 || opts.Items[1] != "two" {
		t.Errorf("Items = %v, want [one two three]", opts.Items)
	}
}

func TestFormatKeys(t *testing.T) {
	out, err := formatKeys("N", []string{"<c-s>", "<C-S>", "<space>"})
	if err != nil {
		t.Fatalf("formatKeys() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3\n%s", len(lines), out)
	}

	// Equivalent notations land on the same canonical identity.
	if !strings.HasSuffix(lines[0], "n:<C-s>") || !strings.HasSuffix(lines[1], "n:<C-s>") {
		t.Errorf("ctrl notations disagree:\n%s", out)
	}
	if !strings.HasSuffix(lines[2], "n:<Space>") {
		t.Errorf("space line = %q, want suffix n:<Space>", lines[2])
	}
}

func TestFormatKeysInvalid(t *testing.T) {
	if _, err := formatKeys("n", []string{"<C->"}); err == nil {
		t.Error("expected an error for a malformed notation")
	}
}
