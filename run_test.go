package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

// writeRom writes a NROM rom which PRG is filled with NOPs and resets at
// $8000.
func writeRom(t *testing.T) string {
	t.Helper()

	prg := bytes.Repeat([]byte{0xEA}, 0x4000)
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0x80

	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.Write(prg)
	buf.Write(make([]byte, 0x2000))

	path := filepath.Join(t.TempDir(), "nop.nes")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func wavSamples(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("%s: invalid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return len(buf.Data)
}

func TestRunMain(t *testing.T) {
	rom := writeRom(t)
	dir := t.TempDir()

	badcfg := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badcfg, []byte("[audio\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    Run
		wantErr string
	}{
		{
			name:    "unknown channel",
			args:    Run{RomPath: rom, Frames: 1, Mute: []string{"square1", "saw"}},
			wantErr: `unknown APU channel "saw"`,
		},
		{
			name:    "bad config",
			args:    Run{RomPath: rom, Frames: 1, Config: badcfg},
			wantErr: "failed to load configuration",
		},
		{
			name:    "missing rom",
			args:    Run{RomPath: filepath.Join(dir, "missing.nes"), Frames: 1},
			wantErr: "failed to read ROM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := runMain(tt.args, &stdout)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("runMain() error = %v, want %q", err, tt.wantErr)
			}
			if stdout.Len() != 0 {
				t.Errorf("unexpected output on error: %q", stdout.String())
			}
		})
	}
}

func TestRunMainOutputs(t *testing.T) {
	rom := writeRom(t)
	dir := t.TempDir()

	t.Run("text stats and wav", func(t *testing.T) {
		args := Run{
			RomPath:   rom,
			Frames:    2,
			Unlimited: true,
			WAV:       filepath.Join(dir, "ok.wav"),
			Stats:     "text",
		}

		var stdout bytes.Buffer
		if err := runMain(args, &stdout); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout.String(), "frames:       2\n") {
			t.Errorf("stats output:\n%s\nwant 2 frames", stdout.String())
		}
		if n := wavSamples(t, args.WAV); n == 0 {
			t.Errorf("WAV file has no samples")
		}
	})

	t.Run("wav finalized on error", func(t *testing.T) {
		args := Run{
			RomPath:    rom,
			Frames:     2,
			Unlimited:  true,
			WAV:        filepath.Join(dir, "err.wav"),
			Screenshot: filepath.Join(dir, "no", "such", "dir", "shot.png"),
			Stats:      "json",
		}

		var stdout bytes.Buffer
		err := runMain(args, &stdout)
		if err == nil || !strings.Contains(err.Error(), "failed to save screenshot") {
			t.Fatalf("runMain() error = %v, want screenshot error", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("stats written despite error: %q", stdout.String())
		}
		if n := wavSamples(t, args.WAV); n == 0 {
			t.Errorf("WAV file has no samples")
		}
	})
}
