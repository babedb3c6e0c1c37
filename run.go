package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-faster/jx"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/apu"
	"nescore/ines"
)

// runMain runs the rom headless, with the given arguments. Statistics are
// written to stdout. Opened outputs are always finalized, even on error.
func runMain(args Run, stdout io.Writer) (err error) {
	if args.Trace != nil {
		defer args.Trace.Close()
	}

	cfg, err := emu.LoadConfigOrDefault(args.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if mask := cfg.LogMask(); mask != 0 {
		log.EnableDebugModules(mask)
	}
	if args.Unlimited {
		cfg.Emulation.FrameLimit = false
	}

	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}
	if rom.IsNES20() {
		log.ModEmu.WarnZ("NES 2.0 extended header fields are ignored").End()
	}

	nes, err := emu.Load(rom, cfg.APUConfig())
	if err != nil {
		return fmt.Errorf("failed to start emulator: %w", err)
	}
	nes.SetController(0, args.Buttons)
	for _, name := range args.Mute {
		ch, ok := apu.ChannelByName(name)
		if !ok {
			return fmt.Errorf("unknown APU channel %q", name)
		}
		nes.APU.Mute(ch, true)
	}

	if args.Trace != nil {
		nes.CPU.SetTraceOutput(args.Trace, &nes.PPU)
	}

	var sink emu.AudioSink
	if args.WAV != "" {
		if cfg.Audio.Disable {
			log.ModEmu.WarnZ("audio is disabled, no WAV will be recorded").End()
		}
		f, err := os.Create(args.WAV)
		if err != nil {
			return fmt.Errorf("failed to create WAV file: %w", err)
		}
		wavw := emu.NewWAVWriter(f, nes.APU.SampleRate())
		defer func() {
			if cerr := errors.Join(wavw.Close(), f.Close()); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write WAV file: %w", cerr)
			}
		}()
		sink = wavw
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		if err != nil {
			return fmt.Errorf("failed to create cpu profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start cpu profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Fprintln(os.Stderr, "CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emulator := emu.NewEmulator(nes, cfg)
	stats, err := emulator.Run(ctx, args.Frames, sink)
	if err != nil {
		return fmt.Errorf("emulation failed: %w", err)
	}

	if args.Screenshot != "" {
		if err := emu.SaveAsPNG(nes.Screenshot(), args.Screenshot); err != nil {
			return fmt.Errorf("failed to save screenshot: %w", err)
		}
	}

	switch args.Stats {
	case "text":
		stats.Print(stdout)
	case "json":
		var enc jx.Encoder
		enc.SetIdent(2)
		stats.Encode(&enc)
		enc.Write([]byte{'\n'})
		if _, err := enc.WriteTo(stdout); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}
	}
	return nil
}
