package emu

import (
	"errors"
	"io/fs"
	"math/bits"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"nescore/emu/log"
	"nescore/hw/apu"
)

type Config struct {
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`
	Log       LogConfig       `toml:"log"`
}

type AudioConfig struct {
	SampleRate int    `toml:"sample_rate"`
	Resampler  string `toml:"resampler"`
	RingSize   int    `toml:"ring_size"`
	Disable    bool   `toml:"disable"`
}

type EmulationConfig struct {
	// FrameLimit paces emulation at the NTSC frame rate.
	FrameLimit bool `toml:"frame_limit"`
}

type LogConfig struct {
	// Modules lists the modules for which debug logging is enabled.
	Modules []string `toml:"modules"`
}

// Accepted range for the output sample rate.
const (
	minSampleRate = 8000
	maxSampleRate = 192000
)

var resamplers = []string{apu.ResamplerNearest, apu.ResamplerBlip}

// DefaultConfig returns the configuration used when no configuration file
// is provided.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: apu.DefaultSampleRate,
			Resampler:  apu.ResamplerNearest,
			RingSize:   apu.DefaultRingSize,
		},
		Emulation: EmulationConfig{
			FrameLimit: true,
		},
	}
}

// LoadConfigOrDefault loads the configuration from the TOML file at path.
// Values missing from the file keep their default. A missing file isn't an
// error, the default configuration is returned.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.InfoZ("no config file, using defaults").String("path", path).End()
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").String("key", key.String()).End()
	}

	cfg.Check()
	return cfg, nil
}

// SaveConfig writes cfg as TOML into the file at path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}

// Check replaces invalid values with valid ones. A warning is logged for
// each fixed value.
func (cfg *Config) Check() {
	acfg := &cfg.Audio

	if acfg.SampleRate < minSampleRate || acfg.SampleRate > maxSampleRate {
		log.ModEmu.WarnZ("invalid sample rate, fallback to default").
			Int("sample_rate", acfg.SampleRate).
			Int("default", apu.DefaultSampleRate).
			End()
		acfg.SampleRate = apu.DefaultSampleRate
	}

	switch {
	case acfg.Resampler == "":
		acfg.Resampler = apu.ResamplerNearest
	case !slices.Contains(resamplers, acfg.Resampler):
		log.ModEmu.WarnZ("invalid resampler, fallback to default").
			String("resampler", acfg.Resampler).
			String("default", apu.ResamplerNearest).
			End()
		acfg.Resampler = apu.ResamplerNearest
	}

	switch {
	case acfg.RingSize <= 0:
		log.ModEmu.WarnZ("invalid ring size, fallback to default").
			Int("ring_size", acfg.RingSize).
			Int("default", apu.DefaultRingSize).
			End()
		acfg.RingSize = apu.DefaultRingSize
	case acfg.RingSize&(acfg.RingSize-1) != 0:
		size := 1 << bits.Len(uint(acfg.RingSize))
		log.ModEmu.WarnZ("ring size isn't a power of two, rounded up").
			Int("ring_size", acfg.RingSize).
			Int("rounded", size).
			End()
		acfg.RingSize = size
	}

	modules := cfg.Log.Modules[:0]
	for _, name := range cfg.Log.Modules {
		if _, _, err := log.ParseModules([]string{name}); err != nil || name == "no" {
			log.ModEmu.WarnZ("unknown log module, ignored").String("module", name).End()
			continue
		}
		modules = append(modules, name)
	}
	cfg.Log.Modules = modules
}

// APUConfig returns the APU configuration.
func (cfg *Config) APUConfig() apu.Config {
	return apu.Config{
		SampleRate: cfg.Audio.SampleRate,
		RingSize:   cfg.Audio.RingSize,
		Resampler:  cfg.Audio.Resampler,
	}
}

// LogMask returns the mask of the modules for which debug logging is enabled.
func (cfg *Config) LogMask() log.ModuleMask {
	mask, _, _ := log.ParseModules(cfg.Log.Modules)
	return mask
}
