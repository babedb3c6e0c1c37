package log

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Module is the emulator subsystem a log entry belongs to.
type Module uint

// ModuleMask is a set of modules, module n being bit n.
type ModuleMask uint64

const ModuleMaskAll = ^ModuleMask(0)

const (
	ModEmu Module = iota + 1
	ModCPU
	ModBus
	ModPPU
	ModDMA
	ModInput
	ModSound
)

// index 0 is never a valid module.
var modNames = []string{"<error>", "emu", "cpu", "bus", "ppu", "dma", "input", "sound"}

var (
	debugMask ModuleMask
	disabled  bool
)

// NewModule registers a new module. It must be called during package
// initialization.
func NewModule(name string) Module {
	modNames = append(modNames, name)
	return Module(len(modNames) - 1)
}

func ModuleByName(name string) (Module, bool) {
	for i := 1; i < len(modNames); i++ {
		if modNames[i] == name {
			return Module(i), true
		}
	}
	return 0, false
}

// ParseModules returns the mask of the named modules, "all" standing for every
// module. "no" requests logging to be turned off, it can't be combined with
// other names.
func ParseModules(names []string) (mask ModuleMask, nolog bool, err error) {
	for _, name := range names {
		switch name {
		case "all":
			mask = ModuleMaskAll
		case "no":
			nolog = true
		default:
			mod, ok := ModuleByName(name)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}
	if nolog && mask != 0 {
		return 0, false, errors.New(`"no" can't be combined with other log modules`)
	}
	return mask, nolog, nil
}

// ModuleNames returns the names of all registered modules.
func ModuleNames() []string {
	return append([]string(nil), modNames[1:]...)
}

func (mod Module) String() string {
	if mod == 0 || int(mod) >= len(modNames) {
		return modNames[0]
	}
	return modNames[mod]
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

// EnableDebugModules enables debug and info entries for the modules in mask.
// Warnings and errors are always emitted.
func EnableDebugModules(mask ModuleMask) {
	debugMask |= mask
	logrus.SetLevel(logrus.DebugLevel)
}

func DisableDebugModules(mask ModuleMask) {
	debugMask &^= mask
}

// Disable turns off logging, for all modules and levels.
func Disable() {
	disabled = true
	logrus.SetOutput(io.Discard)
}

// SetOutput sets the destination of all log entries.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func (mod Module) Enabled(lvl Level) bool {
	switch {
	case disabled:
		return false
	case lvl <= WarnLevel:
		return true
	}
	return debugMask&mod.Mask() != 0
}

func (mod Module) entry(lvl Level, msg string) *EntryZ {
	if !mod.Enabled(lvl) {
		return nil
	}
	z := NewEntryZ()
	z.mod, z.lvl, z.msg = mod, lvl, msg
	return z
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.entry(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.entry(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.entry(WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *EntryZ { return mod.entry(ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *EntryZ { return mod.entry(FatalLevel, msg) }
func (mod Module) PanicZ(msg string) *EntryZ { return mod.entry(PanicLevel, msg) }
