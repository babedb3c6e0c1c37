package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestModuleByName(t *testing.T) {
	for _, name := range ModuleNames() {
		mod, ok := ModuleByName(name)
		if !ok {
			t.Fatalf("ModuleByName(%q) not found", name)
		}
		if mod.String() != name {
			t.Errorf("mod.String() = %q, want %q", mod.String(), name)
		}
	}

	if _, ok := ModuleByName("<error>"); ok {
		t.Errorf("ModuleByName(<error>) should not be found")
	}
	if _, ok := ModuleByName("foobar"); ok {
		t.Errorf("ModuleByName(foobar) should not be found")
	}
}

func TestNilEntryZ(t *testing.T) {
	// A disabled entry must be usable as-is.
	var z *EntryZ
	z.Hex8("a", 1).Hex16("b", 2).String("c", "d").Bool("e", true).End()
}

func TestEntryZFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	mod := NewModule("logtest")
	EnableDebugModules(mod.Mask())
	t.Cleanup(func() { DisableDebugModules(mod.Mask()) })

	mod.DebugZ("hello").Hex8("opcode", 0x4c).Hex16("pc", 0xc000).Bool("taken", true).End()

	got := buf.String()
	for _, want := range []string{"hello", "opcode=4c", "pc=c000", "taken=true", "_mod=logtest"} {
		if !strings.Contains(got, want) {
			t.Errorf("log output %q does not contain %q", got, want)
		}
	}
}

func TestFieldValue(t *testing.T) {
	var z EntryZ
	z.Hex8("h8", 0x0a).
		Hex16("h16", 0xbeef).
		Uint16("u", 42).
		Int("i", -3).
		Bool("b", false).
		String("s", "str").
		Float64("f", 0.5).
		Duration("d", 1500*time.Millisecond).
		Error("e", nil).
		Error("e2", errors.New("boom"))

	var got []string
	for _, f := range z.zfbuf[:z.zfidx] {
		got = append(got, f.Key+"="+f.Value())
	}
	want := []string{"h8=0a", "h16=beef", "u=42", "i=-3", "b=false", "s=str", "f=0.5", "d=1.5s", "e=<nil>", "e2=boom"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("field values mismatch (-want +got):\n%s", diff)
	}
}

type pcContext uint16

func (pc pcContext) AddLogContext(z *EntryZ) { z.Hex16("PC", uint16(pc)) }

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	ctx := pcContext(0x8123)
	AddContext(ctx)
	ModEmu.WarnZ("with context").Hex16("addr", 0x2002).End()
	RemoveContext(ctx)
	ModEmu.WarnZ("without context").End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "PC=8123") || !strings.Contains(lines[0], "addr=2002") {
		t.Errorf("line 0 = %q, want PC and addr fields", lines[0])
	}
	if strings.Contains(lines[1], "PC=") {
		t.Errorf("line 1 = %q, context should have been removed", lines[1])
	}
}

func TestModuleString(t *testing.T) {
	if got := Module(0).String(); got != "<error>" {
		t.Errorf("Module(0) = %q", got)
	}
	if got := ModSound.String(); got != "sound" {
		t.Errorf("ModSound = %q", got)
	}
}
