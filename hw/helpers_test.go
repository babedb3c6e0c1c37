package hw

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/hw/hwio"
)

func wantMem8(t *testing.T, cpu *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := cpu.bus.Read8(addr, true); got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}

func wantMem(t *testing.T, cpu *CPU, dl dumpline) {
	t.Helper()

	got := make([]byte, dl.len)
	for i := range got {
		got[i] = cpu.bus.Read8(dl.off+uint16(i), true)
	}
	if want := dl.bytes[:dl.len]; !bytes.Equal(got, want) {
		t.Errorf("mem mismatch at $%04X\ngot:  % X\nwant: % X", dl.off, got, want)
	}
}

var flagByLetter = map[byte]uint8{
	'n': Negative,
	'v': Overflow,
	'b': Break,
	'd': Decimal,
	'i': Interrupt,
	'z': Zero,
	'c': Carry,
}

// runAndCheckState executes ninstrs instructions then checks the CPU state
// against (name, value) pairs. Names are registers (A, X, Y, SP, PC, P), a
// set of lowercase flags prefixed by P ("Pzc": each flag is checked against
// the value) or "mem" followed by a memory dump.
func runAndCheckState(t *testing.T, cpu *CPU, ninstrs int, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	if testing.Verbose() {
		cpu.SetTraceOutput(tbwriter{t}, nil)
		defer cpu.SetTraceOutput(nil, nil)
	}

	for range ninstrs {
		cpu.StepInstruction()
	}

	regs8 := map[string]uint8{"A": cpu.A, "X": cpu.X, "Y": cpu.Y, "SP": cpu.SP}

	for i := 0; i < len(states); i += 2 {
		name, val := states[i].(string), states[i+1]

		if got, ok := regs8[name]; ok {
			if want := val.(uint8); got != want {
				t.Errorf("got %s=$%02X, want $%02X", name, got, want)
			}
			continue
		}

		switch {
		case name == "PC":
			if want := val.(uint16); cpu.PC != want {
				t.Errorf("got PC=$%04X, want $%04X", cpu.PC, want)
			}
		case name == "P":
			if want := P(val.(uint8)); cpu.P != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", uint8(cpu.P), cpu.P, uint8(want), want)
			}
		case len(name) > 1 && name[0] == 'P':
			want := val.(uint8) != 0
			for _, c := range []byte(name[1:]) {
				flag, ok := flagByLetter[c]
				if !ok {
					panic("unknown P bit: " + string(c))
				}
				if got := cpu.P.hasFlag(flag); got != want {
					t.Errorf("got P%c=%t, want %t", c, got, want)
				}
			}
		case name == "mem":
			for _, dl := range loadDump(t, val.(string)) {
				wantMem(t, cpu, dl)
			}
		default:
			panic("unknown state: " + name)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

// dumpline is one line of an hex dump: "0200: 01 02 03".
type dumpline struct {
	off   uint16
	len   uint16 // number of bytes on the line
	bytes []byte // zero padded to a power of 2
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}
		ioff, err := strconv.ParseUint(strings.TrimSpace(off), 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		raw, err := hex.DecodeString(strings.ReplaceAll(octets, " ", ""))
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}

		buf := make([]byte, nextpow2(uint64(len(raw))))
		copy(buf, raw)
		lines = append(lines, dumpline{off: uint16(ioff), len: uint16(len(raw)), bytes: buf})
	}
	if err := scan.Err(); err != nil {
		tb.Fatalf("scan error: %s", err)
	}
	return lines
}

func nextpow2(v uint64) uint64 {
	v--
	v |= v>>1 | v>>2 | v>>4 | v>>8 | v>>16 | v>>32
	return v + 1
}

// flatMem returns a 64KB memory covering the whole CPU address space.
func flatMem() *hwio.Mem {
	mem := hwio.NewMem("flat", 0x10000)
	return &mem
}

// loadCPUWith returns a reset CPU connected to a flat 64KB memory, preloaded
// with a memory dump.
func loadCPUWith(tb testing.TB, dump string) *CPU {
	tb.Helper()

	mem := flatMem()
	for _, dl := range loadDump(tb, dump) {
		copy(mem.Data[dl.off:], dl.bytes[:dl.len])
	}

	cpu := NewCPU(mem)
	cpu.Reset()
	return cpu
}

type tbwriter struct {
	testing.TB
}

func (t tbwriter) Write(p []byte) (int, error) {
	t.TB.Helper()
	t.TB.Log(string(bytes.TrimSpace(p)))
	return len(p), nil
}

func TestLoadDump(t *testing.T) {
	tests := []struct {
		name string
		dump string
		want []dumpline
	}{
		{
			name: "padded",
			dump: `01f0: 0f 0e 0d`,
			want: []dumpline{
				{0x01f0, 3, []byte{0x0f, 0x0e, 0x0d, 0x00}},
			},
		},
		{
			name: "comments",
			dump: `
# zero page
0000: a9 01
  # indented comment
0210: 10 20 30 40 50 60 70 80
`,
			want: []dumpline{
				{0x0000, 2, []byte{0xa9, 0x01}},
				{0x0210, 8, []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loadDump(t, tt.dump)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(dumpline{})); diff != "" {
				t.Errorf("loadDump mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
