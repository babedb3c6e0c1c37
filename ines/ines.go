// package ines implements a Reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// A Rom is an iNES file, split into its sections.
type Rom struct {
	header
	Trainer []byte // 512 bytes, or empty.
	PRG     []byte // multiple of 16KB
	CHR     []byte // multiple of 8KB, empty for CHR RAM
}

var (
	ErrInvalidMagic = errors.New("invalid magic number")
	ErrTruncated    = errors.New("truncated rom")
)

const (
	Magic       = "NES\x1a"
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 16 << 10
	chrBankSize = 8 << 10
)

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom. The rom sections alias the data read
// from r.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}

	rest := buf[headerSize:]
	section := func(name string, n int) ([]byte, error) {
		if len(rest) < n {
			return nil, fmt.Errorf("incomplete %s section: %w", name, ErrTruncated)
		}
		s := rest[:n:n]
		rest = rest[n:]
		return s, nil
	}

	if rom.HasTrainer() {
		if rom.Trainer, err = section("TRAINER", trainerSize); err != nil {
			return 0, err
		}
	}
	if rom.PRG, err = section("PRG", rom.PRGBanks()*prgBankSize); err != nil {
		return 0, err
	}
	if rom.CHR, err = section("CHR", rom.CHRBanks()*chrBankSize); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

// Bytes encodes the rom back into the iNES format.
func (rom *Rom) Bytes() []byte {
	buf := make([]byte, 0, headerSize+len(rom.Trainer)+len(rom.PRG)+len(rom.CHR))
	buf = append(buf, rom.raw[:]...)
	buf = append(buf, rom.Trainer...)
	buf = append(buf, rom.PRG...)
	return append(buf, rom.CHR...)
}

type header struct {
	raw [headerSize]byte
}

func (hdr *header) decode(p []byte) error {
	switch {
	case len(p) < headerSize:
		return fmt.Errorf("too small, needs %d bytes: %w", headerSize, ErrTruncated)
	case string(p[:4]) != Magic:
		return ErrInvalidMagic
	}
	copy(hdr.raw[:], p)
	return nil
}

// PRGBanks returns the number of 16KB PRG ROM banks.
func (hdr *header) PRGBanks() int { return int(hdr.raw[4]) }

// CHRBanks returns the number of 8KB CHR ROM banks, 0 means the cartridge
// uses CHR RAM.
func (hdr *header) CHRBanks() int { return int(hdr.raw[5]) }

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the mapper number, lower nibble comes from byte 6, upper
// nibble from byte 7.
func (hdr *header) Mapper() uint16 {
	return uint16(hdr.raw[7]&0xF0 | hdr.raw[6]>>4)
}

// IsNES20 reports whether the header is in the NES 2.0 format.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mirroring returns the nametable mirroring hardwired on the cartridge.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}

// PrintInfos writes a human readable summary of the rom header.
func (rom *Rom) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "PRG ROM:   %d x 16KB\n", rom.PRGBanks())
	if rom.CHRBanks() == 0 {
		fmt.Fprintf(w, "CHR RAM:   8KB\n")
	} else {
		fmt.Fprintf(w, "CHR ROM:   %d x 8KB\n", rom.CHRBanks())
	}
	fmt.Fprintf(w, "Mapper:    %d\n", rom.Mapper())
	fmt.Fprintf(w, "Mirroring: %s\n", rom.Mirroring())
	fmt.Fprintf(w, "Trainer:   %t\n", rom.HasTrainer())
	fmt.Fprintf(w, "Battery:   %t\n", rom.HasPersistent())
	fmt.Fprintf(w, "NES 2.0:   %t\n", rom.IsNES20())
}
