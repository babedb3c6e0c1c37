package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/go-faster/jx"

	"nescore/hw/mappers"
	"nescore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		romInfos(cli.RomInfos)
	case versionMode:
		printVersion()
	case runMode:
		if err := runMain(cli.Run, os.Stdout); err != nil {
			fatalf("%v", err)
		}
	}
}

func romInfos(args RomInfos) {
	rom, err := ines.Open(args.RomPath)
	checkf(err, "failed to read ROM")

	// The mapper name is only known for supported mappers.
	var name string
	cart, err := mappers.New(rom)
	if err == nil {
		name = cart.MapperName()
	}

	if !args.JSON {
		rom.PrintInfos(os.Stdout)
		if name != "" {
			fmt.Printf("Supported: yes (%s)\n", name)
		} else {
			fmt.Printf("Supported: no\n")
		}
		return
	}

	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("prg_banks", func(e *jx.Encoder) { e.Int(rom.PRGBanks()) })
		e.Field("chr_banks", func(e *jx.Encoder) { e.Int(rom.CHRBanks()) })
		e.Field("chr_ram", func(e *jx.Encoder) { e.Bool(rom.CHRBanks() == 0) })
		e.Field("mapper", func(e *jx.Encoder) { e.UInt16(rom.Mapper()) })
		e.Field("supported", func(e *jx.Encoder) { e.Bool(name != "") })
		if name != "" {
			e.Field("mapper_name", func(e *jx.Encoder) { e.Str(name) })
		}
		e.Field("mirroring", func(e *jx.Encoder) { e.Str(rom.Mirroring().String()) })
		e.Field("trainer", func(e *jx.Encoder) { e.Bool(rom.HasTrainer()) })
		e.Field("battery", func(e *jx.Encoder) { e.Bool(rom.HasPersistent()) })
		e.Field("nes20", func(e *jx.Encoder) { e.Bool(rom.IsNES20()) })
	})
	e.Write([]byte{'\n'})
	_, err = e.WriteTo(os.Stdout)
	checkf(err, "failed to write ROM infos")
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("nescore", version)
}
