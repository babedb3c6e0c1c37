package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu/log"
)

type mode byte

const (
	runMode mode = iota
	romInfosMode
	versionMode
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run a ROM in the headless emulator."`
		RomInfos RomInfos `cmd:"" name:"rom-infos" help:"Show ROM header infos."`
		Version  Version  `cmd:"" help:"Show nescore version."`

		Log logModMask `help:"Enable debug logs for the given modules (see run --help)." placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM to run." type:"existingfile"`

		Frames     int      `help:"${frames_help}" default:"60"`
		Config     string   `help:"TOML configuration file." type:"path"`
		Unlimited  bool     `help:"Run as fast as possible, disable frame pacing."`
		Buttons    uint8    `help:"${buttons_help}" default:"0"`
		Screenshot string   `help:"Save the last frame as PNG." type:"path" placeholder:"FILE"`
		WAV        string   `name:"wav" help:"Record audio output as WAV." type:"path" placeholder:"FILE"`
		Mute       []string `help:"Mute APU channels (square1, square2, triangle, noise, dpcm)." placeholder:"ch0,ch1,..."`
		Stats      string   `help:"Print run statistics (${enum})." enum:"none,text,json" default:"none"`
		Trace      *outfile `help:"Write the CPU execution trace." placeholder:"FILE|stdout|stderr"`
		CPUProfile string   `name:"cpuprofile" help:"Write CPU profile to file." type:"path"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
		JSON    bool   `name:"json" help:"Output JSON."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"frames_help":  "Number of frames to run, 0 runs until interrupted.",
	"buttons_help": "Buttons held on controller 1 for the whole run, as a bitmask (A=1 B=2 Select=4 Start=8 Up=16 Down=32 Left=64 Right=128).",
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("nescore"),
		kong.Description("Headless NES emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")

	switch cmd := ctx.Command(); {
	case strings.HasPrefix(cmd, "rom-infos"):
		cli.mode = romInfosMode
	case cmd == "version":
		cli.mode = versionMode
	default:
		cli.mode = runMode
	}
	return cli
}

// printHelp appends the list of log modules to the help of the run command.
func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if !strings.HasPrefix(ctx.Command(), "run") {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("\nLog modules (--log mod0,mod1,...):\n")
	for _, name := range log.ModuleNames() {
		fmt.Fprintf(&sb, "    %s\n", name)
	}
	sb.WriteString("    all    enable all modules\n")
	sb.WriteString("    no     disable logging, warnings included\n")
	_, err := io.WriteString(ctx.Stdout, sb.String())
	return err
}

// logModMask is the --log flag value.
type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("log modules", &list); err != nil {
		return err
	}

	mask, nolog, err := log.ParseModules(strings.Split(list, ","))
	if err != nil {
		return err
	}
	if nolog {
		log.Disable()
		return nil
	}

	*lm = logModMask(mask)
	log.EnableDebugModules(mask)
	return nil
}

// outfile is a flag value naming an output file. stdout and stderr designate
// the standard streams.
type outfile struct {
	io.Writer
	name string
	f    *os.File // nil for standard streams
}

// Decode implements kong.MapperValue.
func (o *outfile) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("file", &o.name); err != nil {
		return err
	}

	switch o.name {
	case "stdout":
		o.Writer = os.Stdout
	case "stderr":
		o.Writer = os.Stderr
	default:
		f, err := os.Create(o.name)
		if err != nil {
			return err
		}
		o.f, o.Writer = f, f
	}
	return nil
}

func (o *outfile) String() string { return o.name }

func (o *outfile) Close() error {
	if o.f == nil {
		return nil
	}
	return o.f.Close()
}

// checkf exits with an error message if err is not nil.
func checkf(err error, format string, args ...any) {
	if err != nil {
		fatalf("%s: %v", fmt.Sprintf(format, args...), err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nescore: "+format+"\n", args...)
	os.Exit(1)
}
