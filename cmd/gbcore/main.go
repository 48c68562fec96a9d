// Command gbcore is a minimal host harness: it loads a ROM (optionally
// packed in a .7z archive), runs the emulator core for a fixed number
// of frames, and reports the cartridge it found. Windowing, audio
// output and FPS metering are explicitly out of the core's scope
// (SPEC_FULL.md §1) and are not provided here.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/urfave/cli"

	"github.com/arcovane/gbcore/internal/gameboy"
	"github.com/arcovane/gbcore/pkg/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "run a Game Boy / Game Boy Color / Super Game Boy ROM headlessly"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to a .gb/.gbc ROM, or a .7z archive containing one"},
		cli.StringFlag{Name: "target", Value: "auto", Usage: "hardware target: auto, dmg, cgb, sgb"},
		cli.IntFlag{Name: "frames", Value: 60, Usage: "number of frames to run before exiting"},
		cli.BoolFlag{Name: "debug", Usage: "panic on invalid or unimplemented opcodes"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gbcore:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := log.New()

	romPath := c.String("rom")
	if romPath == "" {
		return cli.NewExitError("gbcore: --rom is required", 2)
	}

	rom, err := loadROM(romPath)
	if err != nil {
		return err
	}

	target, err := parseTarget(c.String("target"))
	if err != nil {
		return err
	}

	opts := []gameboy.Opt{gameboy.WithTarget(target), gameboy.WithLogger(logger)}
	if c.Bool("debug") {
		opts = append(opts, gameboy.Debug())
	}

	machine, err := gameboy.New(rom, opts...)
	if err != nil {
		return fmt.Errorf("gbcore: %w", err)
	}

	frames := c.Int("frames")
	for i := 0; i < frames; i++ {
		machine.Frame()
	}
	logger.Infof("ran %d frames", frames)
	return nil
}

func parseTarget(s string) (gameboy.Target, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return gameboy.TargetAuto, nil
	case "dmg":
		return gameboy.TargetDMG, nil
	case "cgb":
		return gameboy.TargetCGB, nil
	case "sgb":
		return gameboy.TargetSGB, nil
	}
	return gameboy.TargetAuto, fmt.Errorf("gbcore: unknown target %q", s)
}

// loadROM reads a ROM from disk directly, or extracts the first
// .gb/.gbc member of a .7z archive.
func loadROM(path string) ([]byte, error) {
	if strings.ToLower(filepath.Ext(path)) != ".7z" {
		return os.ReadFile(path)
	}

	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("gbcore: opening archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".gb" && ext != ".gbc" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("gbcore: reading %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("gbcore: no .gb/.gbc file found in %s", path)
}
