// Command tcpu is the tcpu16 emulator host: it loads a machine config,
// boots a bytecode image and any attached disk images, and drives the
// CPU against a terminal frontend.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/tcpu16/core"
	"github.com/intuitionamiga/tcpu16/host"
)

const frameInterval = 16 * time.Millisecond

func main() {
	var headless bool

	root := &cobra.Command{
		Use:   "tcpu <config.yaml>",
		Short: "Run a tcpu16 machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], headless)
		},
	}
	root.Flags().BoolVar(&headless, "headless", false, "run without a terminal frontend (no raw mode, no screen output)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool) error {
	cfg, err := host.LoadConfig(configPath)
	if err != nil {
		return err
	}

	program, err := host.LoadProgram(cfg.Program)
	if err != nil {
		return err
	}

	emu := core.New()

	for id, path := range map[core.DiskID]string{core.Disk0: cfg.Disk0, core.Disk1: cfg.Disk1} {
		if path == "" {
			continue
		}
		storage, err := host.OpenDiskImage(path)
		if err != nil {
			return err
		}
		emu.AttachDiskStorage(id, storage)
		defer func(id core.DiskID, storage core.DiskStorage) {
			if err := host.SyncDisk(storage); err != nil {
				log.Printf("tcpu: %v", err)
			}
		}(id, storage)
	}
	// Reset() auto-boots from disk0 if present; the explicit program load
	// that follows always wins, the same way a cartridge overrides a
	// floppy's boot sector.
	emu.Reset()
	emu.LoadProgram(program)

	var term *host.Terminal
	if !headless {
		term = host.NewTerminal(emu)
		if err := term.Start(); err != nil {
			return err
		}
		defer term.Stop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for emu.IsRunning() {
		select {
		case <-sig:
			return nil
		case <-ticker.C:
			emu.Run(cfg.CyclesPerFrame)
			if term != nil {
				fmt.Print("\x1b[H\x1b[2J")
				fmt.Print(term.Render())
			}
		}
	}
	return nil
}
