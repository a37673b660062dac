// Package main implements the famicore NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"famicore/internal/app"
	"famicore/internal/version"
)

func main() {
	var (
		romFile     = flag.String("rom", "", "path to an iNES ROM file")
		configFile  = flag.String("config", "", "path to a configuration file")
		nogui       = flag.Bool("nogui", false, "run headless, no window")
		frames      = flag.Int("frames", 0, "headless frame budget (0 = unlimited)")
		traceFile   = flag.String("trace", "", "write a nestest-format trace to this file (- for stdout)")
		traceLimit  = flag.Int("trace-limit", 0, "stop tracing after N instructions (0 = unlimited)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "usage: famicore -rom <file.nes> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}

	application, err := app.New(configPath)
	if err != nil {
		log.Fatalf("creating application: %v", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	// CLI flags override the config file.
	config := application.Config()
	if *nogui {
		config.Video.Backend = "headless"
	}
	if *frames > 0 {
		config.Video.Frames = *frames
	}
	if *traceFile != "" {
		config.Debug.TraceFile = *traceFile
		config.Debug.TraceLimit = *traceLimit
	}

	if err := application.LoadROM(*romFile); err != nil {
		log.Fatalf("%v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("emulation stopped: %v", err)
	}
}
