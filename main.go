package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rkjdid/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/0x007E/rcc/bridge"
	"github.com/0x007E/rcc/colorcube"
	"github.com/0x007E/rcc/nvram"
)

var (
	conn       *bridge.SerialConnection
	rootConfig *Config
)

var (
	device   = flag.String("dev", "", "path to serial port, if empty it will be searched automatically")
	rootPath = flag.String("root", "", "path to rcc's main directory (defaults to executable path)")
	cfgPath  = flag.String("config", "", "path to config (defaults to <root>/config.toml)")
	verbose  = flag.Bool("v", false, "higher verbosity")
	version  = flag.Bool("version", false, "print version & exit")
)

func init() {
	flag.Parse()

	// print version & exit
	if *version {
		fmt.Printf("rcc %s\n", Version)
		os.Exit(0)
	}

	if *rootPath == "" {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "couldn't get path to executable: %s\n", err)
			os.Exit(1)
		}
		*rootPath = filepath.Dir(exe)
	}
	if err := os.MkdirAll(*rootPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "couldn't mkdir \"%s\": %s\n", *rootPath, err)
		os.Exit(1)
	}

	if *cfgPath == "" {
		*cfgPath = filepath.Join(*rootPath, "config.toml")
	}

	err := util.ReadTomlFile(&rootConfig, *cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "error reading config \"%s\": %s\n", *cfgPath, err)
			os.Exit(1)
		}
		rootConfig = &DefaultConfig
		err = util.WriteTomlFile(rootConfig, *cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating config \"%s\": %s\n", *cfgPath, err)
			os.Exit(1)
		}
	}

	setupLogging(rootConfig.Log, *verbose)
	log.Info().Str("config", *cfgPath).Msg("using config file")

	if *device != "" {
		rootConfig.Device = *device
	}
	if rootConfig.Device != "" {
		port, mode, err := bridge.OpenPortName(rootConfig.Device, &rootConfig.Serial)
		if err != nil {
			log.Fatal().Err(err).Str("port", rootConfig.Device).Msg("error opening serial port")
		}
		conn = bridge.NewSerial(port, mode, rootConfig.Device)
		conn.Start()
	}
}

func main() {
	b, err := bridge.New(conn)
	if err != nil {
		log.Fatal().Err(err).Msg("no response from bridge")
	}
	conn = b.Conn
	log.Info().Str("port", conn.Path()).Msg("connected to bridge")

	var store colorcube.Store
	var dbStore *nvram.Store
	if rootConfig.Store.Path != "" {
		path := rootConfig.Store.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(*rootPath, path)
		}
		dbStore, err = nvram.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("error opening record store")
		}
		store = dbStore
	}

	cube, err := colorcube.New(b.Hardware(store), &rootConfig.Cube)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating cube")
	}
	if err := cube.Boot(); err != nil {
		log.Fatal().Err(err).Msg("boot failed")
	}

	log.Info().
		Str("rate", fmt.Sprint(rootConfig.Watcher.BatteryPollRate)).
		Msg("starting battery watcher")
	watcher := colorcube.NewWatcher(cube.Battery(), &rootConfig.Watcher)
	watcher.WatchBattery()

	runErr := make(chan error, 1)
	go func() {
		runErr <- cube.Run()
	}()

	trap := make(chan os.Signal, 1)
	signal.Notify(trap, os.Interrupt)

	var restart bool
	cleanExit := make(chan struct{})
	go func() {
		select {
		case <-trap:
			fmt.Println()
			log.Info().Msg("quit received...")
			cube.Stop()
			// a power-down wait blocks on the wake byte; releasing the
			// port is the only thing that unblocks it
			conn.Close()
			<-runErr
		case err := <-runErr:
			switch {
			case err == nil:
			case errors.Is(err, colorcube.ErrShutdown):
				// no resuming mid-execution: restart the whole process
				log.Info().Msg("woke from power-down, restarting")
				restart = true
			default:
				log.Error().Err(err).Msg("cube stopped")
			}
			conn.Close()
		}
		watcher.Stop()
		if dbStore != nil {
			dbStore.Close()
		}
		close(cleanExit)
	}()
	select {
	case <-time.After(time.Second * 10):
		log.Panic().Msg("no clean exit after 10sec, please report panic log to https://github.com/0x007E/rcc/issues")
	case <-cleanExit:
	}

	if restart {
		restartProcess()
	}
}

// restartProcess replaces this run with a fresh one, the process-level
// equivalent of the firmware's software reset after wake.
func restartProcess() {
	exe, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't get path to executable")
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		log.Fatal().Err(err).Msg("restart failed")
	}
	os.Exit(0)
}

func setupLogging(cfg LogConfig, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.JSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	level := cfg.Level
	if verbose {
		level = "debug"
	}
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
