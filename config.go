package main

import (
	"go.bug.st/serial.v1"

	"github.com/0x007E/rcc/bridge"
	"github.com/0x007E/rcc/colorcube"
)

var DefaultConfig = Config{
	Cube:    colorcube.DefaultConfig,
	Watcher: colorcube.DefaultWatcherConfig,
	Serial:  *bridge.DefaultSerialConfig,
	Store:   DefaultStoreConfig,
	Log:     DefaultLogConfig,
}

type Config struct {
	Device  string // serial port path, empty for discovery
	Cube    colorcube.Config
	Watcher colorcube.WatcherConfig
	Serial  serial.Mode
	Store   StoreConfig
	Log     LogConfig
}

type StoreConfig struct {
	Path string // empty disables persistence entirely
}

var DefaultStoreConfig = StoreConfig{
	Path: "rcc.sqlite",
}

type LogConfig struct {
	Level string
	JSON  bool
}

var DefaultLogConfig = LogConfig{
	Level: "info",
}
