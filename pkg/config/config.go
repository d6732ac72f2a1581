// Package config loads the server configuration file and the message of the
// day.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// CommentPrefix marks MOTD lines that are not sent to players.
const CommentPrefix = '#'

// Spawn is where players appear after login.
type Spawn struct {
	X, Y, Z float64
}

// Config holds server configuration.
type Config struct {
	Address              string
	MaxPlayers           int
	MOTDFile             string
	WrongProtocolMessage string
	ServerFullMessage    string
	DropsFile            string
	WorldDB              string
	Seed                 int64
	ViewDistance         int
	LogLevel             string
	Spawn                Spawn
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Address:              ":25565",
		MaxPlayers:           20,
		MOTDFile:             "motd.txt",
		WrongProtocolMessage: "Wrong protocol version",
		ServerFullMessage:    "Server is currently full",
		ViewDistance:         10,
		LogLevel:             "info",
		Spawn:                Spawn{X: 0.5, Y: 5, Z: 0.5},
	}
}

type fileSpawn struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

type fileConfig struct {
	Address              string    `toml:"address"`
	MaxPlayers           int       `toml:"max_players"`
	MOTDFile             string    `toml:"motd_file"`
	WrongProtocolMessage string    `toml:"wrong_protocol_message"`
	ServerFullMessage    string    `toml:"server_full_message"`
	DropsFile            string    `toml:"drops_file"`
	WorldDB              string    `toml:"world_db"`
	Seed                 int64     `toml:"seed"`
	ViewDistance         int       `toml:"view_distance"`
	LogLevel             string    `toml:"log_level"`
	Spawn                fileSpawn `toml:"spawn"`
}

// Load reads a TOML file on top of Default. Keys the file does not define
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load server config: %w", err)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("max_players") {
		if raw.MaxPlayers < 1 {
			return Config{}, fmt.Errorf("max_players must be positive, got %d", raw.MaxPlayers)
		}
		cfg.MaxPlayers = raw.MaxPlayers
	}
	if meta.IsDefined("motd_file") {
		cfg.MOTDFile = strings.TrimSpace(raw.MOTDFile)
	}
	if meta.IsDefined("wrong_protocol_message") {
		cfg.WrongProtocolMessage = raw.WrongProtocolMessage
	}
	if meta.IsDefined("server_full_message") {
		cfg.ServerFullMessage = raw.ServerFullMessage
	}
	if meta.IsDefined("drops_file") {
		cfg.DropsFile = strings.TrimSpace(raw.DropsFile)
	}
	if meta.IsDefined("world_db") {
		cfg.WorldDB = strings.TrimSpace(raw.WorldDB)
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("view_distance") {
		cfg.ViewDistance = raw.ViewDistance
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("spawn", "x") {
		cfg.Spawn.X = raw.Spawn.X
	}
	if meta.IsDefined("spawn", "y") {
		cfg.Spawn.Y = raw.Spawn.Y
	}
	if meta.IsDefined("spawn", "z") {
		cfg.Spawn.Z = raw.Spawn.Z
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// LoadMOTD returns the lines of the MOTD file, skipping comment lines. A
// missing file yields no lines.
func LoadMOTD(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if len(line) > 0 && line[0] == CommentPrefix {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
