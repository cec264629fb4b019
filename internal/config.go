package internal

import (
	"fmt"
	"time"
)

// Config carries the engine tunables. Every value has a default, so an
// empty environment yields a working engine.
type Config struct {
	MaxRoomUsers    int           `env:"MAX_ROOM_USERS,default=100"`
	MaxRoomMessages int           `env:"MAX_ROOM_MESSAGES,default=1000"`
	PollInterval    time.Duration `env:"POLL_INTERVAL,default=200ms"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=5s"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	ArchiveLimit      *int          `env:"ARCHIVE_LIMIT"`

	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
}

// CharacterRune validates that the replacement is a single character.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
