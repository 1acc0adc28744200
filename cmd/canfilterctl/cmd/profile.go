package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Profile is the TOML shape of a saved device profile, so a user doesn't
// have to pass --interface or --serial on every invocation.
// VID/PID serve as a fallback device address when Interface is empty,
// for adapters with no bound netdev to resolve.
type Profile struct {
	Interface string `toml:"interface"`
	VID       int64  `toml:"vid"`
	PID       int64  `toml:"pid"`
	Serial    string `toml:"serial"`
}

func loadProfile(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return p, nil
}
