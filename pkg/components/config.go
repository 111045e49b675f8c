package components

import (
	"github.com/BurntSushi/toml"
)

// Config mirrors vm-config.toml:
//
//	[motevm]
//	components = ["jvm"]
type Config struct {
	Motevm VMConfig `toml:"motevm"`
}

type VMConfig struct {
	Components []string `toml:"components"`
}

func LoadConfig(path string) (Config, error) {
	var conf Config
	_, err := toml.DecodeFile(path, &conf)
	return conf, err
}
