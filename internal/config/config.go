// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config handles the configuration of the intcode command: an
// optional TOML file, overridden by command line flags.
package config

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the top level configuration.
type Config struct {
	Log LogConfig `toml:"log"`
	VM  VMConfig  `toml:"vm"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Development selects a human friendly console output instead of JSON.
	Development bool `toml:"development"`
}

// VMConfig configures the VMs started by the command.
type VMConfig struct {
	// Trace logs every executed instruction at debug level.
	Trace bool `toml:"trace"`
	// MaxMemory is the memory limit of each VM in cells.
	MaxMemory int `toml:"max_memory"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "warn", Development: true},
		VM:  VMConfig{MaxMemory: vm.DefaultMaxMemory},
	}
}

// Load reads a configuration file. Settings missing from the file keep their
// default value. Unknown settings are an error.
func Load(fileName string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(fileName, &c)
	if err != nil {
		return c, errors.Wrapf(err, "%s", fileName)
	}
	if err = check(md); err != nil {
		return c, errors.Wrapf(err, "%s", fileName)
	}
	return c, c.Validate()
}

// Decode reads a configuration from r.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return c, err
	}
	if err = check(md); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func check(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		s := make([]string, len(keys))
		for n, k := range keys {
			s[n] = k.String()
		}
		return errors.Errorf("unknown settings: %s", strings.Join(s, ", "))
	}
	return nil
}

// Encode writes c to w in TOML format.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.VM.MaxMemory <= 0 {
		return errors.Errorf("vm.max_memory: invalid value %d", c.VM.MaxMemory)
	}
	return nil
}

// Logger builds a logger from the log configuration.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// VMOptions returns the VM options matching the configuration.
func (c Config) VMOptions() []vm.Option {
	return []vm.Option{
		vm.Trace(c.VM.Trace),
		vm.MaxMemory(c.VM.MaxMemory),
	}
}
