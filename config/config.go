/*
 * config.go, part of gothermo.
 *
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package config loads the settings of gothermo programs (solver tolerances, the
//system options and logging) from a YAML, JSON or TOML file and from GOTHERMO_
//environment variables, and builds the loggers used by the library.
package config

import (
	"fmt"
	"os"
	"strings"

	thermo "github.com/rmera/gothermo"
	"github.com/rmera/gothermo/equil"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

//LogSettings configures the logger. If File is empty, the log goes to stderr.
//Otherwise, the file is rotated when it reaches MaxSizeMB.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxsizemb"`
	MaxBackups int    `mapstructure:"maxbackups"`
	MaxAgeDays int    `mapstructure:"maxagedays"`
	Compress   bool   `mapstructure:"compress"`
}

//SolverSettings mirrors equil.Settings.
type SolverSettings struct {
	Tol          float64 `mapstructure:"tol"`
	InnerTol     float64 `mapstructure:"innertol"`
	MaxIter      int     `mapstructure:"maxiter"`
	InnerMaxIter int     `mapstructure:"innermaxiter"`
	FlashTol     float64 `mapstructure:"flashtol"`
	FlashMaxIter int     `mapstructure:"flashmaxiter"`
	StabTol      float64 `mapstructure:"stabtol"`
	StabMaxIter  int     `mapstructure:"stabmaxiter"`
}

//SystemSettings mirrors thermo.Options.
type SystemSettings struct {
	Capacity      int     `mapstructure:"capacity"`
	MaxSubstances int     `mapstructure:"maxsubstances"`
	RefT          float64 `mapstructure:"reft"`
	RefP          float64 `mapstructure:"refp"`
}

//Settings contains all the configurable values.
type Settings struct {
	Log     LogSettings    `mapstructure:"log"`
	Solver  SolverSettings `mapstructure:"solver"`
	Mixture SystemSettings `mapstructure:"system"`
}

func setDefaults(v *viper.Viper) {
	e := equil.DefaultSettings()
	o := thermo.DefaultOptions()
	defs := map[string]any{
		"log.level":            "info",
		"log.json":             false,
		"log.file":             "",
		"log.maxsizemb":        50,
		"log.maxbackups":       3,
		"log.maxagedays":       30,
		"log.compress":         true,
		"solver.tol":           e.Tol,
		"solver.innertol":      e.InnerTol,
		"solver.maxiter":       e.MaxIter,
		"solver.innermaxiter":  e.InnerMaxIter,
		"solver.flashtol":      e.FlashTol,
		"solver.flashmaxiter":  e.FlashMaxIter,
		"solver.stabtol":       e.StabTol,
		"solver.stabmaxiter":   e.StabMaxIter,
		"system.capacity":      o.Capacity,
		"system.maxsubstances": o.MaxSubstances,
		"system.reft":          o.RefT,
		"system.refp":          o.RefP,
	}
	for k, val := range defs {
		v.SetDefault(k, val)
	}
}

//Load reads the settings from the file path, which can be empty, to use only the defaults
//and the environment. Environment variables override the file, with names like
//GOTHERMO_SOLVER_MAXITER for solver.maxiter.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GOTHERMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}
	S := new(Settings)
	if err := v.Unmarshal(S); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := S.check(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return S, nil
}

func (S *Settings) check() error {
	s := S.Solver
	if s.Tol <= 0 || s.InnerTol <= 0 || s.FlashTol <= 0 || s.StabTol <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	if s.MaxIter <= 0 || s.InnerMaxIter <= 0 || s.FlashMaxIter <= 0 || s.StabMaxIter <= 0 {
		return fmt.Errorf("iteration caps must be positive")
	}
	if S.Mixture.RefT <= 0 || S.Mixture.RefP <= 0 {
		return fmt.Errorf("invalid reference state T=%g P=%g", S.Mixture.RefT, S.Mixture.RefP)
	}
	return nil
}

//NewLogger builds a zap logger from the settings.
func NewLogger(l LogSettings) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if l.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("config.NewLogger: %w", err)
		}
	}
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if l.JSON {
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		enc = zapcore.NewConsoleEncoder(ec)
	}
	var w zapcore.WriteSyncer
	if l.File == "" {
		w = zapcore.Lock(os.Stderr)
	} else {
		w = zapcore.AddSync(&lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAge:     l.MaxAgeDays,
			Compress:   l.Compress,
		})
	}
	return zap.New(zapcore.NewCore(enc, w, level), zap.AddCaller()), nil
}

//Equil returns the equilibrium solver settings, which will log to logger.
//A nil logger gives a no-op one.
func (S *Settings) Equil(logger *zap.Logger) *equil.Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := S.Solver
	return &equil.Settings{Tol: s.Tol, InnerTol: s.InnerTol, MaxIter: s.MaxIter, InnerMaxIter: s.InnerMaxIter,
		FlashTol: s.FlashTol, FlashMaxIter: s.FlashMaxIter, StabTol: s.StabTol, StabMaxIter: s.StabMaxIter,
		Logger: logger}
}

//System returns the options for thermo.NewSystem.
func (S *Settings) System(logger *zap.Logger) *thermo.Options {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &thermo.Options{Capacity: S.Mixture.Capacity, MaxSubstances: S.Mixture.MaxSubstances,
		RefT: S.Mixture.RefT, RefP: S.Mixture.RefP, Logger: logger}
}

