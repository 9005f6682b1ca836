// config/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config loads the user-tunable settings for the globe: zoom
// limits, picking and drag behavior, label thresholds and logging. Values
// come from built-in defaults, an optional JSON file and QUTESCOOP_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmaddox93/qutescoop/util"

	"github.com/spf13/viper"
)

const FileName = "qutescoop.json"

type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	LogDir   string `mapstructure:"logDir"`
	// Maximum size of the parsed-sector cache, in MB.
	CacheLimitMB int `mapstructure:"cacheLimitMB"`

	Globe Globe `mapstructure:"globe"`
}

// Globe holds the camera, interaction and labeling parameters.
type Globe struct {
	// Zoom is the half-height of the viewport in globe radii, so smaller
	// values are closer to the surface.
	MinZoom     float64 `mapstructure:"minZoom"`
	MaxZoom     float64 `mapstructure:"maxZoom"`
	DefaultZoom float64 `mapstructure:"defaultZoom"`

	// Radius in pixels used by picking when the caller passes 0.
	PickTolerance float64 `mapstructure:"pickTolerance"`
	// Scale applied to the surface motion under the cursor while rotating.
	DragSensitivity float64 `mapstructure:"dragSensitivity"`
	// Zoom factor per wheel notch; < 1 zooms in when scrolling up.
	WheelZoomFactor float64 `mapstructure:"wheelZoomFactor"`
	// Factor used by ZoomIn/ZoomOut and double clicks.
	ZoomStepFactor float64 `mapstructure:"zoomStepFactor"`
	// Fraction of the viewport moved by one ScrollBy step.
	ScrollStep float64 `mapstructure:"scrollStep"`

	ShutdownDuration time.Duration `mapstructure:"shutdownDuration"`

	LabelZoom LabelThresholds `mapstructure:"labelZoom"`

	ShowInactiveAirports bool `mapstructure:"showInactiveAirports"`
	DisplayAllSectors    bool `mapstructure:"displayAllSectors"`
	// Inactive airports, if shown, are only drawn at or below this zoom.
	InactiveAirportDotZoom float64 `mapstructure:"inactiveAirportDotZoom"`

	// Metrics of the fixed-width label font, in pixels.
	FontWidth  float64 `mapstructure:"fontWidth"`
	FontHeight float64 `mapstructure:"fontHeight"`
}

// LabelThresholds gives, per entity category, the zoom at or below which
// its labels are considered for layout.
type LabelThresholds struct {
	Pilot           float64 `mapstructure:"pilot"`
	Controller      float64 `mapstructure:"controller"`
	Airport         float64 `mapstructure:"airport"`
	InactiveAirport float64 `mapstructure:"inactiveAirport"`
	Fix             float64 `mapstructure:"fix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logDir", "")
	v.SetDefault("cacheLimitMB", 64)

	v.SetDefault("globe.minZoom", 0.002)
	v.SetDefault("globe.maxZoom", 4.0)
	v.SetDefault("globe.defaultZoom", 2.0)
	v.SetDefault("globe.pickTolerance", 8.0)
	v.SetDefault("globe.dragSensitivity", 1.0)
	v.SetDefault("globe.wheelZoomFactor", 0.9)
	v.SetDefault("globe.zoomStepFactor", 0.6)
	v.SetDefault("globe.scrollStep", 0.1)
	v.SetDefault("globe.shutdownDuration", "1500ms")

	v.SetDefault("globe.labelZoom.pilot", 0.8)
	v.SetDefault("globe.labelZoom.controller", 1.5)
	v.SetDefault("globe.labelZoom.airport", 1.0)
	v.SetDefault("globe.labelZoom.inactiveAirport", 0.25)
	v.SetDefault("globe.labelZoom.fix", 0.1)

	v.SetDefault("globe.showInactiveAirports", false)
	v.SetDefault("globe.inactiveAirportDotZoom", 0.5)
	v.SetDefault("globe.displayAllSectors", false)

	v.SetDefault("globe.fontWidth", 7.0)
	v.SetDefault("globe.fontHeight", 13.0)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")
	v.SetEnvPrefix("QUTESCOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration with any environment
// overrides applied.
func Default() Config {
	c, err := decode(newViper())
	if err != nil {
		// Only malformed environment overrides can get here.
		fmt.Fprintln(os.Stderr, err)
	}
	return c
}

// Load reads the configuration. If path is empty, qutescoop.json is looked
// for in the user's config directory and the current directory and it is
// fine if there is none; an explicitly-given path must exist.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "QuteScoop"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	c, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return c, nil
}

// Validate checks the settings for consistency, reporting every problem
// found.
func (c Config) Validate() error {
	var e util.ErrorLogger
	e.Push("globe")

	g := c.Globe
	if g.MinZoom <= 0 {
		e.ErrorString("minZoom %g must be positive", g.MinZoom)
	}
	if g.MaxZoom < g.MinZoom {
		e.ErrorString("maxZoom %g is less than minZoom %g", g.MaxZoom, g.MinZoom)
	}
	if g.DefaultZoom < g.MinZoom || g.DefaultZoom > g.MaxZoom {
		e.ErrorString("defaultZoom %g not in [%g, %g]", g.DefaultZoom, g.MinZoom, g.MaxZoom)
	}
	if g.PickTolerance < 0 {
		e.ErrorString("pickTolerance %g must not be negative", g.PickTolerance)
	}
	if g.DragSensitivity <= 0 {
		e.ErrorString("dragSensitivity %g must be positive", g.DragSensitivity)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"wheelZoomFactor", g.WheelZoomFactor}, {"zoomStepFactor", g.ZoomStepFactor}} {
		if f.v <= 0 || f.v >= 1 {
			e.ErrorString("%s %g must be in (0, 1)", f.name, f.v)
		}
	}
	if g.InactiveAirportDotZoom < g.LabelZoom.InactiveAirport {
		e.ErrorString("inactiveAirportDotZoom %g is less than the inactive airport label zoom %g",
			g.InactiveAirportDotZoom, g.LabelZoom.InactiveAirport)
	}
	if g.ShutdownDuration < 0 {
		e.ErrorString("shutdownDuration %s must not be negative", g.ShutdownDuration)
	}
	if g.FontWidth <= 0 || g.FontHeight <= 0 {
		e.ErrorString("font metrics %gx%g must be positive", g.FontWidth, g.FontHeight)
	}

	e.Pop()
	return e.Err()
}
