// cmd/qutescoop/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// qutescoop loads sector and traffic data, positions the globe camera and
// reports what the globe shows from there: visible traffic, staffed
// sectors, labels and picked objects. It is used for checking data files
// and for exercising the globe without a display.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmaddox93/qutescoop/aviation"
	"github.com/mmaddox93/qutescoop/config"
	"github.com/mmaddox93/qutescoop/globe"
	"github.com/mmaddox93/qutescoop/log"
	"github.com/mmaddox93/qutescoop/math"
	"github.com/mmaddox93/qutescoop/rand"
	"github.com/mmaddox93/qutescoop/util"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

var (
	logLevel    = flag.String("loglevel", "", "logging level: debug, info, warn, error (default from config)")
	logDir      = flag.String("logdir", "", "log file directory")
	configFile  = flag.String("config", "", "configuration file (default: "+config.FileName+" in the user config directory)")
	sectorsFile = flag.String("sectors", "", "GeoJSON file with sector boundaries (may be .zst compressed)")
	trafficFile = flag.String("traffic", "", "VATSIM-format JSON traffic snapshot (may be .zst compressed)")
	synthetic   = flag.Int("synthetic", 0, "generate a synthetic snapshot with this many pilots")
	seed        = flag.Uint64("seed", 0, "random seed for -synthetic (0: time-based)")
	viewSize    = flag.String("size", "1280x800", "viewport size in pixels")
	center      = flag.String("center", "", "view center, e.g. \"50.03, 8.57\" or N50.01.48.000,E008.34.12.000")
	zoom        = flag.Float64("zoom", 0, "zoom (half the viewport height in globe radii; 0: default)")
	pick        = flag.String("pick", "", "screen position \"x,y\" to pick objects at (default: viewport center)")
	pickRadius  = flag.Float64("radius", 0, "pick radius in pixels (0: configured tolerance)")
	displayAll  = flag.Bool("display-all", false, "draw all sectors, not just staffed ones")
	inactive    = flag.Bool("inactive-airports", false, "show airports without traffic or controllers")
	useCache    = flag.Bool("cache", true, "cache parsed sector files")
	shutdown    = flag.Bool("shutdown", false, "run the shutdown animation and report the final camera")
	dump        = flag.Bool("dump", false, "dump the full report rather than a summary")
	saveFile    = flag.String("save", "", "write the traffic in data feed format, zstd-compressed if the name ends in .zst")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}
	if *logDir == "" {
		*logDir = cfg.LogDir
	}

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	lg.Info("starting qutescoop", slog.String("config", *configFile), slog.String("sectors", *sectorsFile),
		slog.String("traffic", *trafficFile))

	if err := run(cfg, lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *useCache && cfg.CacheLimitMB > 0 {
		if err := util.CacheCullObjects(int64(cfg.CacheLimitMB) << 20); err != nil {
			lg.Warnf("culling cache: %v", err)
		}
	}
}

func run(cfg config.Config, lg *log.Logger) error {
	width, height, err := parseSize(*viewSize)
	if err != nil {
		return err
	}

	// Sectors and traffic are independent, so load them concurrently.
	var sectors *aviation.SectorTable
	var snap *aviation.Snapshot
	var eg errgroup.Group
	eg.Go(func() error {
		if *sectorsFile == "" {
			sectors = aviation.NewSectorTable(nil, nil)
			return nil
		}
		var err error
		sectors, err = aviation.LoadSectors(*sectorsFile, *useCache, lg)
		return err
	})
	eg.Go(func() error {
		if *trafficFile == "" {
			return nil
		}
		b, err := util.ReadFile(*trafficFile)
		if err != nil {
			return err
		}
		snap, err = aviation.ParseSnapshot(b, nil, lg)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if *synthetic > 0 {
		var airports map[string]*aviation.Airport
		if snap != nil {
			airports = snap.Airports
		} else {
			airports = defaultAirports()
		}
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		lg.Info("generating synthetic traffic", slog.Int("pilots", *synthetic), slog.Uint64("seed", s))
		snap = aviation.SyntheticSnapshot(rand.Make(s), *synthetic, airports, sectors)
	}

	if *saveFile != "" {
		if err := saveSnapshot(*saveFile, snap); err != nil {
			return err
		}
		lg.Info("saved traffic", slog.String("path", *saveFile))
	}

	gcfg := cfg.Globe
	if *displayAll {
		gcfg.DisplayAllSectors = true
	}
	if *inactive {
		gcfg.ShowInactiveAirports = true
	}

	g := globe.NewGlobe(gcfg, sectors, width, height, lg)
	g.SetSnapshot(snap)

	if *center != "" {
		p, err := math.ParseLatLong([]byte(*center))
		if err != nil {
			return err
		}
		g.Viewport().SetMapPosition(p.Latitude(), p.Longitude(), *zoom)
	} else if *zoom > 0 {
		g.Viewport().ZoomBy(*zoom/g.Camera().Zoom, nil)
	}

	pickAt := g.Camera().ScreenCenter()
	if *pick != "" {
		if pickAt, err = parseScreenPoint(*pick); err != nil {
			return err
		}
	}

	if *shutdown {
		start := time.Now()
		g.Viewport().StartShutdownAnimation(start)
		// Step at 60Hz in simulated time.
		for t := start; !g.Viewport().ShutdownComplete(); t = t.Add(time.Second / 60) {
			g.Tick(t)
		}
	}

	r := makeReport(g, pickAt, *pickRadius)
	if *dump {
		godump.Dump(r)
	} else {
		r.Print(os.Stdout)
	}
	return nil
}

// saveSnapshot writes snap so that it can be loaded again with -traffic.
func saveSnapshot(path string, snap *aviation.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%s: no traffic to save", path)
	}
	b, err := json.MarshalIndent(snap.VATSIMData(), "", "  ")
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".zst") {
		err = util.WriteCompressedFile(path, b)
	} else {
		err = os.WriteFile(path, b, 0o644)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%s: size must be given as WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%s: invalid viewport size", s)
	}
	return float64(w), float64(h), nil
}

func parseScreenPoint(s string) (globe.ScreenPoint, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return globe.ScreenPoint{}, fmt.Errorf("%s: expected \"x,y\"", s)
	}
	x, err := util.Atof(strings.TrimSpace(xs))
	if err != nil {
		return globe.ScreenPoint{}, fmt.Errorf("%s: %w", s, err)
	}
	y, err := util.Atof(strings.TrimSpace(ys))
	if err != nil {
		return globe.ScreenPoint{}, fmt.Errorf("%s: %w", s, err)
	}
	return globe.ScreenPoint{x, y}, nil
}
