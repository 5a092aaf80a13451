// Command pixart creates, edits and inspects layered pixel-art images from
// the command line.
//
// Usage:
//
//	pixart new     [-width W] [-height H] [-background #rrggbb] -o out.png
//	pixart run     -script s.yaml [-in in.png] -o out.png [-watch]
//	pixart info    file.png
//	pixart preview -in in.png [-scale N] -o out.png
//	pixart config
//
// Every command accepts -config to pick the settings file and -v for debug
// logging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/pixart"
	"github.com/gogpu/pixart/internal/config"
	"github.com/gogpu/pixart/internal/script"
	"github.com/gogpu/pixart/surface"
	"github.com/gogpu/pixart/tool"
)

var errUsage = errors.New("usage")

func main() {
	con := newConsole()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "new":
		err = cmdNew(con, args)
	case "run":
		err = cmdRun(con, args)
	case "info":
		err = cmdInfo(con, args)
	case "preview":
		err = cmdPreview(con, args)
	case "config":
		err = cmdConfig(con, args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		con.fail("unknown command %q", cmd)
		usage()
		os.Exit(2)
	}

	switch {
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		con.fail("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: pixart <command> [flags]

commands:
  new      create a blank canvas
  run      replay a YAML script
  info     describe an image file
  preview  write an enlarged copy of an image
  config   print the effective settings
`)
}

// common holds the flags every command accepts.
type common struct {
	configPath string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.DefaultFile, "settings file")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
}

// load reads the settings, applies overrides and installs the logger.
func (c *common) load(overrides config.Config) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Overlay(overrides); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	lvl, _ := cfg.Level()
	if c.verbose {
		lvl = slog.LevelDebug
	}
	pixart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return cfg, nil
}

func cmdNew(con *console, args []string) error {
	var (
		c      common
		fs     = flag.NewFlagSet("new", flag.ContinueOnError)
		width  = fs.Int("width", 0, "canvas width (default from settings)")
		height = fs.Int("height", 0, "canvas height (default from settings)")
		bg     = fs.String("background", "#ffffff", "background colour")
		output = fs.String("o", "canvas.png", "output file")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := c.load(config.Config{Width: *width, Height: *height})
	if err != nil {
		return err
	}
	background, err := pixart.Hex(*bg)
	if err != nil {
		return err
	}

	img, err := pixart.NewImage(cfg.Width, cfg.Height, pixart.WithBackground(background))
	if err != nil {
		return err
	}
	if err := img.Save(*output); err != nil {
		return err
	}
	con.ok("wrote %s (%dx%d)", *output, cfg.Width, cfg.Height)
	return nil
}

func cmdRun(con *console, args []string) error {
	var (
		c      common
		fs     = flag.NewFlagSet("run", flag.ContinueOnError)
		path   = fs.String("script", "", "script file")
		input  = fs.String("in", "", "start from this image instead of the script's canvas")
		output = fs.String("o", "out.png", "output file")
		watch  = fs.Bool("watch", false, "re-run whenever the script or settings change")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errUsage
	}

	run := func() error {
		cfg, err := c.load(config.Config{})
		if err != nil {
			return err
		}
		s, err := script.Load(*path)
		if err != nil {
			return err
		}
		var img *pixart.Image
		if *input != "" {
			img, err = pixart.LoadImage(*input)
		} else {
			img, err = s.NewImage(cfg.Width, cfg.Height)
		}
		if err != nil {
			return err
		}

		sess := tool.NewSession(img, tool.NewContext(cfg.ToolOptions()...), cfg.HistoryOptions()...)
		if err := s.Run(sess); err != nil {
			return err
		}
		if err := sess.Image().Save(*output); err != nil {
			return err
		}
		con.ok("wrote %s after %d steps (%s)", *output, len(s.Steps), sess.History().Label())
		return nil
	}

	err := run()
	if !*watch {
		return err
	}
	if err != nil {
		con.fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Both watchers feed one loop so runs never overlap.
	changes := make(chan change, 1)
	send := func(ch change) {
		select {
		case changes <- ch:
		case <-ctx.Done():
		}
	}
	errc := make(chan error, 1)
	go func() {
		// A settings file in a missing directory cannot be watched; the
		// script still is.
		err := config.Watch(ctx, c.configPath, func(_ config.Config, err error) {
			send(change{path: c.configPath, err: err})
		})
		if err != nil {
			pixart.Logger().Warn("settings not watched", "err", err)
		}
	}()
	go func() {
		errc <- config.WatchFiles(ctx, []string{*path}, func(p string) {
			send(change{path: p})
		})
	}()

	con.info("watching %s and %s", *path, c.configPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case ch := <-changes:
			pixart.Logger().Debug("change detected", "path", ch.path)
			if ch.err != nil {
				con.fail("%v", ch.err)
				continue
			}
			if err := run(); err != nil {
				con.fail("%v", err)
			}
		}
	}
}

// change is a file event seen by run -watch. err is set when the settings
// file changed but no longer loads.
type change struct {
	path string
	err  error
}

func cmdInfo(con *console, args []string) error {
	var (
		c  common
		fs = flag.NewFlagSet("info", flag.ContinueOnError)
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	if _, err := c.load(config.Config{}); err != nil {
		return err
	}

	path := fs.Arg(0)
	format, err := pixart.DetectFormat(path)
	if err != nil {
		return err
	}
	img, err := pixart.LoadImage(path)
	if err != nil {
		return err
	}

	data := img.RawData()
	opaque, transparent := 0, 0
	for i := 3; i < len(data); i += 4 {
		switch data[i] {
		case 255:
			opaque++
		case 0:
			transparent++
		}
	}
	total := img.Width() * img.Height()
	con.ok("%s: %s %dx%d", path, format, img.Width(), img.Height())
	con.info("opaque %d (%.1f%%), transparent %d, partial %d",
		opaque, 100*float64(opaque)/float64(total), transparent, total-opaque-transparent)
	return nil
}

func cmdPreview(con *console, args []string) error {
	var (
		c      common
		fs     = flag.NewFlagSet("preview", flag.ContinueOnError)
		input  = fs.String("in", "", "input image")
		scale  = fs.Int("scale", 4, "integer zoom factor")
		output = fs.String("o", "preview.png", "output file")
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *scale < 1 {
		fs.Usage()
		return errUsage
	}
	if _, err := c.load(config.Config{}); err != nil {
		return err
	}

	img, err := pixart.LoadImage(*input)
	if err != nil {
		return err
	}
	tex, err := surface.NewSurfaceByName("cpu", img.Width(), img.Height())
	if err != nil {
		return err
	}
	defer func() { _ = tex.Close() }()
	if err := img.SyncAll(tex); err != nil {
		return err
	}

	cpu, ok := tex.(*surface.Texture)
	if !ok {
		return fmt.Errorf("preview needs a CPU texture, got %T", tex)
	}
	if err := pixart.EncodeFile(*output, cpu.Scaled(*scale)); err != nil {
		return err
	}
	n := *scale
	con.ok("wrote %s (%dx%d)", *output, img.Width()*n, img.Height()*n)
	return nil
}

func cmdConfig(con *console, args []string) error {
	var (
		c  common
		fs = flag.NewFlagSet("config", flag.ContinueOnError)
	)
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := c.load(config.Config{})
	if err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = con.out.Write(data)
	return err
}
