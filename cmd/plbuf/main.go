// Command plbuf records, archives and replays plot command buffers.
//
// Usage:
//
//	plbuf [-config plbuf.toml] [-v] <command> [flags]
//
// Commands:
//
//	demo    record the sample plot and archive it
//	render  replay an archived plot on a device
//	dump    print the device calls an archived plot replays to
//	list    list archived plots
//	delete  remove an archived plot
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/plot"
	"github.com/gogpu/plot/devices/raster"
	"github.com/gogpu/plot/devices/term"
	"github.com/gogpu/plot/devices/trace"
	"github.com/gogpu/plot/store/sqlstore"
)

const defaultConfigPath = "plbuf.toml"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "plbuf: %v\n", err)
		os.Exit(1)
	}
}

// run parses the global flags and dispatches to a command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("plbuf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", defaultConfigPath, "config file")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: plbuf [-config file] [-v] demo|render|dump|list|delete [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := loadConfig(*configPath, *configPath == defaultConfigPath)
	if err != nil {
		return err
	}
	if *verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	plot.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	defer plot.SetLogger(nil)

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "demo":
		return runDemo(ctx, cfg, cmdArgs, stdout)
	case "render":
		return runRender(ctx, cfg, cmdArgs, stdout)
	case "dump":
		return runDump(ctx, cfg, cmdArgs, stdout)
	case "list":
		return runList(ctx, cfg, stdout)
	case "delete":
		return runDelete(ctx, cfg, cmdArgs)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func runDemo(ctx context.Context, cfg config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	var (
		name  = fs.String("name", "demo", "archive name")
		phase = fs.Float64("phase", 0, "curve phase in radians")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := plot.NewStream(cfg.streamOptions()...)
	s.Init()
	if err := recordDemo(s, *phase); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	st, err := s.SaveState(nil)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return withStore(cfg, func(store *sqlstore.Store) error {
		if err := store.Put(ctx, *name, st); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "recorded %q: %d bytes\n", *name, st.Top())
		return nil
	})
}

func runRender(ctx context.Context, cfg config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var (
		name   = fs.String("name", "demo", "archive name")
		device = fs.String("device", "raster", "output device")
		output = fs.String("o", "", "output file for raster, format from extension")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := loadStream(ctx, cfg, *name)
	if err != nil {
		return err
	}
	if *device == "raster" {
		path := *output
		if path == "" {
			path = *name + "." + cfg.Format.String()
		}
		written, err := renderRaster(s, cfg, path)
		for _, out := range written {
			fmt.Fprintf(stdout, "wrote %s\n", out)
		}
		return err
	}

	dev, err := plot.NewDevice(*device)
	if err != nil {
		return err
	}
	if c, ok := dev.(interface{ Close() }); ok {
		defer c.Close()
	}
	if err := s.Replay(dev); err != nil {
		return err
	}
	if td, ok := dev.(*term.Device); ok {
		td.WaitKey()
	}
	return nil
}

// renderRaster replays s on a raster device and writes every page. A
// single page goes to path; several pages get their number inserted
// before the extension.
func renderRaster(s *plot.Stream, cfg config, path string) ([]string, error) {
	if _, err := raster.ParseFormat(path); err != nil {
		return nil, err
	}

	var (
		dev     *raster.Device
		written []string
	)
	dev, err := raster.New(
		raster.WithSize(cfg.Width, cfg.Height),
		raster.WithBackground(cfg.Background),
		raster.WithPageFunc(func(page int, _ image.Image) error {
			out := numbered(path, page)
			if err := dev.SaveFile(out); err != nil {
				return err
			}
			written = append(written, out)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	if err := s.Replay(dev); err != nil {
		return written, err
	}
	if err := dev.Err(); err != nil {
		return written, err
	}

	switch len(written) {
	case 0:
		// No page was finished; save what was drawn.
		if err := dev.SaveFile(path); err != nil {
			return nil, err
		}
		written = append(written, path)
	case 1:
		if err := os.Rename(written[0], path); err != nil {
			return nil, err
		}
		written[0] = path
	}
	return written, nil
}

// numbered inserts -page before the extension of path.
func numbered(path string, page int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), page, ext)
}

func runDump(ctx context.Context, cfg config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	name := fs.String("name", "demo", "archive name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := loadStream(ctx, cfg, *name)
	if err != nil {
		return err
	}
	dev := trace.New(stdout)
	if err := s.Replay(dev); err != nil {
		return err
	}
	return dev.Err()
}

func runList(ctx context.Context, cfg config, stdout io.Writer) error {
	return withStore(cfg, func(store *sqlstore.Store) error {
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tBYTES\tSAVED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, e.Size, e.Saved.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	})
}

func runDelete(ctx context.Context, cfg config, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	name := fs.String("name", "", "archive name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("delete: -name is required")
	}
	return withStore(cfg, func(store *sqlstore.Store) error {
		return store.Delete(ctx, *name)
	})
}

// loadStream restores the archived plot name into a new stream.
func loadStream(ctx context.Context, cfg config, name string) (*plot.Stream, error) {
	var st *plot.SavedState
	err := withStore(cfg, func(store *sqlstore.Store) error {
		var err error
		st, err = store.Get(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	s := plot.NewStream(cfg.streamOptions()...)
	s.Init()
	if err := s.RestoreState(st); err != nil {
		return nil, err
	}
	return s, nil
}

func withStore(cfg config, fn func(*sqlstore.Store) error) error {
	store, err := sqlstore.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
