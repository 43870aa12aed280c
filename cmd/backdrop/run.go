package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/promptforge/backdrop/background"
	"github.com/promptforge/backdrop/config"
	"github.com/promptforge/backdrop/content"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/layer"
	"github.com/promptforge/backdrop/metrics"
	"github.com/promptforge/backdrop/parameter"
	"github.com/promptforge/backdrop/render"
)

// app wires the background system to a tcell screen
// Every field below loop is touched only on the loop goroutine
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	screen    tcell.Screen
	collector *metrics.Collector
	loop      *engine.Loop
	clock     *engine.PausableClock
	overlay   func(config.Config) config.Config

	out       *render.Screen
	canvas    *render.Canvas
	sys       *background.System
	reduced   *background.Query
	mobile    *background.Query
	baseRoute string
}

func loadCatalog(path string) (content.Catalog, error) {
	if path == "" {
		return content.Default(), nil
	}
	c, err := content.Load(path)
	if err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// runBackdrop blocks until ctx is cancelled or the user quits
// overlay is reapplied to every reloaded config, nil keeps reloads as read
func runBackdrop(ctx context.Context, cfg config.Config, configPath string, overlay func(config.Config) config.Config, screen tcell.Screen, log zerolog.Logger) error {
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := newApp(cfg, screen, catalog, log)
	a.overlay = overlay

	var watcher *config.Watcher
	if configPath != "" {
		if watcher, err = config.NewWatcher(configPath, parameter.ConfigReloadDebounce, a.onConfig, log); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
	}
	a.sys.Mount(a.loop.Scheduler(), a.bounds())

	a.loop.SetCrashHandler(func(r any) {
		screen.Fini()
		emergencyReset(os.Stdout)
		// Use \r\n for raw mode compatibility to avoid zig-zag output
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mBACKDROP CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})

	// Input polling uses a raw goroutine, PollEvent returns nil once the screen is finalized
	go a.pollEvents(cancel)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.loop.Run(gctx)
	})

	if cfg.MetricsAddr != "" {
		router := metrics.Router(a.collector, func() bool {
			select {
			case <-a.loop.Done():
				return false
			default:
				return true
			}
		})
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.MetricsAddr, router, log)
		})
	}

	if watcher != nil {
		g.Go(func() error {
			defer watcher.Stop()
			if err := watcher.Start(gctx); err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
			<-gctx.Done()
			return nil
		})
	}

	log.Info().Str("route", cfg.Route).Int("fps", cfg.FPS).Msg("backdrop started")
	err = g.Wait()
	a.sys.Unmount()
	log.Info().Msg("backdrop stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newApp(cfg config.Config, screen tcell.Screen, catalog content.Catalog, log zerolog.Logger) *app {
	w, _ := screen.Size()
	a := &app{
		cfg:       cfg,
		log:       log,
		screen:    screen,
		collector: metrics.New(),
		out:       render.NewScreen(screen),
		reduced:   background.NewQuery("(prefers-reduced-motion: reduce)", cfg.ReducedMotion),
		mobile:    background.NewQuery("(max-width: 768px)", background.IsMobileWidth(w)),
		baseRoute: cfg.Route,
	}
	a.canvas = render.NewCanvas(screen.Size())

	a.clock = engine.NewPausableClock(engine.NewMonotonicTimeProvider())
	sched := engine.NewScheduler(a.clock)
	a.sys = background.New(background.Options{
		Catalog:           catalog,
		Route:             cfg.Route,
		ReducedMotion:     a.reduced,
		Mobile:            a.mobile,
		NarrativeInterval: cfg.NarrativeInterval(),
		TypingSpeed:       cfg.TypingSpeed(),
		Random:            engine.NewRandom(cfg.Seed),
		Observer:          a.collector,
		Logger:            &log,
	})
	a.loop = engine.NewLoop(sched, cfg.FrameInterval(), a.frame)
	a.loop.SetTickObserver(a.collector.ObserveTick)
	return a
}

func (a *app) bounds() layer.Bounds {
	w, h := a.canvas.Size()
	return layer.Bounds{Width: w, Height: h}
}

func (a *app) frame(time.Time) {
	a.sys.Render(a.canvas)
	a.out.Present(a.canvas)

	mounted := map[string]bool{"geometric": false, "matrix": false, "narrative": false}
	for _, l := range a.sys.Layers() {
		mounted[l.Name()] = true
	}
	a.collector.ObserveLayers(a.sys.Settings().TokenCount, mounted)
}

func (a *app) pollEvents(quit context.CancelFunc) {
	defer func() {
		if r := recover(); r != nil {
			emergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.loop.Post(a.resize)
		case *tcell.EventKey:
			a.handleKey(ev, quit)
		}
	}
}

func (a *app) handleKey(ev *tcell.EventKey, quit context.CancelFunc) {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
		quit()
	case ev.Key() == tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			quit()
		case 'm':
			a.loop.Post(a.toggleReducedMotion)
		case 'd':
			a.loop.Post(a.toggleDashboard)
		case 'p':
			a.loop.Post(a.togglePause)
		}
	}
}

func (a *app) resize() {
	w, h := a.screen.Size()
	a.canvas.Resize(w, h)
	a.sys.Resize(a.bounds())
	a.mobile.Set(background.IsMobileWidth(w))
	a.out.Sync()
	a.log.Debug().Int("width", w).Int("height", h).Msg("resized")
}

func (a *app) togglePause() {
	paused := a.clock.Toggle()
	a.log.Debug().Bool("paused", paused).Msg("animation clock toggled")
}

func (a *app) toggleReducedMotion() {
	a.reduced.Set(!a.reduced.Matches())
}

// toggleDashboard switches between the dashboard route and the last non-dashboard route
func (a *app) toggleDashboard() {
	if background.IsDashboardRoute(a.sys.Route()) {
		route := a.baseRoute
		if background.IsDashboardRoute(route) {
			route = "/"
		}
		a.sys.SetRoute(route)
		return
	}
	a.baseRoute = a.sys.Route()
	a.sys.SetRoute(parameter.DashboardRoutePrefix)
}

// onConfig runs on the watcher goroutine and hands valid reloads to the loop
func (a *app) onConfig(cfg config.Config, err error) {
	if err == nil && a.overlay != nil {
		cfg = a.overlay(cfg)
		if err = cfg.Validate(); err != nil {
			a.log.Warn().Err(err).Msg("config reload rejected")
		}
	}
	a.collector.ConfigReloaded(err)
	if err != nil {
		return
	}
	a.loop.Post(func() {
		a.reduced.Set(cfg.ReducedMotion)
		a.baseRoute = cfg.Route
		a.sys.SetRoute(cfg.Route)
	})
}
