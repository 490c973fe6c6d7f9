package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/oklog/run"

	"github.com/kbukum/flowpipe/component"
	"github.com/kbukum/flowpipe/config"
	"github.com/kbukum/flowpipe/diagnostics"
	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/observability"
	"github.com/kbukum/flowpipe/pipe"
	"github.com/kbukum/flowpipe/stream"
	"github.com/kbukum/flowpipe/version"
)

var (
	app = kingpin.New("flowpipe", "Drive a backpressured demo pipe").Version(version.Get().Stanza("flowpipe"))

	configFile         = app.Flag("config", "Path to config.yml").Envar("FLOWPIPE_CONFIG").String()
	envFile            = app.Flag("env-file", "Path to a .env file").String()
	items              = app.Flag("items", "Number of items to emit").Int()
	interval           = app.Flag("interval", "Tick interval of the feeder").Duration()
	diagnosticsAddress = app.Flag("diagnostics-address", "Host to bind the diagnostics listener").String()
	diagnosticsPort    = app.Flag("diagnostics-port", "Port to bind the diagnostics listener").Int()
	noDiagnostics      = app.Flag("no-diagnostics", "Disable the diagnostics listener").Bool()
	debug              = app.Flag("debug", "Enable debug logging").Bool()
)

func main() {
	_ = kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		kingpin.Fatalf("failed to load config: %v", err)
	}
	logger.Init(&cfg.Logging)
	log := logger.WithComponent("main")

	ctx, cancel := setupSignalHandler()
	defer cancel()

	opts := []pipe.Option{
		pipe.WithName(cfg.Pipe.Name),
		pipe.WithContext(ctx),
		pipe.WithLogger(logger.WithComponent("pipe")),
	}
	if cfg.Telemetry.Metrics {
		mp, err := observability.InitMeter(ctx, cfg.Telemetry.Meter)
		if err != nil {
			kingpin.Fatalf("failed to init meter: %v", err)
		}
		defer shutdown(log, "meter", mp.Shutdown)

		metrics, err := observability.NewPipeMetrics(observability.Meter("flowpipe"))
		if err != nil {
			kingpin.Fatalf("failed to create pipe metrics: %v", err)
		}
		opts = append(opts, pipe.WithMetrics(metrics))
	}
	if cfg.Telemetry.Tracing {
		tp, err := observability.InitTracer(ctx, cfg.Telemetry.Tracer)
		if err != nil {
			kingpin.Fatalf("failed to init tracer: %v", err)
		}
		defer shutdown(log, "tracer", tp.Shutdown)
		opts = append(opts, pipe.WithTracer(observability.Tracer("flowpipe")))
	}

	src := stream.NewEmitter[int]()
	sink, err := stream.NewBuffer[string](cfg.Pipe.Buffer)
	if err != nil {
		kingpin.Fatalf("invalid buffer config: %v", err)
	}
	p, err := buildPipe(src, sink, cfg.Pipe, opts...)
	if err != nil {
		kingpin.Fatalf("failed to build pipe: %v", err)
	}
	p.OnError(func(err error) {
		log.Warn("pipe error", logger.Fields(logger.FieldError, err.Error()))
	})

	registry := component.NewRegistry()
	if cfg.Diagnostics.Enabled {
		pipes := diagnostics.NewRegistry()
		if err := pipes.Add(p); err != nil {
			kingpin.Fatalf("failed to register pipe: %v", err)
		}
		server := diagnostics.New(cfg.Diagnostics, cfg.Name, pipes, registry.HealthAll, logger.GetGlobalLogger())
		registry.Register(server)
	}
	registry.Register(pipe.AsComponent(p))

	if err := registry.StartAll(ctx); err != nil {
		stopAll(log, registry)
		kingpin.Fatalf("failed to start: %v", err)
	}

	var g run.Group
	{
		f := &feeder{cfg: cfg.Feeder, src: src, sink: sink, pipe: p, log: logger.WithComponent("feeder")}
		fctx, fcancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				return f.run(fctx)
			},
			func(error) {
				fcancel()
			},
		)
	}
	{
		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(error) {
				cancel()
			},
		)
	}

	if err := g.Run(); err != nil {
		log.Error("exiting with error", logger.Fields(logger.FieldError, err.Error()))
	}
	stopAll(log, registry)
}

// loadConfig reads the config file and environment, then lets flags
// override the result.
func loadConfig() (*AppConfig, error) {
	var cfg AppConfig
	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	if err := config.LoadConfig("flowpipe", &cfg, opts...); err != nil {
		return nil, err
	}

	if *items > 0 {
		cfg.Feeder.Items = *items
	}
	if *interval > 0 {
		cfg.Feeder.Interval = *interval
	}
	if *diagnosticsAddress != "" {
		cfg.Diagnostics.Host = *diagnosticsAddress
		cfg.Diagnostics.Enabled = true
	}
	if *diagnosticsPort > 0 {
		cfg.Diagnostics.Port = *diagnosticsPort
		cfg.Diagnostics.Enabled = true
	}
	if *noDiagnostics {
		cfg.Diagnostics.Enabled = false
	}
	if *debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// buildPipe wires emitter -> format -> buffer.
func buildPipe(src *stream.Emitter[int], sink *stream.Buffer[string], cfg PipeConfig, opts ...pipe.Option) (*pipe.Pipe[int], error) {
	head, err := pipe.New[int](src, opts...)
	if err != nil {
		return nil, err
	}
	format := stream.Map(func(v int) (string, error) {
		return fmt.Sprintf("item-%04d", v), nil
	}, cfg.FormatHighWater)

	formatted, err := pipe.Via[int, string](head, format)
	if err != nil {
		return nil, err
	}
	if _, err := formatted.Attach(sink); err != nil {
		return nil, err
	}
	return head, nil
}

func stopAll(log *logger.Logger, registry *component.Registry) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := registry.StopAll(ctx); err != nil {
		log.Error("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}

func shutdown(log *logger.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldComponent, name, logger.FieldError, err.Error()))
	}
}

// setupSignalHandler returns a context cancelled on the first SIGINT, SIGQUIT
// or SIGTERM. A second signal exits immediately.
func setupSignalHandler() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	go func() {
		<-sigc
		cancel()
		<-sigc
		panic("received second signal, exiting immediately")
	}()

	return ctx, cancel
}
