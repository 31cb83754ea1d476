package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudgen"
)

// CLI mirrors crudgen.Options; flags and env override values loaded from
// .crudgen.yml.
type CLI struct {
	Entrypoint string `arg:"" help:"API entrypoint URL."`
	Output     string `arg:"" help:"Output directory for the generated code."`

	Resource    string `short:"r" help:"Generate CRUD for a single resource, by name or title."`
	HydraPrefix string `short:"p" default:"hydra:" help:"The hydra prefix used by the API."`
	Format      string `short:"f" default:"hydra" enum:"hydra,openapi3" help:"Documentation format."`
	Document    string `help:"OpenAPI document URL when it differs from the entrypoint."`

	TemplateDirectory string `short:"t" type:"existingdir" help:"Template directory layered over the built-in templates."`
	Labels            string `type:"existingfile" help:"YAML file with label text overrides."`
	Theme             string `help:"Theme name passed through to the templates."`
	ThemeVariant      string `help:"Theme variant, e.g. dark."`

	Username string `help:"Username for basic auth (Hydra only)."`
	Password string `help:"Password for basic auth (Hydra only)."`
	Bearer   string `help:"Token for bearer auth (Hydra only)."`

	Interactive bool `short:"i" help:"Pick resources interactively."`
	Watch       bool `short:"w" help:"Watch the template directory and regenerate on change."`
	Debug       bool `help:"Enable debug logging."`

	Config kong.ConfigFlag `help:"Load options from a YAML config file."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("crudgen"),
		kong.Description("Scaffold CRUD front ends for any API documented with Hydra or OpenAPI 3."),
		kong.UsageOnError(),
		kong.Configuration(kongyaml.Loader, ".crudgen.yml", "~/.config/crudgen/config.yml"),
	)

	log := newLogger(cli.Debug)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cli, log)
	if errors.Is(err, context.Canceled) {
		return
	}
	kctx.FatalIfErrorf(err)
}

func run(ctx context.Context, cli CLI, log *slog.Logger) error {
	opts := crudgen.Options{
		Entrypoint:  cli.Entrypoint,
		OutputDir:   cli.Output,
		Format:      crudgen.Format(cli.Format),
		DocumentURL: cli.Document,
		Resource:    cli.Resource,
		Interactive: cli.Interactive,
		HydraPrefix: cli.HydraPrefix,
		TemplateDir: cli.TemplateDirectory,
		LabelsFile:  cli.Labels,
		Username:    cli.Username,
		Password:    cli.Password,
		BearerToken: cli.Bearer,
		Logger:      log,
	}
	if cli.Theme != "" {
		opts.Theme = &theme.RendererConfig{Theme: cli.Theme, Variant: cli.ThemeVariant}
	}

	if err := crudgen.Run(ctx, opts); err != nil {
		return err
	}
	if !cli.Watch {
		return nil
	}
	if cli.TemplateDirectory == "" {
		return errors.New("watch mode needs --template-directory")
	}
	return watch(ctx, cli.TemplateDirectory, log, func() error {
		return crudgen.Run(ctx, opts)
	})
}

// watch regenerates whenever the template directory changes. Events are
// debounced so editors that write in bursts trigger one run.
func watch(ctx context.Context, dir string, log *slog.Logger, regenerate func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Info("watching template directory", "dir", dir)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-pending:
			log.Info("templates changed, regenerating")
			if err := regenerate(); err != nil {
				log.Error("regeneration failed", "error", err)
			}
		}
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	w := os.Stderr
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))
}
