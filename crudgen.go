// Package crudgen scaffolds CRUD front ends from Hydra or OpenAPI 3 API
// documentation. The root package wires the document parsers, the field
// classifier, and the template-driven generator into a single Run call;
// the CLI under cmd/crudgen-cli is a thin shell around it.
package crudgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudgen/internal/prompt"
	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/generator"
	"github.com/goliatone/go-crudgen/pkg/hydra"
	"github.com/goliatone/go-crudgen/pkg/openapi"
	"github.com/goliatone/go-crudgen/pkg/registry"
	"github.com/goliatone/go-crudgen/pkg/render/template/gotemplate"
)

// Format selects which documentation flavor the entrypoint serves.
type Format string

const (
	FormatHydra    Format = "hydra"
	FormatOpenAPI3 Format = "openapi3"
)

// Options configures one generation run.
type Options struct {
	// Entrypoint is the API base URL. A trailing slash is added when
	// missing.
	Entrypoint string

	// OutputDir receives the generated tree.
	OutputDir string

	// Format defaults to FormatHydra.
	Format Format

	// DocumentURL overrides where the OpenAPI document is fetched from.
	// Defaults to the entrypoint.
	DocumentURL string

	// Resource narrows generation to one resource by name or title,
	// case insensitive.
	Resource string

	// Interactive shows a resource picker instead of generating
	// everything.
	Interactive bool

	// HydraPrefix is interpolated into generated fetch helpers.
	HydraPrefix string

	// TemplateDir points at an on-disk template tree layered over the
	// embedded defaults.
	TemplateDir string

	// LabelsFile is a YAML file of label text overrides.
	LabelsFile string

	// Theme passes design tokens through to templates.
	Theme *theme.RendererConfig

	// Username, Password, and BearerToken authenticate Hydra requests.
	Username    string
	Password    string
	BearerToken string

	// PromptDriver replaces the terminal picker, for tests. Nil uses
	// survey.
	PromptDriver prompt.Driver

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Run parses the API documentation and scaffolds every selected resource
// into the output directory. Per-resource failures are logged and skipped
// so one broken resource does not sink the run.
func Run(ctx context.Context, opts Options) error {
	if opts.Entrypoint == "" {
		return errors.New("crudgen: entrypoint is required")
	}
	if opts.OutputDir == "" {
		return errors.New("crudgen: output directory is required")
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	entrypoint := opts.Entrypoint
	if !strings.HasSuffix(entrypoint, "/") {
		entrypoint += "/"
	}

	client := hydra.NewClient(
		hydra.WithBasicAuth(opts.Username, opts.Password),
		hydra.WithBearerToken(opts.BearerToken),
	)

	parsed, err := loadAPI(ctx, opts, client, entrypoint)
	if err != nil {
		return err
	}

	resources, err := selectResources(ctx, opts, parsed.Resources)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		return fmt.Errorf("crudgen: no resource matches %q", opts.Resource)
	}

	if opts.Format == FormatHydra || opts.Format == "" {
		prefetch(ctx, client, entrypoint, resources, log)
	}

	gen, err := buildGenerator(entrypoint, opts, log)
	if err != nil {
		return err
	}

	if deps := gen.CheckDependencies(opts.OutputDir); deps != nil {
		log.Debug("target project dependencies", "count", len(deps))
	}

	var failed int
	for _, resource := range resources {
		if err := gen.Generate(ctx, parsed, resource, opts.OutputDir); err != nil {
			log.Error("resource generation failed", "resource", resource.Name, "error", err)
			failed++
		}
	}
	if failed == len(resources) {
		return fmt.Errorf("crudgen: all %d resources failed to generate", failed)
	}

	return gen.GenerateImportHelper(resources, opts.OutputDir)
}

func loadAPI(ctx context.Context, opts Options, client *hydra.Client, entrypoint string) (api.API, error) {
	switch opts.Format {
	case FormatOpenAPI3:
		docURL := opts.DocumentURL
		if docURL == "" {
			docURL = entrypoint
		}
		return openapi.NewParser(ctx).Parse(ctx, docURL, entrypoint)
	case FormatHydra, "":
		return client.ParseDocumentation(ctx, entrypoint)
	default:
		return api.API{}, fmt.Errorf("crudgen: unknown format %q", opts.Format)
	}
}

// selectResources drops deprecated resources and fields, applies the name
// filter, and runs the interactive picker when asked.
func selectResources(ctx context.Context, opts Options, all []api.Resource) ([]api.Resource, error) {
	filter := strings.ToLower(opts.Resource)

	var resources []api.Resource
	for _, resource := range all {
		if resource.Deprecated {
			continue
		}
		if filter != "" &&
			strings.ToLower(resource.Name) != filter &&
			strings.ToLower(resource.Title) != filter {
			continue
		}
		resources = append(resources, resource.WithoutDeprecated())
	}

	if !opts.Interactive || len(resources) == 0 {
		return resources, nil
	}

	driver := opts.PromptDriver
	if driver == nil {
		driver = prompt.NewSurveyDriver()
	}
	return prompt.PickResources(ctx, driver, resources)
}

// prefetch fills in the enum contexts and collection filter parameters
// before generation so the sequential generate loop never blocks on the
// network. Failures degrade the resource and are only logged.
func prefetch(ctx context.Context, client *hydra.Client, entrypoint string, resources []api.Resource, log *slog.Logger) {
	var wg sync.WaitGroup
	for i := range resources {
		wg.Add(1)
		go func(resource *api.Resource) {
			defer wg.Done()

			hydraContext, err := client.FetchContext(ctx, entrypoint, *resource)
			if err != nil {
				log.Debug("context prefetch failed", "resource", resource.Name, "error", err)
			} else {
				resource.HydraContext = hydraContext
			}

			if len(resource.Parameters) > 0 {
				return
			}
			parameters, err := client.FetchParameters(ctx, *resource)
			if err != nil {
				log.Debug("parameter prefetch failed", "resource", resource.Name, "error", err)
				return
			}
			resource.Parameters = parameters
		}(&resources[i])
	}
	wg.Wait()
}

func buildGenerator(entrypoint string, opts Options, log *slog.Logger) (*generator.Generator, error) {
	engineOptions := []gotemplate.Option{gotemplate.WithFS(EmbeddedTemplates())}
	var overrideFS fs.FS
	if opts.TemplateDir != "" {
		engineOptions = []gotemplate.Option{
			gotemplate.WithBaseDir(opts.TemplateDir),
			gotemplate.WithFS(EmbeddedTemplates()),
		}
		overrideFS = os.DirFS(opts.TemplateDir)
	}

	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("crudgen: build template engine: %w", err)
	}

	reg := registry.New()
	generator.RegisterTemplates(reg, engine, overrideFS, log)

	genOptions := []generator.Option{generator.WithLogger(log)}
	if opts.HydraPrefix != "" {
		genOptions = append(genOptions, generator.WithHydraPrefix(opts.HydraPrefix))
	}
	if opts.Theme != nil {
		genOptions = append(genOptions, generator.WithTheme(opts.Theme))
	}
	if opts.LabelsFile != "" {
		overrides, err := generator.LoadLabelOverrides(opts.LabelsFile)
		if err != nil {
			return nil, err
		}
		genOptions = append(genOptions, generator.WithLabelOverrides(overrides))
	}

	return generator.New(entrypoint, reg, genOptions...)
}
