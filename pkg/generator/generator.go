package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/classify"
	"github.com/goliatone/go-crudgen/pkg/registry"
	"github.com/goliatone/go-crudgen/pkg/render"
)

const defaultHydraPrefix = "hydra:"

// ContextFetcher retrieves the supplementary JSON-LD context for one
// resource. Implementations live next to the document parsers; a fetch
// failure degrades classification and never aborts generation.
type ContextFetcher interface {
	FetchContext(ctx context.Context, entrypoint string, resource api.Resource) (map[string]api.ContextEntry, error)
}

// Shared templates written once per output directory.
var commonTemplates = []string{
	"common/components/ConfirmDelete.vue",
	"common/components/DataFilter.vue",
	"common/components/InputDate.vue",
	"common/components/Loading.vue",
	"common/components/Toolbar.vue",
	"utils/dates.ts",
	"utils/notify.ts",
	"types/collection.ts",
	"types/error.ts",
	"types/item.ts",
	"types/list.ts",
	"types/view.ts",
}

// Parameterized templates emitted once per resource, in this order.
var moduleTemplates = []string{
	"stores/%s/list.ts",
	"stores/%s/create.ts",
	"stores/%s/show.ts",
	"stores/%s/update.ts",
	"stores/%s/delete.ts",

	"components/%s/Create.vue",
	"components/%s/Filter.vue",
	"components/%s/Form.vue",
	"components/%s/List.vue",
	"components/%s/Show.vue",
	"components/%s/Update.vue",
	"components/%s/settings.js",

	"router/%s.ts",
	"types/%s.ts",
}

// Fixed-name templates looked up directly; unregistered entries are
// silently skipped.
var directTemplates = []string{
	"entrypoint.ts",
	"error/SubmissionError.ts",
	"utils/fetch.ts",
	"utils/importHelper.ts",
	"i18n/index.ts",
}

var storeFiles = []string{"list.ts", "create.ts", "show.ts", "update.ts", "delete.ts"}

var componentFiles = []string{
	"Create.vue", "Filter.vue", "Form.vue", "List.vue", "Show.vue", "Update.vue", "settings.js",
}

// Option configures a Generator.
type Option func(*Generator)

// WithHydraPrefix overrides the Hydra vocabulary prefix interpolated into
// generated fetch helpers.
func WithHydraPrefix(prefix string) Option {
	return func(g *Generator) {
		if prefix != "" {
			g.hydraPrefix = prefix
		}
	}
}

// WithContextFetcher wires the per-resource enum context fetcher.
func WithContextFetcher(fetcher ContextFetcher) Option {
	return func(g *Generator) {
		g.fetcher = fetcher
	}
}

// WithTheme passes design tokens through to templates under the "theme"
// context key.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(g *Generator) {
		g.theme = cfg
	}
}

// WithLabelOverrides replaces built-in label texts by key.
func WithLabelOverrides(overrides map[string]string) Option {
	return func(g *Generator) {
		g.labelOverrides = overrides
	}
}

// WithLogger injects the logger used for warnings and skip notices.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClassifierOptions forwards options to the field classifier.
func WithClassifierOptions(options ...classify.Option) Option {
	return func(g *Generator) {
		g.classifierOptions = options
	}
}

// Generator emits the scaffolded front-end for one API. Construction
// registers templates and discovers overrides; after that the registry is
// read-only and Generate can run per resource.
type Generator struct {
	entrypoint        string
	hydraPrefix       string
	registry          *registry.Registry
	classifier        *classify.Classifier
	classifierOptions []classify.Option
	fetcher           ContextFetcher
	theme             *theme.RendererConfig
	labels            []Label
	labelOverrides    map[string]string
	log               *slog.Logger
}

// New constructs a Generator for the given entrypoint using an already
// populated template registry.
func New(entrypoint string, reg *registry.Registry, options ...Option) (*Generator, error) {
	if entrypoint == "" {
		return nil, errors.New("generator: entrypoint is required")
	}
	if reg == nil {
		return nil, errors.New("generator: template registry is required")
	}

	g := &Generator{
		entrypoint:  ensureSlash(entrypoint),
		hydraPrefix: defaultHydraPrefix,
		registry:    reg,
		labels:      CommonLabels(),
		log:         slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.classifier = classify.New(g.entrypoint, g.classifierOptions...)
	return g, nil
}

// RegisterTemplates compiles the common templates, the generic fallbacks,
// and any resource-specific overrides found in the template tree. The
// override scan happens here, once, so resolution during generation is a
// pure registry lookup.
func RegisterTemplates(reg *registry.Registry, compiler registry.Compiler, fsys fs.FS, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	reg.Load(compiler, commonTemplates, log)
	reg.Load(compiler, directTemplates, log)

	generic := make([]string, 0, len(moduleTemplates))
	for _, pattern := range moduleTemplates {
		generic = append(generic, fmt.Sprintf(pattern, registry.GenericKey))
	}
	reg.Load(compiler, generic, log)

	if fsys == nil {
		return
	}
	overrides := registry.DiscoverOverrides(fsys, []registry.Family{
		{Dir: "stores", Files: storeFiles},
		{Dir: "components", Files: componentFiles},
	})
	overrides = append(overrides, registry.DiscoverFileOverrides(fsys, "router", "foo.ts")...)
	overrides = append(overrides, registry.DiscoverFileOverrides(fsys, "types", "foo.ts")...)
	for _, path := range overrides {
		log.Info("found custom template", "template", path)
	}
	reg.Load(compiler, overrides, log)
}

// Generate emits every file for one resource into dir. Fetch failures for
// the enum context degrade the output; only template and filesystem
// errors propagate.
func (g *Generator) Generate(ctx context.Context, a api.API, resource api.Resource, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if resource.HydraContext == nil && g.fetcher != nil {
		fetched, err := g.fetcher.FetchContext(ctx, a.Entrypoint, resource)
		if err != nil {
			g.log.Warn("enum context unavailable, fields stay plain",
				"resource", resource.Name, "error", err)
		} else {
			resource.HydraContext = fetched
		}
	}

	renderCtx := g.BuildContext(a, resource)
	return g.generateFiles(a, resource, dir, renderCtx)
}

func (g *Generator) generateFiles(a api.API, resource api.Resource, dir string, renderCtx Context) error {
	lc := renderCtx["lc"].(string)

	for _, shared := range []string{
		"config",
		"error",
		"router",
		"utils",
		"types",
		"i18n",
		"i18n/en-US",
		"common",
		"common/components",
	} {
		if err := g.createDir(filepath.Join(dir, shared), false); err != nil {
			return err
		}
	}
	for _, owned := range []string{
		filepath.Join("stores", lc),
		filepath.Join("components", lc),
	} {
		if err := g.createDir(filepath.Join(dir, owned), true); err != nil {
			return err
		}
	}

	for _, key := range commonTemplates {
		if err := g.createFile(key, filepath.Join(dir, filepath.FromSlash(key)), renderCtx, false); err != nil {
			return err
		}
	}

	parameters, _ := renderCtx["parameters"].([]classify.Field)
	for _, pattern := range moduleTemplates {
		if pattern == "components/%s/Filter.vue" && len(parameters) == 0 {
			continue
		}
		if err := g.createFileFromPattern(pattern, dir, lc, renderCtx); err != nil {
			return err
		}
	}

	if err := g.createFile("error/SubmissionError.ts",
		filepath.Join(dir, "error", "SubmissionError.ts"), renderCtx, false); err != nil {
		return err
	}

	hashEntry := renderCtx["hashEntry"].(int)
	entrypointDest := filepath.Join(dir, "config", fmt.Sprintf("%d_entrypoint.ts", hashEntry))
	if err := g.createFile("entrypoint.ts", entrypointDest,
		Context{"entrypoint": a.Entrypoint}, false); err != nil {
		return err
	}

	if err := g.createFile("utils/fetch.ts", filepath.Join(dir, "utils", "fetch.ts"),
		Context{"hydraPrefix": g.hydraPrefix, "hashEntry": hashEntry}, false); err != nil {
		return err
	}

	_, labelTexts := g.labelDictionary()
	if err := g.createFile("i18n/index.ts", filepath.Join(dir, "i18n", "en-US", "index.ts"),
		Context{"labels": labelTexts}, false); err != nil {
		return err
	}

	formFields, _ := renderCtx["formFields"].([]classify.Field)
	fields, _ := renderCtx["fields"].([]classify.Field)
	return g.createFile("i18n/index.ts", filepath.Join(dir, "i18n", "en-US", lc+".ts"),
		Context{"labels": contextLabelTexts(formFields, fields)}, false)
}

// GenerateImportHelper writes the cross-resource module index. Called once
// per run, after the first resource generates.
func (g *Generator) GenerateImportHelper(resources []api.Resource, dir string) error {
	modules := make([]string, 0, len(resources))
	for _, resource := range resources {
		modules = append(modules, strings.ToLower(resource.Title))
	}
	sort.Strings(modules)

	return g.createFile("utils/importHelper.ts", filepath.Join(dir, "utils", "importHelper.ts"),
		Context{"modules": modules, "dir": dir}, false)
}

// CheckDependencies lists the dependency names declared by the target
// project's package manifest. A missing or unreadable manifest is a
// warning: generation proceeds without the dependency check.
func (g *Generator) CheckDependencies(dir string) []string {
	raw, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		g.log.Warn("no readable package file in the target directory, skipping dependency check")
		return nil
	}

	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		g.log.Warn("no readable package file in the target directory, skipping dependency check")
		return nil
	}

	names := make([]string, 0, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	for name := range manifest.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// createFileFromPattern resolves the override hierarchy for one
// parameterized template and emits the file. A missing generic fallback
// is a configuration gap: warn and move on.
func (g *Generator) createFileFromPattern(pattern, dir, lc string, renderCtx Context) error {
	res := g.registry.ResolvePattern(pattern, lc)
	if res.IsOverride {
		g.log.Info("using custom override", "resource", lc, "template", res.Key)
	}
	if !res.Registered {
		g.log.Warn("generic fallback template missing", "template", res.Key)
		return nil
	}

	dest := filepath.Join(dir, filepath.FromSlash(fmt.Sprintf(pattern, lc)))
	return g.createFile(res.Key, dest, renderCtx, res.IsOverride)
}

// createFile renders one registered template to dest. Unregistered
// templates and existing destinations are skips, not errors: templates
// are optional extension points and generation never refreshes
// hand-edited output.
func (g *Generator) createFile(key, dest string, renderCtx Context, warnExisting bool) error {
	tpl, ok := g.registry.Get(key)
	if !ok {
		g.log.Debug("template not registered, skipping", "template", key)
		return nil
	}

	if _, err := os.Stat(dest); err == nil {
		if warnExisting {
			g.log.Warn("file already exists, skipping", "path", dest)
		} else {
			g.log.Debug("file already exists, skipping", "path", dest)
		}
		return nil
	}

	data := make(Context, len(renderCtx)+1)
	for k, v := range renderCtx {
		data[k] = v
	}
	data["sw"] = render.NewSwitchStack()

	content, err := tpl.Render(data)
	if err != nil {
		return fmt.Errorf("generator: render %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("generator: create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("generator: write %q: %w", dest, err)
	}
	return nil
}

func (g *Generator) createDir(dir string, warnExisting bool) error {
	if _, err := os.Stat(dir); err == nil {
		if warnExisting {
			g.log.Warn("directory already exists", "path", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("generator: create directory %q: %w", dir, err)
	}
	return nil
}

func ensureSlash(entrypoint string) string {
	if strings.HasSuffix(entrypoint, "/") {
		return entrypoint
	}
	return entrypoint + "/"
}
