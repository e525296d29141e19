package gqlopgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/gqlopgen/internal/logging"
	"github.com/llehouerou/gqlopgen/types"
)

// Report summarises one generation run.
type Report struct {
	RunID   uuid.UUID
	Total   int
	Buckets map[Bucket]int
	Kinds   map[OperationKind]int
	// Files lists written paths relative to the output root, in emission order.
	Files []string
}

// Summary writes the total and a per-bucket table to w.
func (r *Report) Summary(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Generated %d operation files\n\n", r.Total); err != nil {
		return err
	}
	buckets := make([]string, 0, len(r.Buckets))
	for b := range r.Buckets {
		buckets = append(buckets, string(b))
	}
	sort.Strings(buckets)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MODULE\tOPERATIONS")
	for _, b := range buckets {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", b, r.Buckets[Bucket(b)])
	}
	return tw.Flush()
}

type runConfig struct {
	outputRoot       string
	extension        string
	maxDepth         int
	skipRequiredArgs bool
	concurrency      int
	validate         bool
	snapshot         string
	classifier       *Classifier
	logger           logrus.FieldLogger
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithOutputRoot sets the directory bucket folders are created in.
func WithOutputRoot(dir string) RunOption {
	return func(c *runConfig) { c.outputRoot = dir }
}

// WithExtension sets the generated file extension, without the dot.
func WithExtension(ext string) RunOption {
	return func(c *runConfig) { c.extension = ext }
}

// WithDepth sets the selection depth bound.
func WithDepth(depth int) RunOption {
	return func(c *runConfig) { c.maxDepth = depth }
}

// WithRequiredArgsSkipped leaves out nested fields with required arguments.
func WithRequiredArgsSkipped(skip bool) RunOption {
	return func(c *runConfig) { c.skipRequiredArgs = skip }
}

// WithConcurrency sets how many documents are built and written at once.
func WithConcurrency(n int) RunOption {
	return func(c *runConfig) { c.concurrency = n }
}

// WithValidation checks every document against the schema before writing it.
func WithValidation(validate bool) RunOption {
	return func(c *runConfig) { c.validate = validate }
}

// WithSchemaSnapshot also writes the schema as SDL to name under the output
// root.
func WithSchemaSnapshot(name string) RunOption {
	return func(c *runConfig) { c.snapshot = name }
}

// WithClassifier replaces the default bucket rules.
func WithClassifier(classifier *Classifier) RunOption {
	return func(c *runConfig) { c.classifier = classifier }
}

// WithLogger sets the logger for progress and warnings.
func WithLogger(logger logrus.FieldLogger) RunOption {
	return func(c *runConfig) { c.logger = logger }
}

func newRunConfig(options []RunOption) *runConfig {
	c := &runConfig{
		outputRoot:  types.DefaultOutputDir,
		extension:   types.DefaultExtension,
		maxDepth:    types.DefaultMaxDepth,
		concurrency: 1,
		classifier:  defaultClassifier,
		logger:      logging.Discard(),
	}
	for _, option := range options {
		option(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	return c
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SafeFileName replaces characters outside [A-Za-z0-9._-] with underscores.
func SafeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// job is one document to emit.
type job struct {
	kind   OperationKind
	field  *FieldDef
	bucket Bucket
	path   string
}

// Run introspects source once and writes one document per root field under
// the output root. It stops at the first error; files already written stay.
func Run(ctx context.Context, source SchemaSource, options ...RunOption) (*Report, error) {
	cfg := newRunConfig(options)
	report := &Report{
		RunID:   uuid.New(),
		Buckets: make(map[Bucket]int),
		Kinds:   make(map[OperationKind]int),
	}
	log := cfg.logger.WithField("run_id", report.RunID.String())

	schema, err := source.Introspect(ctx)
	if err != nil {
		return nil, err
	}
	graph, err := Load(schema)
	if err != nil {
		return nil, err
	}
	log.WithField("types", len(graph.Types())).Debug("Schema loaded")

	gen := NewGenerator(graph, WithMaxDepth(cfg.maxDepth), WithSkipRequiredArgs(cfg.skipRequiredArgs))

	var validator *Validator
	if cfg.validate {
		validator, err = NewValidator(graph)
		if err != nil {
			return nil, err
		}
	}

	if cfg.snapshot != "" {
		if err := writeFile(filepath.Join(cfg.outputRoot, cfg.snapshot), []byte(PrintSDL(graph))); err != nil {
			return nil, err
		}
	}

	jobs := planJobs(graph, cfg, report, log)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for _, j := range jobs {
		j := j
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return emit(gctx, gen, validator, j, cfg.outputRoot, log)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.WithField("files", report.Total).Info("Generation complete")
	return report, nil
}

// planJobs enumerates root fields in emission order, classifies them and
// assigns output paths. It runs on the calling goroutine, so the report is
// filled without locking.
func planJobs(graph *TypeGraph, cfg *runConfig, report *Report, log logrus.FieldLogger) []job {
	var jobs []job
	claimed := make(map[string]OperationKind)
	for _, kind := range graph.RootKinds() {
		for _, field := range graph.Root(kind).Fields {
			if strings.HasPrefix(field.Name, types.MetaFieldPrefix) {
				continue
			}
			bucket := cfg.classifier.Classify(field.Name)
			rel := filepath.Join(string(bucket), SafeFileName(field.Name)+"."+cfg.extension)
			if owner, taken := claimed[rel]; taken {
				alt := freePath(claimed, string(bucket), SafeFileName(OperationName(kind, field.Name)), cfg.extension)
				log.WithFields(logrus.Fields{
					"path":  rel,
					"owner": owner,
					"kind":  kind,
				}).Warnf("Output path already used, writing %s instead", alt)
				rel = alt
			}
			claimed[rel] = kind

			report.Total++
			report.Buckets[bucket]++
			report.Kinds[kind]++
			report.Files = append(report.Files, rel)
			jobs = append(jobs, job{kind: kind, field: field, bucket: bucket, path: rel})
		}
	}
	return jobs
}

// freePath returns dir/base.ext, or dir/base_N.ext with the smallest N >= 2
// that no earlier operation of the run claimed.
func freePath(claimed map[string]OperationKind, dir, base, ext string) string {
	path := filepath.Join(dir, base+"."+ext)
	for n := 2; ; n++ {
		if _, taken := claimed[path]; !taken {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.%s", base, n, ext))
	}
}

func emit(ctx context.Context, gen *Generator, validator *Validator, j job, root string, log logrus.FieldLogger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := gen.Build(j.kind, j.field)
	if err != nil {
		return err
	}
	if validator != nil {
		if err := validator.Validate(doc); err != nil {
			return err
		}
	}
	if err := writeFile(filepath.Join(root, j.path), []byte(doc.String())); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"kind":   j.kind,
		"field":  j.field.Name,
		"bucket": j.bucket,
		"path":   j.path,
	}).Debug("Wrote operation")
	return nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
