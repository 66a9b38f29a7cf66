package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/trace"
)

// Metric keys.
const (
	AssertionsCountKey  = "flicker_assertions_count"
	WinscopeFilePathKey = "winscope_file_path"
	StatusKey           = MetricsPrefix + "_STATUS"
)

// Status codes written under StatusKey.
const (
	StatusOK             = 0
	StatusExecutionError = 1
)

// Run is the outcome of collecting one test run.
type Run struct {
	ID           string
	Test         string
	ArtifactPath string
	Scenarios    []*scenario.Instance
	Results      []assertion.Result
	Aggregated   map[string]*AggregatedResult
}

// Failed reports whether any assertion of the run failed.
func (r *Run) Failed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return true
		}
	}
	return false
}

// Recorder persists collected runs.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
}

// Collector runs the assertion pipeline and keeps per-test bookkeeping.
//
// Thread-safety: Collect may be called concurrently for different tests.
type Collector struct {
	detector scenario.Detector
	factory  *assertion.Factory
	executor *assertion.Executor
	recorder Recorder
	logger   *slog.Logger
	newID    func() string

	reportOnlyForPassingTests bool

	mu              sync.Mutex
	executionErrors []error
	results         []assertion.Result
	resultsByTest   map[string][]assertion.Result
	scenariosByTest map[string][]scenario.Type
}

// Option configures a Collector.
type Option func(*Collector)

// WithReportOnlyForPassingTests skips processing of runs whose test failed.
func WithReportOnlyForPassingTests(enabled bool) Option {
	return func(c *Collector) {
		c.reportOnlyForPassingTests = enabled
	}
}

// WithExecutor sets the assertion executor.
func WithExecutor(x *assertion.Executor) Option {
	return func(c *Collector) {
		c.executor = x
	}
}

// WithRecorder persists every processed run.
func WithRecorder(r Recorder) Option {
	return func(c *Collector) {
		c.recorder = r
	}
}

// WithLogger sets the collector's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides run ID generation. The default is UUIDv7.
func WithIDGenerator(fn func() string) Option {
	return func(c *Collector) {
		c.newID = fn
	}
}

// New creates a collector that detects scenarios with detector and
// generates their assertions from registry.
func New(detector scenario.Detector, registry *assertion.Registry, opts ...Option) *Collector {
	c := &Collector{
		detector:        detector,
		factory:         assertion.NewFactory(registry),
		logger:          slog.Default(),
		newID:           func() string { return uuid.Must(uuid.NewV7()).String() },
		resultsByTest:   make(map[string][]assertion.Result),
		scenariosByTest: make(map[string][]scenario.Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.executor == nil {
		c.executor = assertion.NewExecutor(assertion.WithLogger(c.logger))
	}
	return c
}

// Collect processes the traces of one test run and writes its metrics to
// sink. test identifies the run for ResultsForTest; an empty test skips the
// per-test bookkeeping.
//
// Pipeline errors are recorded as execution errors and yield a nil Run.
// The returned error is non-nil only for configuration errors such as
// ErrStabilityMismatch.
func (c *Collector) Collect(ctx context.Context, test string, reader trace.Reader, sink MetricsSink, testFailed bool) (run *Run, err error) {
	if c.reportOnlyForPassingTests && testFailed {
		c.logger.Info("skipping failed test", "test", test)
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			c.recordError(fmt.Errorf("panic while processing %q: %v", test, r))
			run, err = nil, nil
		}
	}()
	defer sink.AddStringMetric(WinscopeFilePathKey, reader.ArtifactPath())

	run, err = c.process(ctx, test, reader, sink)
	if errors.Is(err, ErrStabilityMismatch) {
		return nil, err
	}
	if err != nil {
		c.recordError(err)
		return nil, nil
	}
	return run, nil
}

func (c *Collector) process(ctx context.Context, test string, reader trace.Reader, sink MetricsSink) (*Run, error) {
	log := c.logger.With("test", test, "artifact", reader.ArtifactPath())
	log.Info("processing traces")

	instances, err := c.detector.Detect(ctx, reader)
	if err != nil {
		return nil, fmt.Errorf("detect scenarios: %w", err)
	}

	var results []assertion.Result
	for _, inst := range instances {
		assertions := c.factory.GenerateAssertionsFor(inst)
		res, err := c.executor.Run(ctx, assertions, inst)
		if err != nil {
			return nil, fmt.Errorf("execute %s: %w", inst.Type, err)
		}
		results = append(results, res...)
	}

	// aggregate before any bookkeeping so a misconfigured run leaves none
	aggregated, err := ProcessResults(results)
	if err != nil {
		return nil, err
	}
	updateStatus(reader, trace.RunStatusExecuted)
	log.Info("got results", "count", len(results))

	if err := c.remember(test, instances, results); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           c.newID(),
		Test:         test,
		ArtifactPath: reader.ArtifactPath(),
		Scenarios:    instances,
		Results:      results,
		Aggregated:   aggregated,
	}
	if run.Failed() {
		updateStatus(reader, trace.RunStatusAssertionFailed)
	} else {
		updateStatus(reader, trace.RunStatusAssertionPassed)
	}

	sink.AddStringMetric(AssertionsCountKey, strconv.Itoa(len(results)))

	for _, m := range resultMetrics(run.Aggregated) {
		sink.AddStringMetric(m[0], m[1])
	}

	if c.recorder != nil {
		if err := c.recorder.RecordRun(ctx, run); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	return run, nil
}

func (c *Collector) remember(test string, instances []*scenario.Instance, results []assertion.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, results...)
	if test == "" {
		return nil
	}
	if _, ok := c.resultsByTest[test]; ok {
		return fmt.Errorf("test %q already has assertion results", test)
	}
	if _, ok := c.scenariosByTest[test]; ok {
		return fmt.Errorf("test %q already has detected scenarios", test)
	}

	var types []scenario.Type
	seen := make(map[scenario.Type]bool)
	for _, inst := range instances {
		if !seen[inst.Type] {
			seen[inst.Type] = true
			types = append(types, inst.Type)
		}
	}
	c.resultsByTest[test] = results
	c.scenariosByTest[test] = types
	return nil
}

func (c *Collector) recordError(err error) {
	c.logger.Error("error executing in results collector", "error", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executionErrors = append(c.executionErrors, err)
}

func updateStatus(reader trace.Reader, status trace.RunStatus) {
	if u, ok := reader.(trace.StatusUpdater); ok {
		u.UpdateStatus(status)
	}
}

// ReportStatus writes the execution status to sink.
func (c *Collector) ReportStatus(sink MetricsSink) {
	status := StatusOK
	if len(c.ExecutionErrors()) > 0 {
		status = StatusExecutionError
	}
	sink.AddStringMetric(StatusKey, strconv.Itoa(status))
}

// ExecutionErrors returns the errors recorded so far.
func (c *Collector) ExecutionErrors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.executionErrors...)
}

// Results returns every result collected so far.
func (c *Collector) Results() []assertion.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]assertion.Result(nil), c.results...)
}

// ResultsForTest returns the results collected for test.
func (c *Collector) ResultsForTest(test string) ([]assertion.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.resultsByTest[test]
	if !ok {
		return nil, fmt.Errorf("no results set for test %q: %w", test, trace.ErrNotFound)
	}
	return res, nil
}

// DetectedScenariosForTest returns the distinct scenario types detected
// for test, in detection order.
func (c *Collector) DetectedScenariosForTest(test string) ([]scenario.Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	types, ok := c.scenariosByTest[test]
	if !ok {
		return nil, fmt.Errorf("no detected scenarios set for test %q: %w", test, trace.ErrNotFound)
	}
	return types, nil
}
