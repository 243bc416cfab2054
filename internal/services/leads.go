package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"leadscli/internal/dataprocessing"
	"leadscli/internal/exporter"
	"leadscli/internal/infrastructure"
)

// Mode names accepted by the API and the CLI.
const (
	ModeCombine = "combine"
	ModeClean   = "clean"
	ModeCheck   = "check"
	ModeSplit   = "split"
)

// timestampLayout is used in generated combined/archive filenames.
const timestampLayout = "2006-01-02_15-04-05"

// UploadedFile is a named byte blob received from the user.
type UploadedFile struct {
	Name string
	Data []byte
}

// OutputFile is a named byte blob produced for user retrieval.
type OutputFile struct {
	Name string
	Data []byte
}

// FileStatus classifies the outcome for one input file.
type FileStatus string

const (
	StatusCleaned FileStatus = "cleaned"
	StatusEmpty   FileStatus = "empty"
	StatusSkipped FileStatus = "skipped"
)

// FileReport describes what happened to one input file.
type FileReport struct {
	File    string     `json:"file"`
	Status  FileStatus `json:"status"`
	Rows    int        `json:"rows"`
	Outputs []string   `json:"outputs,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Result is the outcome of one mode run: the downloadable files, an optional
// bundling archive, and a per-input report list in input order.
type Result struct {
	Files   []OutputFile
	Archive *OutputFile
	Reports []FileReport
}

// LeadService sequences the dataprocessing core into the four
// user-selectable modes.
type LeadService struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	workers int
	now     func() time.Time
}

// NewLeadService creates a lead service. workers bounds per-file concurrency
// in the batch modes; values below 1 mean sequential.
func NewLeadService(logger *slog.Logger, metrics *infrastructure.Metrics, workers int) *LeadService {
	if workers < 1 {
		workers = 1
	}
	return &LeadService{
		logger:  logger.With(slog.String("component", "lead_service")),
		metrics: metrics,
		workers: workers,
		now:     time.Now,
	}
}

// CombineAndClean parses every file, concatenates them into one table and
// deduplicates it. Any parse failure aborts the whole run: no partial
// combined output is ever produced.
func (s *LeadService) CombineAndClean(ctx context.Context, files []UploadedFile) (*Result, error) {
	tables := make([]dataprocessing.Table, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := dataprocessing.ParseFile(f.Name, f.Data)
		if err != nil {
			s.countFile(ModeCombine, "error")
			return nil, err
		}
		tables = append(tables, t)
	}

	combined := dataprocessing.Combine(tables...)
	if combined.Empty() {
		s.logger.WarnContext(ctx, "no data to process", slog.Int("files", len(files)))
		return &Result{Reports: []FileReport{{Status: StatusEmpty, Error: "no data to process"}}}, nil
	}

	cleaned, err := dataprocessing.Deduplicate(combined)
	if err != nil {
		return nil, fmt.Errorf("combined data: %w", err)
	}
	s.countRemoved(ModeCombine, combined.RowCount()-cleaned.RowCount())

	data, err := exporter.EncodeCSV(cleaned, exporter.EncodeOptions{BOMPrefix: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode combined output: %w", err)
	}

	name := fmt.Sprintf("COMBINED_CLEAN_LEADS_%s.csv", s.now().Format(timestampLayout))
	s.countFile(ModeCombine, string(StatusCleaned))
	s.logger.InfoContext(ctx, "combine-and-clean finished",
		slog.Int("input_files", len(files)),
		slog.Int("input_rows", combined.RowCount()),
		slog.Int("output_rows", cleaned.RowCount()))

	return &Result{
		Files:   []OutputFile{{Name: name, Data: data}},
		Reports: []FileReport{{File: name, Status: StatusCleaned, Rows: cleaned.RowCount(), Outputs: []string{name}}},
	}, nil
}

// CleanEach deduplicates every file independently. Per-file failures are
// reported and the batch continues; files are processed concurrently since
// they share no state.
func (s *LeadService) CleanEach(ctx context.Context, files []UploadedFile) (*Result, error) {
	reports := make([]FileReport, len(files))
	outputs := make([]*OutputFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			out, report := s.cleanOne(ctx, f)
			outputs[i], reports[i] = out, report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Reports: reports}
	for _, out := range outputs {
		if out != nil {
			result.Files = append(result.Files, *out)
		}
	}
	return result, nil
}

// cleanOne runs the clean-each pipeline for a single file.
func (s *LeadService) cleanOne(ctx context.Context, f UploadedFile) (*OutputFile, FileReport) {
	t, err := dataprocessing.ParseFile(f.Name, f.Data)
	if err != nil {
		return nil, s.skip(ctx, ModeClean, f.Name, err)
	}

	cleaned, err := dataprocessing.Deduplicate(t)
	if err != nil {
		return nil, s.skip(ctx, ModeClean, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}
	s.countRemoved(ModeClean, t.RowCount()-cleaned.RowCount())

	if cleaned.Empty() {
		s.countFile(ModeClean, string(StatusEmpty))
		return nil, FileReport{File: f.Name, Status: StatusEmpty}
	}

	data, err := exporter.EncodeCSV(cleaned, exporter.EncodeOptions{BOMPrefix: true})
	if err != nil {
		return nil, s.skip(ctx, ModeClean, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}

	name := baseName(f.Name) + "_CLEAN.csv"
	s.countFile(ModeClean, string(StatusCleaned))
	return &OutputFile{Name: name, Data: data},
		FileReport{File: f.Name, Status: StatusCleaned, Rows: cleaned.RowCount(), Outputs: []string{name}}
}

// CheckAgainstReference combines and deduplicates the reference files, then
// checks every candidate against them: self-dedup first, then subtraction.
// A failure while building the reference aborts the run; per-candidate
// failures are reported and the batch continues. Emitted files are also
// bundled into a timestamped archive.
func (s *LeadService) CheckAgainstReference(ctx context.Context, reference, candidates []UploadedFile) (*Result, error) {
	refTables := make([]dataprocessing.Table, 0, len(reference))
	for _, f := range reference {
		t, err := dataprocessing.ParseFile(f.Name, f.Data)
		if err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		refTables = append(refTables, t)
	}

	refTable, err := dataprocessing.Deduplicate(dataprocessing.Combine(refTables...))
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	s.logger.InfoContext(ctx, "reference table built",
		slog.Int("files", len(reference)),
		slog.Int("rows", refTable.RowCount()))

	reports := make([]FileReport, len(candidates))
	outputs := make([]*OutputFile, len(candidates))

	// The reference table is immutable from here on, so candidates can be
	// checked concurrently.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range candidates {
		i, f := i, f
		g.Go(func() error {
			out, report := s.checkOne(ctx, refTable, f)
			outputs[i], reports[i] = out, report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Reports: reports}
	for _, out := range outputs {
		if out != nil {
			result.Files = append(result.Files, *out)
		}
	}

	if len(result.Files) > 0 {
		archive, err := s.buildArchive(
			fmt.Sprintf("CHECKED_CLEANED_LEADS_%s.zip", s.now().Format(timestampLayout)),
			result.Files)
		if err != nil {
			return nil, err
		}
		result.Archive = archive
	}
	return result, nil
}

// checkOne runs the check pipeline for a single candidate file.
func (s *LeadService) checkOne(ctx context.Context, refTable dataprocessing.Table, f UploadedFile) (*OutputFile, FileReport) {
	t, err := dataprocessing.ParseFile(f.Name, f.Data)
	if err != nil {
		return nil, s.skip(ctx, ModeCheck, f.Name, err)
	}

	deduped, err := dataprocessing.Deduplicate(t)
	if err != nil {
		return nil, s.skip(ctx, ModeCheck, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}

	checked, err := dataprocessing.Subtract(refTable, deduped)
	if err != nil {
		return nil, s.skip(ctx, ModeCheck, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}
	s.countRemoved(ModeCheck, t.RowCount()-checked.RowCount())

	if checked.Empty() {
		s.logger.WarnContext(ctx, "file empty after checking", slog.String("file", f.Name))
		s.countFile(ModeCheck, string(StatusEmpty))
		return nil, FileReport{File: f.Name, Status: StatusEmpty}
	}

	data, err := exporter.EncodeCSV(checked, exporter.EncodeOptions{BOMPrefix: true})
	if err != nil {
		return nil, s.skip(ctx, ModeCheck, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}

	name := baseName(f.Name) + "_CHECKED_CLEANED.csv"
	s.countFile(ModeCheck, string(StatusCleaned))
	return &OutputFile{Name: name, Data: data},
		FileReport{File: f.Name, Status: StatusCleaned, Rows: checked.RowCount(), Outputs: []string{name}}
}

// Split partitions every file on the open flag into an Inmail (true) and an
// Invite (false) output. Empty partitions are not emitted. All outputs are
// bundled into a single archive covering the batch.
func (s *LeadService) Split(ctx context.Context, files []UploadedFile) (*Result, error) {
	reports := make([]FileReport, len(files))
	outputs := make([][]OutputFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			outs, report := s.splitOne(ctx, f)
			outputs[i], reports[i] = outs, report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Reports: reports}
	for _, outs := range outputs {
		result.Files = append(result.Files, outs...)
	}

	if len(result.Files) > 0 {
		archive, err := s.buildArchive("AllFiles.zip", result.Files)
		if err != nil {
			return nil, err
		}
		result.Archive = archive
	}
	return result, nil
}

// splitOne runs the split pipeline for a single file.
func (s *LeadService) splitOne(ctx context.Context, f UploadedFile) ([]OutputFile, FileReport) {
	t, err := dataprocessing.ParseFile(f.Name, f.Data)
	if err != nil {
		return nil, s.skip(ctx, ModeSplit, f.Name, err)
	}

	open, closed, err := dataprocessing.Partition(t)
	if err != nil {
		return nil, s.skip(ctx, ModeSplit, f.Name, fmt.Errorf("%s: %w", f.Name, err))
	}

	base := baseName(f.Name)
	var outs []OutputFile
	for _, part := range []struct {
		table  dataprocessing.Table
		suffix string
	}{
		{open, "_Inmail.csv"},
		{closed, "_Invite.csv"},
	} {
		if part.table.Empty() {
			continue
		}
		data, err := exporter.EncodeCSV(part.table, exporter.EncodeOptions{BOMPrefix: true})
		if err != nil {
			return nil, s.skip(ctx, ModeSplit, f.Name, fmt.Errorf("%s: %w", f.Name, err))
		}
		outs = append(outs, OutputFile{Name: base + part.suffix, Data: data})
	}

	report := FileReport{File: f.Name, Rows: open.RowCount() + closed.RowCount()}
	if len(outs) == 0 {
		s.countFile(ModeSplit, string(StatusEmpty))
		report.Status = StatusEmpty
		return nil, report
	}

	report.Status = StatusCleaned
	for _, out := range outs {
		report.Outputs = append(report.Outputs, out.Name)
	}
	s.countFile(ModeSplit, string(StatusCleaned))
	return outs, report
}

// buildArchive bundles output files into a named ZIP.
func (s *LeadService) buildArchive(name string, files []OutputFile) (*OutputFile, error) {
	entries := make([]exporter.ArchiveEntry, len(files))
	for i, f := range files {
		entries[i] = exporter.ArchiveEntry{Name: f.Name, Data: f.Data}
	}
	data, err := exporter.BuildArchive(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", name, err)
	}
	return &OutputFile{Name: name, Data: data}, nil
}

// skip records a per-file failure and keeps the batch going.
func (s *LeadService) skip(ctx context.Context, mode, file string, err error) FileReport {
	s.logger.ErrorContext(ctx, "file skipped",
		slog.String("mode", mode),
		slog.String("file", file),
		slog.String("error", err.Error()))
	s.countFile(mode, string(StatusSkipped))
	return FileReport{File: file, Status: StatusSkipped, Error: err.Error()}
}

func (s *LeadService) countFile(mode, status string) {
	if s.metrics != nil {
		s.metrics.FilesProcessed.WithLabelValues(mode, status).Inc()
	}
}

func (s *LeadService) countRemoved(mode string, rows int) {
	if s.metrics != nil && rows > 0 {
		s.metrics.RowsRemoved.WithLabelValues(mode).Add(float64(rows))
	}
}

// baseName strips the directory and extension from an uploaded filename.
func baseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidMode reports whether mode names one of the four flows.
func ValidMode(mode string) bool {
	switch mode {
	case ModeCombine, ModeClean, ModeCheck, ModeSplit:
		return true
	}
	return false
}
