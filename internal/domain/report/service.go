package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/careops/rosterpdf/internal/domain/adherence"
	"github.com/careops/rosterpdf/internal/domain/roster"
	"github.com/careops/rosterpdf/internal/platform/pdf"
)

// DefaultNarrative is the header text used when a run supplies none.
const DefaultNarrative = "<b>Provider Performance Summary</b><br/>" +
	"<i>Confidential. For internal use only.</i><br/><br/>" +
	"This report contains a list of attributed members for the provider " +
	"listed below. Please review carefully and contact Analytics if " +
	"discrepancies are identified."

// BuildRecorder receives one observation per completed build attempt.
// The telemetry provider satisfies it; a nil recorder disables recording.
type BuildRecorder interface {
	RecordBuild(outcome string, seconds float64, pages int, bytes int64)
}

// Outcome labels passed to the build recorder.
const (
	outcomeWritten = "written"
	outcomeFailed  = "failed"
)

// Config carries the run-level knobs for the report service.
type Config struct {
	OutputDir string
	Narrative string
	Workers   int
	Namer     func(roster.GroupKey) string
	Metrics   BuildRecorder
}

type Service struct {
	gen       *pdf.Generator
	outputDir string
	narrative string
	workers   int
	namer     func(roster.GroupKey) string
	metrics   BuildRecorder
	log       zerolog.Logger
}

func NewService(gen *pdf.Generator, cfg Config, log zerolog.Logger) *Service {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Narrative == "" {
		cfg.Narrative = DefaultNarrative
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Namer == nil {
		cfg.Namer = roster.FileName
	}
	return &Service{
		gen:       gen,
		outputDir: cfg.OutputDir,
		narrative: cfg.Narrative,
		workers:   cfg.Workers,
		namer:     cfg.Namer,
		metrics:   cfg.Metrics,
		log:       log,
	}
}

// Measures reports the measure definitions the generator charts.
func (s *Service) Measures() []adherence.MeasureDef {
	return s.gen.Measures()
}

// Run fetches records from src, groups them, and builds every group.
func (s *Service) Run(ctx context.Context, src roster.Source) ([]Result, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return s.BuildAll(ctx, roster.GroupRecords(records))
}

// BuildAll writes one document per group. A failed group is recorded in its
// Result and never aborts the rest of the batch; the returned error is
// non-nil only when the batch itself could not run or was canceled.
func (s *Service) BuildAll(ctx context.Context, groups []roster.RecordGroup) ([]Result, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	runID := uuid.New()
	log := s.log.With().Str("run_id", runID.String()).Logger()
	log.Info().
		Int("groups", len(groups)).
		Int("workers", s.workers).
		Str("output_dir", s.outputDir).
		Msg("report batch started")

	results := make([]Result, len(groups))
	var eg errgroup.Group
	eg.SetLimit(s.workers)

	next := 0
	for ; next < len(groups); next++ {
		if ctx.Err() != nil {
			break
		}
		i, g := next, groups[next]
		eg.Go(func() error {
			art, err := s.buildGroup(g)
			results[i] = Result{Key: g.Key, Artifact: art, Err: err}
			if err != nil {
				log.Error().Err(err).Str("group", g.Key.String()).Msg("report build failed")
			} else {
				log.Info().
					Str("group", g.Key.String()).
					Str("file", art.FileName).
					Int("pages", art.Pages).
					Int64("bytes", art.Bytes).
					Msg("report written")
			}
			// per-group failures live in results, not in the errgroup
			return nil
		})
	}
	_ = eg.Wait()

	for i := next; i < len(groups); i++ {
		results[i] = Result{Key: groups[i].Key, Err: ctx.Err()}
	}

	written, failed := 0, 0
	for i := range results {
		if results[i].Failed() {
			failed++
		} else {
			written++
		}
	}
	log.Info().Int("written", written).Int("failed", failed).Msg("report batch finished")

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// BuildGroup writes a single group's document into the output directory.
func (s *Service) BuildGroup(ctx context.Context, group roster.RecordGroup) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("output dir: %w", err)
	}
	art, err := s.buildGroup(group)
	if err != nil {
		s.log.Error().Err(err).Str("group", group.Key.String()).Msg("report build failed")
		return Artifact{}, err
	}
	s.log.Info().
		Str("group", group.Key.String()).
		Str("file", art.FileName).
		Int("pages", art.Pages).
		Int64("bytes", art.Bytes).
		Msg("report written")
	return art, nil
}

// ListArtifacts returns the documents currently in the output directory,
// sorted by file name. A missing directory is an empty inventory, not an
// error.
func (s *Service) ListArtifacts() ([]ArtifactInfo, error) {
	entries, err := os.ReadDir(s.outputDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list output dir: %w", err)
	}

	var infos []ArtifactInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ArtifactInfo{
			FileName:   e.Name(),
			Bytes:      fi.Size(),
			ModifiedAt: fi.ModTime(),
		})
	}
	return infos, nil
}

// Render builds a single group's document in memory, without touching disk.
func (s *Service) Render(ctx context.Context, group roster.RecordGroup, narrative string) (*pdf.Document, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if narrative == "" {
		narrative = s.narrative
	}
	doc, err := s.gen.Build(group, narrative)
	if err != nil {
		return nil, "", err
	}
	return doc, s.namer(group.Key), nil
}

func (s *Service) buildGroup(group roster.RecordGroup) (Artifact, error) {
	start := time.Now()
	art, err := s.renderToDisk(group)
	if s.metrics != nil {
		if err != nil {
			s.metrics.RecordBuild(outcomeFailed, time.Since(start).Seconds(), 0, 0)
		} else {
			s.metrics.RecordBuild(outcomeWritten, time.Since(start).Seconds(), art.Pages, art.Bytes)
		}
	}
	return art, err
}

func (s *Service) renderToDisk(group roster.RecordGroup) (Artifact, error) {
	doc, err := s.gen.Build(group, s.narrative)
	if err != nil {
		return Artifact{}, err
	}
	name := s.namer(group.Key)
	path := filepath.Join(s.outputDir, name)
	n, err := doc.WriteFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", group.Key, err)
	}
	return Artifact{
		ID:       uuid.New(),
		Key:      group.Key,
		FileName: name,
		Path:     path,
		Pages:    doc.Pages(),
		Bytes:    n,
	}, nil
}
