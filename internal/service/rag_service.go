// Package service orchestrates the pipeline: layout analysis, PDF
// loading, chunking, index lifecycle and query answering. A Service
// is constructed explicitly and handed to whichever entry point needs
// it; there is no package-level instance.
package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"pdfrag/internal/chunker"
	"pdfrag/internal/domain"
	"pdfrag/internal/index"
	"pdfrag/internal/layout"
	"pdfrag/internal/loader"
	"pdfrag/internal/query"
)

// EnvChecker verifies the model server before pipeline work starts.
// *ollama.Client satisfies it.
type EnvChecker interface {
	Version(ctx context.Context) (string, error)
	CheckModels(ctx context.Context, required []string) (map[string]bool, error)
}

// Deps are the collaborators a Service orchestrates.
type Deps struct {
	Loader         *loader.Loader
	Analyzer       *layout.Analyzer
	Chunker        domain.Chunker
	Manager        *index.Manager
	Processor      *query.Processor
	Env            EnvChecker
	RequiredModels []string
}

type Service struct {
	deps  Deps
	index *index.Index
}

func New(deps Deps) *Service {
	return &Service{deps: deps}
}

// HasIndex reports whether an index is loaded in memory.
func (s *Service) HasIndex() bool { return s.index != nil }

// LoadExistingIndex restores the last persisted index, if any.
func (s *Service) LoadExistingIndex() (bool, error) {
	ix, err := s.deps.Manager.Load()
	if err != nil {
		return false, err
	}
	if ix == nil {
		return false, nil
	}
	s.index = ix
	return true, nil
}

// CheckEnvironment verifies the model server is reachable and the
// required models are present. Callers can remediate and retry; no
// pipeline state is touched.
func (s *Service) CheckEnvironment(ctx context.Context) error {
	if s.deps.Env == nil {
		return nil
	}
	if _, err := s.deps.Env.Version(ctx); err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	status, err := s.deps.Env.CheckModels(ctx, s.deps.RequiredModels)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	var missing []string
	for _, model := range s.deps.RequiredModels {
		if !status[model] {
			missing = append(missing, model)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing models: %s (pull with: ollama pull <model>)", strings.Join(missing, ", "))
	}
	return nil
}

// AnalyzeLayouts runs layout analysis over every PDF in the source
// directory. Documents with a cache entry are skipped inside the
// analyzer; a document that fails is logged and skipped, never fatal.
func (s *Service) AnalyzeLayouts(ctx context.Context) error {
	if s.deps.Analyzer == nil {
		return nil
	}
	paths, err := s.deps.Loader.ListPDFs()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := s.deps.Analyzer.Analyze(ctx, path); err != nil {
			log.Printf("warning: layout analysis failed for %s: %v", filepath.Base(path), err)
		}
	}
	return nil
}

// BuildIndex runs the full ingestion pipeline: load all PDFs, chunk,
// embed, build and persist the index. A failed build leaves any
// previously persisted index untouched.
func (s *Service) BuildIndex(ctx context.Context) error {
	documents, err := s.deps.Loader.LoadAll()
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		return fmt.Errorf("no documents loaded")
	}
	log.Printf("loaded %d documents", len(documents))

	chunks, err := chunker.ChunkAll(s.deps.Chunker, documents)
	if err != nil {
		return err
	}
	log.Printf("created %d chunks from %d documents", len(chunks), len(documents))

	ix, err := s.deps.Manager.Create(ctx, chunks)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := s.deps.Manager.Persist(ix); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	s.index = ix
	return nil
}

// Query answers a question against the index. If no index is in
// memory it first tries the persisted one, then falls back to a full
// ingestion build. When no index can be produced it returns
// domain.ErrNoIndex rather than failing hard.
func (s *Service) Query(ctx context.Context, text string) (*domain.QueryResult, error) {
	if s.index == nil {
		if _, err := s.LoadExistingIndex(); err != nil {
			return nil, err
		}
	}
	if s.index == nil {
		log.Printf("no index available, building one first")
		if err := s.AnalyzeLayouts(ctx); err != nil {
			return nil, err
		}
		if err := s.BuildIndex(ctx); err != nil {
			log.Printf("warning: index build failed: %v", err)
			return nil, domain.ErrNoIndex
		}
	}
	return s.deps.Processor.Query(ctx, s.index, text)
}
