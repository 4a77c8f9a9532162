package main

import (
	"time"

	"pdfrag/internal/chunker"
	"pdfrag/internal/config"
	"pdfrag/internal/detect"
	"pdfrag/internal/index"
	"pdfrag/internal/layout"
	"pdfrag/internal/loader"
	"pdfrag/internal/ollama"
	"pdfrag/internal/query"
	"pdfrag/internal/render"
	"pdfrag/internal/service"
)

func loadConfig() (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, err
	}
	if chunkSize > 0 {
		cfg.Chunker.ChunkSize = chunkSize
	}
	if chunkOverlap > 0 {
		cfg.Chunker.ChunkOverlap = chunkOverlap
	}
	return cfg, nil
}

// buildService assembles the pipeline from configuration. Everything
// is constructed here and passed down; nothing holds global state.
func buildService(cfg *config.AppConfig) (*service.Service, *ollama.Client) {
	client := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Timeout: time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	})
	embedder := ollama.NewEmbedder(client, cfg.Ollama.EmbedModel)
	generator := ollama.NewGenerator(client, cfg.Ollama.LLMModel)

	cache := layout.NewCache(cfg.Layout.CacheDir)
	analyzer := layout.NewAnalyzer(
		cache,
		render.NewPoppler(cfg.Layout.RenderDPI),
		detect.NewClient(detect.Config{
			BaseURL:       cfg.Layout.DetectorURL,
			ConfThreshold: cfg.Layout.ConfThreshold,
			ImageSize:     cfg.Layout.ImageSize,
		}),
	)

	svc := service.New(service.Deps{
		Loader:         loader.New(cfg.PDFDir, loader.PDFExtractor{}, cache),
		Analyzer:       analyzer,
		Chunker:        chunker.NewSentenceChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap),
		Manager:        index.NewManager(cfg.StorageDir, embedder),
		Processor:      query.NewProcessor(embedder, generator, cfg.Query.TopK),
		Env:            client,
		RequiredModels: []string{cfg.Ollama.LLMModel, cfg.Ollama.EmbedModel},
	})
	return svc, client
}
