package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details and model identities for the
// local Ollama server. The embedding model must match between index
// build and query time.
type OllamaConfig struct {
	BaseURL     string `yaml:"base_url"`
	LLMModel    string `yaml:"llm_model"`
	EmbedModel  string `yaml:"embed_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures how documents are split into chunks. Both
// values are token counts.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// LayoutConfig configures layout analysis: the detection service and
// the knobs forwarded to it, plus the cache location.
type LayoutConfig struct {
	DetectorURL   string  `yaml:"detector_url"`
	ConfThreshold float64 `yaml:"conf_threshold"`
	ImageSize     int     `yaml:"image_size"`
	RenderDPI     int     `yaml:"render_dpi"`
	CacheDir      string  `yaml:"cache_dir"`
}

// QueryConfig configures the retrieval side of query answering.
type QueryConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	PDFDir     string        `yaml:"pdf_dir"`
	StorageDir string        `yaml:"storage_dir"`
	Ollama     OllamaConfig  `yaml:"ollama"`
	Chunker    ChunkerConfig `yaml:"chunker"`
	Layout     LayoutConfig  `yaml:"layout"`
	Query      QueryConfig   `yaml:"query"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pdfrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/pdfrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		PDFDir:     "pdfs",
		StorageDir: "storage",
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.PDFDir == "" {
		cfg.PDFDir = "pdfs"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "storage"
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.LLMModel == "" {
		cfg.Ollama.LLMModel = "gemma3:12b"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "nomic-embed-text:latest"
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = 120
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 512
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 50
	}
	if cfg.Layout.DetectorURL == "" {
		cfg.Layout.DetectorURL = "http://localhost:8000"
	}
	if cfg.Layout.ConfThreshold == 0 {
		cfg.Layout.ConfThreshold = 0.25
	}
	if cfg.Layout.ImageSize == 0 {
		cfg.Layout.ImageSize = 1024
	}
	if cfg.Layout.RenderDPI == 0 {
		cfg.Layout.RenderDPI = 150
	}
	if cfg.Layout.CacheDir == "" {
		cfg.Layout.CacheDir = "layout_outputs"
	}
	if cfg.Query.TopK == 0 {
		cfg.Query.TopK = 4
	}
}
