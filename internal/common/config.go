package common

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	OCR        OCRConfig        `mapstructure:"ocr" yaml:"ocr"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Export     ExportConfig     `mapstructure:"export" yaml:"export"`
}

// ProcessingConfig holds orchestrator-related configuration
type ProcessingConfig struct {
	Workers     int           `mapstructure:"workers" yaml:"workers"`
	FileTimeout time.Duration `mapstructure:"file_timeout" yaml:"file_timeout"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext     string `mapstructure:"pdftotext" yaml:"pdftotext"`
	Pdftoppm      string `mapstructure:"pdftoppm" yaml:"pdftoppm"`
	Tesseract     string `mapstructure:"tesseract" yaml:"tesseract"`
	TesseractLang string `mapstructure:"tesseract_lang" yaml:"tesseract_lang"`
	DocConverter  string `mapstructure:"doc_converter" yaml:"doc_converter"`
	DPI           int    `mapstructure:"dpi" yaml:"dpi"`
	MaxPages      int    `mapstructure:"max_pages" yaml:"max_pages"`
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
}

// SetDefaults registers the default configuration values with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("processing.workers", 4)
	v.SetDefault("processing.file_timeout", 2*time.Minute)
	v.SetDefault("ocr.pdftotext", "pdftotext")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.tesseract_lang", "eng")
	v.SetDefault("ocr.doc_converter", "antiword")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 10)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("export.sheet_name", "Applications")
}

// LoadConfig materializes a Config from the viper instance.
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, WrapError(err, "unmarshal config")
	}
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Processing.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "processing.workers must be positive", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "ocr.dpi must be positive", ErrInvalidInput)
	}
	if c.Export.SheetName == "" {
		return NewAppError("CONFIG_ERROR", "export.sheet_name is required", ErrInvalidInput)
	}
	return nil
}
