package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cardgen/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	LeadInConfig struct {
		ContainerClass     string  `yaml:"container_class"`
		ContainerMinLength int     `yaml:"container_min_length" validate:"gte=0"`
		MinLength          int     `yaml:"min_length" validate:"gte=0"`
		Separators         string  `yaml:"separators"`
		MaxLinkRatio       float64 `yaml:"max_link_ratio" validate:"gte=0,lte=1"`
		MaxItems           int     `yaml:"max_items" validate:"min=1"`
		FallbackTitle      string  `yaml:"fallback_title" validate:"required"`
	}

	ImagesConfig struct {
		RootMarker       string        `yaml:"root_marker" validate:"required"`
		CacheDir         string        `yaml:"cache_dir" validate:"required"`
		Extensions       []string      `yaml:"extensions" validate:"min=1,dive,required"`
		DefaultExtension string        `yaml:"default_extension" validate:"required"`
		FetchTimeout     time.Duration `yaml:"fetch_timeout" validate:"gte=0"`
		MaxDownloadSize  int64         `yaml:"max_download_size" validate:"gt=0"`
		UserAgent        string        `yaml:"user_agent"`
		AuthToken        SecretString  `yaml:"auth_token,omitempty"`
	}

	DocumentConfig struct {
		HeadingTags           []string     `yaml:"heading_tags" validate:"min=1,dive,oneof=h1 h2 h3 h4 h5 h6"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		LeadIn                LeadInConfig `yaml:"lead_in"`
		Images                ImagesConfig `yaml:"images"`
	}

	PaginationConfig struct {
		MaxTextUnits       int    `yaml:"max_text_units" validate:"min=1"`
		CharsPerLine       int    `yaml:"chars_per_line" validate:"min=1"`
		TitleAllowance     int    `yaml:"title_allowance" validate:"gte=0"`
		ImageAllowance     int    `yaml:"image_allowance" validate:"gte=0"`
		OverflowThreshold  int    `yaml:"overflow_threshold" validate:"min=1"`
		MinSplitTextUnits  int    `yaml:"min_split_text_units" validate:"min=1"`
		SplitTextUnits     int    `yaml:"split_text_units" validate:"min=1"`
		ContinuationUnits  int    `yaml:"continuation_units" validate:"gte=0"`
		LeadingUnits       int    `yaml:"leading_units" validate:"min=1"`
		MaxUnits           int    `yaml:"max_units" validate:"min=1"`
		TruncateLength     int    `yaml:"truncate_length" validate:"min=1"`
		Ellipsis           string `yaml:"ellipsis"`
		ContinuationSuffix string `yaml:"continuation_suffix" validate:"required"`
	}

	FontsConfig struct {
		Paths        []string `yaml:"paths"`
		TitleSize    float64  `yaml:"title_size" validate:"gt=0"`
		BodySize     float64  `yaml:"body_size" validate:"gt=0"`
		LabelSize    float64  `yaml:"label_size" validate:"gt=0"`
		AvgCharWidth int      `yaml:"avg_char_width" validate:"min=1"`
	}

	SchemeConfig struct {
		Name          string   `yaml:"name" validate:"required"`
		Background    HexColor `yaml:"background" validate:"hexcolor"`
		Title         HexColor `yaml:"title" validate:"hexcolor"`
		Body          HexColor `yaml:"body" validate:"hexcolor"`
		Accent        HexColor `yaml:"accent" validate:"hexcolor"`
		TagBackground HexColor `yaml:"tag_background" validate:"hexcolor"`
	}

	OutputConfig struct {
		Format      common.ImageFormat `yaml:"format"`
		JPEGQuality int                `yaml:"jpeg_quality" validate:"min=40,max=100"`
		DPI         int                `yaml:"dpi" validate:"min=0,max=32767"`
	}

	CardConfig struct {
		Size                int            `yaml:"size" validate:"min=320"`
		Padding             int            `yaml:"padding" validate:"gte=0"`
		HeaderOffset        int            `yaml:"header_offset" validate:"gte=0"`
		TitleMaxLines       int            `yaml:"title_max_lines" validate:"min=1"`
		TitleLineSpacing    float64        `yaml:"title_line_spacing" validate:"gt=0"`
		LineSpacing         float64        `yaml:"line_spacing" validate:"gt=0"`
		ParagraphSpacing    int            `yaml:"paragraph_spacing" validate:"gte=0"`
		FooterHeight        int            `yaml:"footer_height" validate:"gte=0"`
		BulletIndent        int            `yaml:"bullet_indent" validate:"gte=0"`
		ImageFocusTextLimit int            `yaml:"image_focus_text_limit" validate:"gte=0"`
		ImageFocusMaxHeight int            `yaml:"image_focus_max_height" validate:"min=1"`
		ImageMixedHeight    int            `yaml:"image_mixed_height" validate:"min=1"`
		Watermark           string         `yaml:"watermark"`
		Fonts               FontsConfig    `yaml:"fonts"`
		Schemes             []SchemeConfig `yaml:"schemes" validate:"min=1,dive"`
		Output              OutputConfig   `yaml:"output"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Document   DocumentConfig   `yaml:"document"`
		Pagination PaginationConfig `yaml:"pagination"`
		Card       CardConfig       `yaml:"card"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
