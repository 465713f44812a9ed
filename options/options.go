// Package options holds the engine configuration: which value conversions are allowed,
// how textual booleans are read, how column segments are matched against field names,
// and where build diagnostics are logged.
package options

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAffirmative is the marker a textual boolean cell must equal to read as true.
	DefaultAffirmative = "y"
	// DefaultTag is the struct tag consulted for column name overrides.
	DefaultTag = "db"
)

// Options configures a materializer and the converter it owns.
type Options struct {
	// Categories enables conversions between differing cell and field kinds.
	Categories CategoryEnum `yaml:"categories"`
	// Affirmative is compared against trimmed, lower-cased text cells bound to bool fields.
	Affirmative string `yaml:"affirmative"`
	// LooseNames also matches segments and fields ignoring case, '_', '-' and spaces
	// (delivery_time matches DeliveryTime).
	LooseNames bool `yaml:"loose_names"`
	// Tag is the struct tag holding column name overrides; "-" skips a field.
	Tag string `yaml:"tag"`
	// NoCache disables reuse of built map trees across calls.
	NoCache bool `yaml:"no_cache"`
	// Logger receives build diagnostics; nil disables logging.
	Logger *log.Logger `yaml:"-"`
}

// Option mutates Options.
type Option func(*Options)

// Default returns the options used when none are given.
func Default() Options {
	return Options{
		Categories:  CategoryDefault,
		Affirmative: DefaultAffirmative,
		Tag:         DefaultTag,
	}
}

// New applies opts on top of Default.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}

	applyDefaults(&o)

	return o
}

func WithCategories(c CategoryEnum) Option {
	return func(o *Options) { o.Categories = c }
}

// WithAffirmative sets the textual boolean marker, e.g. "s" for sources writing 'S'/'N'.
func WithAffirmative(marker string) Option {
	return func(o *Options) { o.Affirmative = marker }
}

func WithLooseNames() Option {
	return func(o *Options) { o.LooseNames = true }
}

func WithTag(tag string) Option {
	return func(o *Options) { o.Tag = tag }
}

func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithoutCache() Option {
	return func(o *Options) { o.NoCache = true }
}

// With returns a copy of o with opts applied.
func (o Options) With(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}

	applyDefaults(&o)

	return o
}

// Logf logs through the configured logger, if any.
func (o Options) Logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// LoadFile loads options from a YAML file.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML options. Keys left out keep their default values.
func Parse(data []byte) (Options, error) {
	o := Default()

	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("failed to parse options YAML: %w", err)
	}

	applyDefaults(&o)

	return o, nil
}

// applyDefaults normalizes fields that must never be empty.
func applyDefaults(o *Options) {
	o.Affirmative = normalizeMarker(o.Affirmative)
	if o.Affirmative == "" {
		o.Affirmative = DefaultAffirmative
	}

	if o.Tag == "" {
		o.Tag = DefaultTag
	}
}

func normalizeMarker(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
