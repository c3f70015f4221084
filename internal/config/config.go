// Package config resolves the filter options from flags, environment
// variables, an optional YAML file and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	configName = ".pydoxy"
	envPrefix  = "PYDOXY"
)

// Option keys shared by flags, environment variables and the config file.
const (
	KeyAutoBrief      = "autobrief"
	KeyAutoCode       = "autocode"
	KeyNamespace      = "ns"
	KeyTabLength      = "tablength"
	KeyStripInit      = "stripinit"
	KeyObjectRespect  = "object-respect"
	KeyEqualIndent    = "equalindent"
	KeyKeepDecorators = "keepdecorators"
	KeyDebug          = "debug"
	KeyOutput         = "output"
)

// DefaultTabLength is the tab width used for indentation comparisons.
const DefaultTabLength = 4

// Options is the read-only configuration passed to the walker and rewriter.
type Options struct {
	Filename string `mapstructure:"-" validate:"required"`

	AutoBrief         bool   `mapstructure:"autobrief"`
	AutoCode          bool   `mapstructure:"autocode"`
	TopLevelNamespace string `mapstructure:"ns"`
	TabLength         int    `mapstructure:"tablength" validate:"min=1,max=64"`
	StripInit         bool   `mapstructure:"stripinit"`
	ObjectRespect     bool   `mapstructure:"object-respect"`
	EqualIndent       bool   `mapstructure:"equalindent"`
	KeepDecorators    bool   `mapstructure:"keepdecorators"`
	Debug             bool   `mapstructure:"debug"`
	Output            string `mapstructure:"output"`

	// FullPathNamespace is derived from Filename; see Namespace.
	FullPathNamespace string `mapstructure:"-"`
}

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// Validate checks the option values.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Default returns the options used when nothing else is configured.
func Default(filename string) *Options {
	return &Options{
		Filename:          filename,
		TabLength:         DefaultTabLength,
		FullPathNamespace: Namespace(filename, "", false),
	}
}

// SetDefaults registers the default value of every option on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAutoBrief, false)
	v.SetDefault(KeyAutoCode, false)
	v.SetDefault(KeyNamespace, "")
	v.SetDefault(KeyTabLength, DefaultTabLength)
	v.SetDefault(KeyStripInit, false)
	v.SetDefault(KeyObjectRespect, false)
	v.SetDefault(KeyEqualIndent, false)
	v.SetDefault(KeyKeepDecorators, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyOutput, "")
}

// NewViper builds a viper instance reading PYDOXY_* environment variables and
// the config file: cfgFile when given, otherwise .pydoxy.yaml in the current
// or home directory. A missing config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)                          // e.g., PYDOXY_AUTOBRIEF
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // object-respect -> PYDOXY_OBJECT_RESPECT
	v.AutomaticEnv()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals the options held by v for the given input file and
// derives the full path namespace.
func Load(v *viper.Viper, filename string) (*Options, error) {
	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	opts.Filename = filename
	opts.FullPathNamespace = Namespace(filename, opts.TopLevelNamespace, opts.StripInit)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Namespace turns a file path into the dotted module path used as the root
// of every namespace annotation. The ".py" suffix is dropped, the path is
// trimmed to start at topLevel when it occurs, and ".__init__" is removed
// when stripInit is set.
func Namespace(filename, topLevel string, stripInit bool) string {
	full := strings.ReplaceAll(filename, string(filepath.Separator), ".")
	if len(full) >= 3 {
		full = full[:len(full)-3]
	} else {
		full = ""
	}
	if topLevel != "" {
		if i := strings.Index(full, topLevel); i >= 0 {
			full = full[i:]
		}
	}
	if stripInit {
		full = strings.ReplaceAll(full, ".__init__", "")
	}
	return full
}
