package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/abiiranathan/pdfcount/pdf"
	"github.com/abiiranathan/pdfcount/search"
	"github.com/abiiranathan/pdfcount/table"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "PDFCOUNT"

	// Read from the working directory when --config is not given.
	defaultConfigFile = "pdfcount.yaml"
)

// Config holds the configuration for the CLI.
type Config struct {
	// Comma-separated words from the first argument.
	Words []string

	// Files, directories or globs. Empty means *.pdf in the working directory.
	PDFs []string

	LogLevel string
	LogJSON  bool

	// Options passed on to search.SearchPDFs.
	Options search.Options
}

// DefaultConfig mirrors the flag defaults.
var DefaultConfig = Config{
	LogLevel: "INFO",
	Options: search.Options{
		Extractor: pdf.BackendPlain,
		Form:      search.DefaultForm,
		Backend:   table.BackendSimple,
		Workers:   1,
	},
}

// newViper layers flags over PDFCOUNT_* environment variables over the
// optional YAML config file. Keys are the flag names.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	path := v.GetString("config")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return v, nil
		}
		path = defaultConfigFile
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &search.ConfigError{Option: "config", Value: path, Err: err}
	}
	return v, nil
}

// Load builds the Config for a run from v and the positional arguments.
func Load(v *viper.Viper, args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, &search.ConfigError{Option: "words", Err: errors.New("missing word list")}
	}

	cfg := &Config{
		Words:    search.SplitList(args[0]),
		PDFs:     args[1:],
		LogLevel: v.GetString("log-level"),
		LogJSON:  v.GetBool("log-json"),
	}

	extractor := v.GetString("extractor")
	if v.GetBool("miner") {
		extractor = pdf.BackendLayout
	}

	cfg.Options = search.Options{
		CaseSensitive: v.GetBool("case"),
		Pages:         v.GetString("pages"),
		Extractor:     extractor,
		PageProgress:  v.GetInt("pprint"),
		FileProgress:  v.GetInt("ppdf"),
		Unicode:       v.GetBool("unicode"),
		Form:          strings.ToUpper(v.GetString("form")),
		Tokens:        v.GetBool("tokens"),

		Outfile:    v.GetString("outfile"),
		Show:       v.GetBool("show"),
		Sort:       stringList(v, "sort"),
		Descending: v.GetBool("desc"),
		Backend:    v.GetString("backend"),
		Top:        v.GetInt("top"),

		Separators:    v.GetString("dsep"),
		Year:          v.GetBool("year"),
		KeepExtension: v.GetBool("ext"),
		OmitFile:      v.GetBool("nfile"),
		OmitPages:     v.GetBool("npages"),

		Workers:   v.GetInt("workers"),
		CachePath: v.GetString("cache"),
	}
	return cfg, nil
}

// stringList accepts both "a,b" and a YAML list for key.
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return search.SplitList(s)
	}

	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, search.SplitList(item)...)
	}
	return out
}
