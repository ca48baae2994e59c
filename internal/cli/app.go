package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tbrumbaugh5396/python-project-generator/internal/catalog"
	"github.com/tbrumbaugh5396/python-project-generator/internal/config"
	"github.com/tbrumbaugh5396/python-project-generator/internal/scaffold"
	"github.com/tbrumbaugh5396/python-project-generator/internal/templatecache"
	"github.com/tbrumbaugh5396/python-project-generator/internal/userdata"
)

// newLogger builds the CLI logger. -v forces debug; otherwise the configured
// log_level applies, defaulting to info.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	} else if l, err := zerolog.ParseLevel(config.Get(config.KeyLogLevel)); err == nil && l != zerolog.NoLevel {
		level = l
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// loadCatalog returns the builtin catalog overlaid with the user's descriptor
// files. Skipped user files are logged as warnings.
func loadCatalog(log zerolog.Logger) (*catalog.Catalog, error) {
	dir, err := userdata.GetUserCatalogDir()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(afero.NewOsFs(), dir)
	if err != nil {
		return nil, err
	}
	for _, w := range cat.Warnings {
		log.Warn().Str("dir", dir).Msg(w)
	}
	return cat, nil
}

func newCache(log zerolog.Logger) (*templatecache.Cache, error) {
	root, err := userdata.GetTemplateCacheRoot()
	if err != nil {
		return nil, err
	}
	return templatecache.New(root, templatecache.WithLogger(log)), nil
}

// newGenerator wires a generator writing to the OS filesystem.
func newGenerator(log zerolog.Logger) (*scaffold.Generator, *catalog.Catalog, error) {
	cat, err := loadCatalog(log)
	if err != nil {
		return nil, nil, err
	}
	cache, err := newCache(log)
	if err != nil {
		return nil, nil, err
	}
	return scaffold.New(cat, cache, cache.Fs(), log), cat, nil
}

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }
