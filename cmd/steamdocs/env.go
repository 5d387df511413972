package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"steamdocs/internal/catalog"
	"steamdocs/internal/config"
	"steamdocs/internal/errors"
	"steamdocs/internal/logging"
	"steamdocs/internal/model"
	"steamdocs/internal/selection"
	"steamdocs/internal/session"
	"steamdocs/internal/store"
)

// env is what every command needs once flags are parsed: config, logger,
// the state store and a started session over the loaded catalog.
type env struct {
	cfg    *config.Config
	logger *zerolog.Logger
	store  store.Store
	sess   *session.Session

	closers []io.Closer
}

type envOptions struct {
	// tui sends logs to the configured log file or nowhere.
	tui bool
	// token is the initial selection.
	token string
	// noCatalog starts the session on an empty catalog, for commands that
	// only touch stored user data.
	noCatalog bool
}

func openEnv(cmd *cobra.Command, flags *rootFlags, opts envOptions) (*env, error) {
	cfg, err := config.Load(flags.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Discard: opts.tui,
	})
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}
	if cfg.FileUsed != "" {
		logger.Debug().Str("file", cfg.FileUsed).Msg("config loaded")
	}

	cat := model.NewCatalog()
	if !opts.noCatalog {
		if cfg.Catalog == "" {
			e.Close()
			return nil, errors.UserFriendlyError{
				Message: "No catalog configured",
				Hint:    "Pass --catalog <file|url>, set STEAMDOCS_CATALOG or add catalog: to steamdocs.yaml",
			}
		}
		ctx := logging.WithLogger(commandContext(cmd), logger)
		cat, err = catalog.Load(ctx, cfg.Catalog, catalog.Options{Timeout: cfg.Timeout})
		if err != nil {
			e.Close()
			return nil, errors.WrapCatalogError(err, cfg.Catalog)
		}
	}

	st, err := store.OpenSQLite(cfg.StatePath)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store = st
	e.closers = append(e.closers, st)

	e.sess = session.New(cat, st, session.Options{
		Hosts:        cfg.Hosts(),
		ProductTitle: cfg.ProductTitle,
		Logger:       logger,
	})
	e.sess.Start(opts.token)
	return e, nil
}

// Close releases the store, then the log file.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.logger != nil {
			e.logger.Warn().Err(err).Msg("close failed")
		}
	}
	e.closers = nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// lookup resolves "Interface/Method" against the session catalog.
func lookup(sess *session.Session, name string) (iface, method string, err error) {
	iface, method = selection.ParseToken(name)
	if _, found := sess.Catalog().Method(iface, method); found {
		return iface, method, nil
	}
	return "", "", errors.WrapLookupError(errors.NewNotFoundError("method", name), name)
}
