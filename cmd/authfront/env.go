package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/config"
	"github.com/dmitrijs2005/authfront/internal/frontend"
	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/registry"
	"github.com/dmitrijs2005/authfront/internal/store"
	"github.com/dmitrijs2005/authfront/internal/view"
)

// env is what every subcommand needs: config, logger and an initialised
// browsing context.
type env struct {
	cfg *config.Config
	log logging.Logger
	c   *frontend.Context

	logCloser io.Closer
}

// open loads the config from the command's flags, sets up logging (to logOut
// unless a log file is configured) and initialises the context.
func open(ctx context.Context, cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.Setup(common.AppName, logging.Options{
		File:     cfg.LogFile,
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Fallback: logOut,
	})
	if err != nil {
		return nil, err
	}

	c, err := frontend.Init(ctx,
		store.Options{ContextID: cfg.ContextID, Path: cfg.StateFile},
		registry.Options{TrackTimestamps: cfg.TrackTimestamps},
		log,
	)
	if err != nil {
		logging.LogError(ctx, log, "init failed", err)
		_ = closer.Close()
		return nil, err
	}
	log.Info(ctx, "store opened", "dsn", c.Store.DSN(), "ephemeral", c.Store.Ephemeral(), "users", c.Registry.Len())

	return &env{cfg: cfg, log: log, c: c, logCloser: closer}, nil
}

func (e *env) close(ctx context.Context) error {
	err := e.c.Close(ctx)
	if err != nil {
		logging.LogError(ctx, e.log, "close failed", err)
	}
	return errors.Join(err, e.logCloser.Close())
}

func (e *env) frontendOptions() frontend.Options {
	opts := frontend.DefaultOptions()
	opts.Latency = e.cfg.Latency
	opts.PopupDelay = e.cfg.PopupDelay
	opts.SignupRedirectDelay = e.cfg.SignupRedirectDelay
	opts.PrefillLoginEmail = e.cfg.PrefillLoginEmail
	opts.Policy = e.cfg.Policy
	opts.Logger = e.log
	return opts
}

// serve runs a frontend rendering into ui for as long as drive blocks.
func (e *env) serve(ctx context.Context, ui view.UI, drive func(context.Context, *frontend.Frontend) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	front := frontend.New(e.c, ui, e.frontendOptions())
	errc := make(chan error, 1)
	go func() { errc <- front.Run(ctx) }()

	err := drive(ctx, front)
	cancel()
	return errors.Join(err, <-errc)
}
