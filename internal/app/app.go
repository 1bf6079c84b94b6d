// Package app assembles the engine for a host: it loads the configuration,
// builds the logger and wires the explorer, the job runner and the directory
// watcher together.
package app

import (
	"go.uber.org/zap"

	"twopane/internal/config"
	"twopane/internal/constants"
	"twopane/internal/explorer"
	"twopane/internal/fileops"
	"twopane/internal/jobs"
	"twopane/internal/logging"
	"twopane/internal/watcher"
)

// App holds one wired engine session.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Ops    *fileops.FileOps
	Facade *explorer.Facade
	Jobs   *jobs.Manager
}

// Option configures New.
type Option func(*options)

type options struct {
	fileOps []fileops.Option
	facade  []explorer.Option
	jobsMax int
}

// WithFileOpsOptions passes extra options to the FileOps constructor.
func WithFileOpsOptions(opts ...fileops.Option) Option {
	return func(o *options) { o.fileOps = append(o.fileOps, opts...) }
}

// WithFacadeOptions passes extra options to the Facade constructor. They
// are applied after the loaded configuration and logger.
func WithFacadeOptions(opts ...explorer.Option) Option {
	return func(o *options) { o.facade = append(o.facade, opts...) }
}

// WithJobHistory sets how many finished jobs the runner keeps for listing.
func WithJobHistory(n int) Option {
	return func(o *options) { o.jobsMax = n }
}

// New loads the configuration through mgr and builds the engine from it.
func New(mgr config.ManagerInterface, opts ...Option) (*App, error) {
	o := options{jobsMax: constants.DefaultJobHistory}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := mgr.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Logging())
	if err != nil {
		return nil, err
	}

	ops := fileops.NewOS(append([]fileops.Option{fileops.WithLogger(logger.Named("fileops"))}, o.fileOps...)...)
	facadeOpts := append([]explorer.Option{
		explorer.WithConfig(cfg),
		explorer.WithLogger(logger.Named("explorer")),
	}, o.facade...)
	facade := explorer.New(ops, facadeOpts...)

	logger.Info("engine ready",
		zap.Int("history_max_entries", cfg.History.MaxEntries),
		zap.Bool("record_empty_batches", cfg.History.RecordEmptyBatches))

	return &App{
		Config: cfg,
		Logger: logger,
		Ops:    ops,
		Facade: facade,
		Jobs:   jobs.NewManager(facade, o.jobsMax, logger.Named("jobs")),
	}, nil
}

// NewWatcher returns a directory watcher that lists through the Facade.
// The caller starts and stops it.
func (a *App) NewWatcher(onChange func(*watcher.Changes)) *watcher.DirectoryWatcher {
	return watcher.NewDirectoryWatcher(a.Facade, onChange, a.Logger.Named("watcher"))
}

// Close stops the job runner and flushes the logger.
func (a *App) Close() {
	a.Jobs.Close()
	_ = a.Logger.Sync()
}
