package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/clea/log"
)

var (
	ErrAlreadyStarted = errors.New("application already started")
	ErrClosePanic     = errors.New("close function panicked")
)

// Runner 长时间运行的组件，如 emitter
type Runner interface {
	// Run 启动组件并阻塞直到停止
	Run() error
	// Shutdown 优雅停止组件
	Shutdown(context.Context) error
}

// Application 管理 Runner 和关闭函数的生命周期
type Application struct {
	ctx             context.Context
	cancel          context.CancelFunc
	shutdownTimeout time.Duration
	signals         []os.Signal
	runners         []Runner
	closeFuncs      []CloseFunc
	closeTimeout    time.Duration
	logger          *log.Logger
	mu              sync.RWMutex
	started         bool
}

// CloseFunc 具有可选超时的关闭函数
type CloseFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

type Option func(*Application)

// WithContext 设置应用的根上下文
func WithContext(ctx context.Context) Option {
	return func(app *Application) {
		if ctx != nil {
			app.ctx, app.cancel = context.WithCancel(ctx)
		}
	}
}

// WithShutdownTimeout 设置 Runner 关闭的超时时间
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	}
}

// WithCloseTimeout 设置关闭函数的默认超时时间
func WithCloseTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.closeTimeout = timeout
		}
	}
}

// WithSignals 设置用于优雅关闭的自定义信号
func WithSignals(signals ...os.Signal) Option {
	return func(app *Application) {
		if len(signals) > 0 {
			app.signals = make([]os.Signal, len(signals))
			copy(app.signals, signals)
		}
	}
}

// WithLogger 设置应用日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(app *Application) {
		if logger != nil {
			app.logger = logger
		}
	}
}

// WithRunner 向应用添加 Runner
func WithRunner(runner Runner) Option {
	return func(app *Application) {
		if runner != nil {
			app.runners = append(app.runners, runner)
		}
	}
}

// WithRunners 向应用添加多个 Runner
func WithRunners(runners ...Runner) Option {
	return func(app *Application) {
		for _, runner := range runners {
			if runner != nil {
				app.runners = append(app.runners, runner)
			}
		}
	}
}

// WithClose 添加在关闭期间执行的关闭函数，按添加顺序执行
func WithClose(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(app *Application) {
		if fn == nil {
			app.logger.Warn().Str("name", name).Msg("nil close function ignored")
			return
		}

		if timeout == 0 {
			timeout = app.closeTimeout
		}

		app.closeFuncs = append(app.closeFuncs, CloseFunc{
			Name:    name,
			Fn:      fn,
			Timeout: timeout,
		})
	}
}

// New 使用给定选项创建新的应用实例
func New(options ...Option) *Application {
	app := &Application{
		shutdownTimeout: 30 * time.Second,
		closeTimeout:    30 * time.Second,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
		runners:         make([]Runner, 0),
		closeFuncs:      make([]CloseFunc, 0),
		logger:          log.Component("app"),
	}

	// 设置默认上下文
	app.ctx, app.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(app)
	}

	return app
}

// AddRunner 在启动前向应用添加 Runner
func (app *Application) AddRunner(runner Runner) error {
	if runner == nil {
		return errors.New("runner cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.started {
		app.logger.Warn().Msg("attempted to add runner after application started")
		return ErrAlreadyStarted
	}

	app.runners = append(app.runners, runner)

	return nil
}

// RegisterClose 在运行时向应用添加关闭函数
func (app *Application) RegisterClose(name string, fn func(context.Context) error, timeout time.Duration) error {
	if fn == nil {
		return errors.New("close function cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if timeout == 0 {
		timeout = app.closeTimeout
	}

	app.closeFuncs = append(app.closeFuncs, CloseFunc{
		Name:    name,
		Fn:      fn,
		Timeout: timeout,
	})

	return nil
}

// Start 启动所有 Runner 并阻塞直到收到信号、上下文取消或某个 Runner 出错
func (app *Application) Start() error {
	app.mu.Lock()
	if app.started {
		app.mu.Unlock()
		return ErrAlreadyStarted
	}
	app.started = true
	runners := make([]Runner, len(app.runners))
	copy(runners, app.runners)
	signals := make([]os.Signal, len(app.signals))
	copy(signals, app.signals)
	app.mu.Unlock()

	if len(runners) == 0 {
		app.logger.Info().Msg("no runners configured, starting signal handler only")
	}

	// 设置信号处理
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	eg, egCtx := errgroup.WithContext(app.ctx)

	app.startRunners(eg, egCtx, runners)

	// 处理关闭信号
	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			app.logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			app.cancel()
			return nil
		case <-egCtx.Done():
			// context.Canceled 是正常的关闭
			if errors.Is(egCtx.Err(), context.Canceled) {
				return nil
			}
			return egCtx.Err()
		}
	})

	err := eg.Wait()

	app.runCloseTasks()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop 优雅地停止应用
func (app *Application) Stop() {
	app.cancel()
}

// startRunners 启动所有 Runner，上下文结束后逐个关闭
func (app *Application) startRunners(eg *errgroup.Group, ctx context.Context, runners []Runner) {
	for _, runner := range runners {
		eg.Go(func() error {
			return runner.Run()
		})

		eg.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
			defer cancel()

			return runner.Shutdown(shutdownCtx)
		})
	}
}

// runCloseTasks 按注册顺序执行所有关闭函数
func (app *Application) runCloseTasks() {
	app.mu.RLock()
	closeFuncs := make([]CloseFunc, len(app.closeFuncs))
	copy(closeFuncs, app.closeFuncs)
	app.mu.RUnlock()

	var failed int
	for _, close := range closeFuncs {
		if err := app.runCloseTask(close); err != nil {
			failed++
		}
	}

	if failed > 0 {
		app.logger.Error().Int("failed", failed).Msg("some close functions failed")
	}
}

// runCloseTask 执行单个带超时的关闭函数
func (app *Application) runCloseTask(close CloseFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), close.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				app.logger.Error().Interface("panic", r).Str("close", close.Name).Msg("close function panicked")
				done <- ErrClosePanic
			}
		}()
		done <- close.Fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			app.logger.Error().Err(err).Str("close", close.Name).Msg("close function failed")
		}
		return err
	case <-ctx.Done():
		app.logger.Warn().Str("close", close.Name).Msg("close function timed out")
		return ctx.Err()
	}
}

// Info 返回应用状态信息
func (app *Application) Info() ApplicationInfo {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return ApplicationInfo{
		Started:     app.started,
		RunnerCount: len(app.runners),
		CloseCount:  len(app.closeFuncs),
	}
}

// ApplicationInfo 提供应用状态信息
type ApplicationInfo struct {
	Started     bool `json:"started"`
	RunnerCount int  `json:"runner_count"`
	CloseCount  int  `json:"close_count"`
}
