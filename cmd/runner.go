package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/services"
	"github.com/desertthunder/chordfinder/internal/session"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/desertthunder/chordfinder/internal/tasks"
	"github.com/urfave/cli/v3"
)

// rawRequester is implemented by recommenders that can issue undecoded requests.
type rawRequester interface {
	Raw(ctx context.Context, method, path string, body []byte) (*services.APIResponse, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	service     services.Recommender
	ownsService bool
	session     *session.Session
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	exporter    *tasks.Exporter
	theme       formatter.Theme
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Recommender // Built from Config when nil
	Session    *session.Session
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Session == nil {
		opts.Session = session.New(nil)
	}

	r := &Runner{
		configPath:  opts.ConfigPath,
		service:     opts.Service,
		ownsService: opts.Service == nil,
		session:     opts.Session,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
	}
	r.configure(opts.Config)
	return r
}

// configure applies cfg and rebuilds the dependencies derived from it.
func (r *Runner) configure(cfg *shared.Config) {
	r.config = cfg
	r.theme = formatter.NewTheme(cfg.Display)

	if r.ownsService {
		r.service = services.NewChordService(services.ServiceOpts{
			BaseURL:           cfg.Backend.BaseURL,
			HTTPClient:        r.httpClient,
			Timeout:           cfg.Backend.Timeout(),
			RequestsPerSecond: cfg.Backend.RequestsPerSecond,
			Limit:             cfg.Search.Limit,
		})
	}
	r.exporter = tasks.NewExporter(r.service)
}

// Before loads the config file named by --config, when present, and applies log settings.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path != "" {
		r.configPath = path
	}

	if _, err := os.Stat(r.configPath); err == nil {
		cfg, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.configure(cfg)
		r.logger.Debug("loaded config", "path", r.configPath)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	level := r.config.Log.LogLevel()
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, songCommand, rateCommand, sheetCommand, exportCommand, tuiCommand, configCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) rawClient() (rawRequester, error) {
	raw, ok := r.service.(rawRequester)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not support raw requests", shared.ErrServiceUnavailable, r.service.Name())
	}
	return raw, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
