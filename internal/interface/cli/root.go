// Package cli implements the acharya command-line front end.
//
// Every command builds the same stack: config, logger, student API client,
// store, list controller. Screens the controller navigates to are served by
// the Navigator, and delete confirmation is asked through huh.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/acharya/acharya/config"
	"github.com/acharya/acharya/internal/application/command"
	"github.com/acharya/acharya/internal/application/store"
	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/internal/infrastructure/external/studentapi"
	"github.com/acharya/acharya/internal/interface/studentlist"
	"github.com/acharya/acharya/pkg/logger"
)

// Version is injected during build.
var Version = "dev"

// IO bundles the streams commands read and write.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	baseURL    string
	output     string
}

// app is the wired stack shared by the commands of one invocation.
type app struct {
	io      IO
	opts    *globalOptions
	cfg     *config.Config
	logger  *slog.Logger
	api     student.API
	store   *store.Store
	nav     *Navigator
	printer *Printer

	register *command.RegisterStudentHandler
	update   *command.UpdateStudentHandler
}

// NewRootCommand builds the acharya command tree.
func NewRootCommand(streams IO) *cobra.Command {
	opts := &globalOptions{}
	a := &app{io: streams, opts: opts}

	root := &cobra.Command{
		Use:   "acharya",
		Short: "acharya manages student registrations",
		Long: `acharya talks to a student registration API: list and search students,
register new ones, edit or delete existing records.

Configuration comes from a YAML file (--config or CONFIG_PATH) and
environment variables such as API_BASE_URL and LOG_LEVEL.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default: $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Student API origin, overrides api.base_url")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", string(FormatTable), "Output format: table, json or yaml")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newRegisterCommand(a),
		newEditCommand(a),
		newDeleteCommand(a),
		newSearchCommand(a),
		newGradesCommand(a),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, streams IO) error {
	root := NewRootCommand(streams)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) setup() error {
	format, err := ParseFormat(a.opts.output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.baseURL != "" {
		cfg.API.BaseURL = a.opts.baseURL
	}
	a.cfg = cfg

	a.logger = logger.New(loggerOptions(cfg, a.io.Err)).
		With(slog.String("app", cfg.App.Name), slog.String("version", cfg.App.Version))

	client, err := studentapi.NewClient(studentapi.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		BasePath: cfg.API.BasePath,
		APIKey:   cfg.API.APIKey,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("student api: %w", err)
	}
	a.api = client

	a.store = store.New(client, store.WithLogger(a.logger))
	a.nav = NewNavigator(a.logger)
	a.printer = NewPrinter(a.io.Out, format)
	a.register = command.NewRegisterStudentHandler(a.store)
	a.update = command.NewUpdateStudentHandler(a.store)

	a.logger.Debug("configured",
		slog.String("base_url", cfg.API.BaseURL),
		slog.String("base_path", cfg.API.BasePath),
		slog.String("environment", string(cfg.App.Environment)),
	)
	return nil
}

// loggerOptions maps the observability config onto logger options. Source
// locations are only logged when debugging in development.
func loggerOptions(cfg *config.Config, out io.Writer) logger.Options {
	return logger.Options{
		Output:    out,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    logger.Format(cfg.Observability.LogFormat),
		AddSource: cfg.App.Debug && cfg.IsDevelopment(),
	}
}

// controller builds a list controller over the shared store and navigator.
func (a *app) controller(confirmer studentlist.Confirmer) *studentlist.Controller {
	return studentlist.NewController(studentlist.ControllerConfig{
		Store:     a.store,
		Router:    a.nav,
		Confirmer: confirmer,
		Logger:    a.logger,
	})
}

// fetch loads one student from the server.
func (a *app) fetch(ctx context.Context, id string) (student.Student, error) {
	s, err := a.api.GetByID(ctx, id)
	if shared.IsNotFound(err) {
		return student.Student{}, fmt.Errorf("no student with id %s: %w", id, err)
	}
	if err != nil {
		return student.Student{}, fmt.Errorf("get student %s: %w", id, err)
	}
	if s == nil {
		return student.Student{}, fmt.Errorf("get student %s: %w", id, shared.ErrStudentNotFound)
	}
	return *s, nil
}

// storeError turns a failure recorded by the store into a command error.
func (a *app) storeError(op string) error {
	if msg := a.store.Error(); msg != "" {
		return fmt.Errorf("%s: %s", op, msg)
	}
	return nil
}
