package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/textpad/internal"
	"github.com/starford/textpad/internal/document"
	"github.com/starford/textpad/internal/logging"
	"github.com/starford/textpad/internal/session"
	pkgconfig "github.com/starford/textpad/pkg/config"
)

var version = "dev"

// env is what every subcommand needs once flags and config are read.
type env struct {
	cfg    *internal.Config
	logger *slog.Logger
	close  func() error
}

func prepare(cmd *cli.Command) (*env, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if root := cmd.String("root"); root != "" {
		cfg.Storage.Root = root
	}

	logger, closeFn, err := logging.New(logging.Options{
		Level:   cfg.App.LogLevel,
		Writer:  cmd.Root().ErrWriter,
		File:    cfg.App.Log.File,
		Journal: cfg.App.Log.Journal,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return &env{cfg: cfg, logger: logger, close: closeFn}, nil
}

// withSession runs fn against a session handler. Storage setup failures
// are logged, not returned: the text commands never fail the process.
func withSession(fn func(ctx context.Context, cmd *cli.Command, h *session.Handler) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		e, err := prepare(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		store, err := internal.OpenStore(e.cfg, e.logger)
		if err != nil {
			e.logger.Error("storage unavailable", slog.String("error", err.Error()))
			return nil
		}
		return fn(ctx, cmd, session.NewHandler(store, e.logger))
	}
}

func saveAction(ctx context.Context, cmd *cli.Command, h *session.Handler) error {
	text, err := inputText(cmd)
	if err != nil {
		slog.Error("read input failed", slog.String("error", err.Error()))
		return nil
	}
	h.Save(ctx, session.Buffers{Input: text})
	return nil
}

func loadAction(ctx context.Context, cmd *cli.Command, h *session.Handler) error {
	b := h.Load(ctx, session.Buffers{})
	_, err := io.WriteString(cmd.Root().Writer, b.Output)
	return err
}

func clearAction(ctx context.Context, _ *cli.Command, h *session.Handler) error {
	h.Clear(ctx, session.Buffers{})
	return nil
}

// pathAction only resolves the root; it never creates the directory.
func pathAction(_ context.Context, cmd *cli.Command) error {
	e, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	root, err := e.cfg.Storage.ResolveRoot()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, filepath.Join(root, document.FileName))
	return err
}

// inputText joins the arguments, or reads stdin when there are none.
// One trailing line break from stdin is dropped since save adds its own.
func inputText(cmd *cli.Command) (string, error) {
	if cmd.Args().Present() {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}
	data, err := io.ReadAll(cmd.Root().Reader)
	if err != nil {
		return "", err
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	e, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := internal.Run(ctx, internal.WithConfig(e.cfg), internal.WithLogger(e.logger)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	e, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	return internal.RunMCP(ctx,
		internal.WithConfig(e.cfg),
		internal.WithLogger(e.logger),
		internal.WithVersion(version))
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "textpad",
		Usage:   "Append-only scratch pad backed by a single text file",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Directory holding text.txt (default: ~/Documents/textpad)",
				Sources: cli.EnvVars("TEXTPAD_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Append text (arguments, or stdin when none) to the document",
				ArgsUsage: "[TEXT...]",
				Action:    withSession(saveAction),
			},
			{
				Name:   "load",
				Usage:  "Print the saved text",
				Action: withSession(loadAction),
			},
			{
				Name:   "clear",
				Usage:  "Delete the saved text",
				Action: withSession(clearAction),
			},
			{
				Name:   "path",
				Usage:  "Print the document location",
				Action: pathAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and change feed",
				Action: serveAction,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcpAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
