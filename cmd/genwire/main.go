package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/casualjim/genwire/api"
	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/internal/broker"
	"github.com/casualjim/genwire/internal/msgfmt"
	"github.com/casualjim/genwire/internal/sessionlog"
	"github.com/casualjim/genwire/internal/shorttermmemory"
	"github.com/casualjim/genwire/pkg/natsx"
	"github.com/casualjim/genwire/pkg/slogx"
	"github.com/casualjim/genwire/pkg/uuidx"
	"github.com/casualjim/genwire/provider"
	"github.com/casualjim/genwire/provider/models"
	"github.com/casualjim/genwire/provider/openaicompat"
	"github.com/casualjim/genwire/tool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/k0kubun/pp/v3"
	"github.com/openai/openai-go"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	setupLogging(os.Stderr, slog.LevelWarn)
}

func setupLogging(w io.Writer, level slog.Level) {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
}

type config struct {
	baseURL     string
	apiKey      string
	model       string
	system      string
	publish     string
	natsURL     string
	logDir      string
	toolSchema  string
	noStream    bool
	dump        bool
	verbose     bool
	interactive bool
	prompt      string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".genwire")
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("genwire", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: genwire [flags] <prompt...>")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.baseURL, "base-url", envOr("GENWIRE_BASE_URL", "https://api.openai.com/v1"), "OpenAI-compatible API root [GENWIRE_BASE_URL]")
	fs.StringVar(&cfg.apiKey, "api-key", os.Getenv("GENWIRE_API_KEY"), "bearer credential [GENWIRE_API_KEY]")
	fs.StringVar(&cfg.model, "model", envOr("GENWIRE_MODEL", string(openai.ChatModelGPT4oMini)), "model name [GENWIRE_MODEL]")
	fs.StringVar(&cfg.system, "system", "", "system instruction")
	fs.StringVar(&cfg.publish, "publish", "", "subject to publish every response to; in process unless a NATS server is configured")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "NATS server [NATS_URL]")
	fs.StringVar(&cfg.logDir, "log-dir", defaultLogDir(), "directory for session transcripts; empty disables them")
	fs.StringVar(&cfg.toolSchema, "tool-schema", "", "JSON file declaring the tools the model may call")
	fs.BoolVar(&cfg.noStream, "no-stream", false, "wait for the complete response")
	fs.BoolVar(&cfg.dump, "dump", false, "pretty print every normalized response to stderr")
	fs.BoolVar(&cfg.verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&cfg.interactive, "interactive", false, "keep the conversation going on stdin; type exit to quit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.prompt = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if cfg.prompt == "" && !cfg.interactive {
		fs.Usage()
		return cfg, errors.New("a prompt is required")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.verbose {
		setupLogging(os.Stderr, slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		slog.Error("genwire failed", slogx.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout, stderr io.Writer) error {
	session := sessionlog.New(cfg.logDir, uuidx.NewString())
	model := openaicompat.Model(cfg.model,
		openaicompat.WithBaseURL(cfg.baseURL),
		openaicompat.WithAPIKey(cfg.apiKey),
	)
	slog.Debug("starting session",
		slog.String("session", session.SessionID()),
		slog.String("model", model.Name()),
		slog.Any("registered_models", models.Names()),
		slog.String("transcript", session.Path()),
	)

	var tools []tool.Definition
	if cfg.toolSchema != "" {
		defs, err := tool.Load(cfg.toolSchema)
		if err != nil {
			return err
		}
		tools = defs
	}

	publish, closePublisher, err := newPublisher(ctx, cfg, session.SessionID())
	if err != nil {
		return err
	}
	defer closePublisher()

	a := &app{
		cfg:     cfg,
		model:   model,
		session: session,
		tools:   tools,
		publish: publish,
		stdout:  stdout,
		stderr:  stderr,
	}
	if cfg.interactive {
		return a.repl(ctx, stdin)
	}

	history := shorttermmemory.New()
	history.AddUserPrompt(cfg.prompt)
	session.Logf("user: %s", cfg.prompt)
	_, err = a.ask(ctx, history.Contents())
	return err
}

type app struct {
	cfg     config
	model   api.Model
	session *sessionlog.Logger
	tools   []tool.Definition
	publish publishFunc
	stdout  io.Writer
	stderr  io.Writer
}

func (a *app) observe(ctx context.Context, resp canonical.Response) error {
	if a.cfg.dump {
		pp.Fprintln(a.stderr, resp)
	}
	for _, fc := range resp.FunctionCalls() {
		a.session.Logf("call: %s", msgfmt.FunctionCall(fc))
	}
	return a.publish(ctx, resp)
}

// ask sends the conversation and prints the answer, returning every
// normalized event it produced.
func (a *app) ask(ctx context.Context, contents []canonical.Content) ([]canonical.Response, error) {
	options := provider.GenerateOptions{
		SystemInstruction: a.cfg.system,
		Contents:          contents,
		Tools:             a.tools,
		PromptID:          a.session.SessionID(),
	}

	if a.cfg.noStream {
		resp, err := a.model.Provider().GenerateContent(ctx, options)
		if err != nil {
			return nil, err
		}
		if err := a.observe(ctx, resp); err != nil {
			return nil, err
		}
		a.session.Logf("model: %s", resp.Text())

		renderer, err := msgfmt.NewRenderer(0)
		if err != nil {
			return nil, err
		}
		return []canonical.Response{resp}, renderer.Render(a.stdout, resp)
	}

	stream, err := a.model.Provider().StreamContent(ctx, options)
	if err != nil {
		return nil, err
	}
	var events []canonical.Response
	text, err := msgfmt.ConsolePretty(ctx, a.stdout, tap(provider.All(stream), func(resp canonical.Response) error {
		events = append(events, resp)
		return a.observe(ctx, resp)
	}))
	if text != "" {
		a.session.Logf("model: %s", text)
	}
	return events, err
}

type publishFunc func(context.Context, canonical.Response) error

// localDrainTimeout bounds how long the in-process subscriber may lag behind
// when the session ends.
const localDrainTimeout = time.Second

func newPublisher(ctx context.Context, cfg config, sessionID string) (publishFunc, func(), error) {
	if cfg.publish == "" {
		return func(context.Context, canonical.Response) error { return nil }, func() {}, nil
	}
	if cfg.natsURL == "" && os.Getenv("NATS_URL") == "" {
		return newLocalPublisher(ctx, cfg.publish, sessionID)
	}

	nc, err := natsx.NewClient(cfg.natsURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	pub := broker.NewPublisher(broker.NATS(nc).Topic(ctx, cfg.publish), sessionID)
	closer := func() {
		if err := nc.Drain(); err != nil {
			slog.Warn("failed to drain nats connection", slogx.Error(err))
		}
	}
	return pub.Publish, closer, nil
}

// newLocalPublisher publishes on an in-process topic whose only subscriber
// logs every envelope at debug level.
func newLocalPublisher(ctx context.Context, subject, sessionID string) (publishFunc, func(), error) {
	topic := broker.Local().Topic(ctx, subject)

	var sent, seen atomic.Int64
	sub, err := topic.Subscribe(ctx, func(_ context.Context, env broker.Envelope) {
		slog.Debug("published response",
			slog.String("subject", subject),
			slog.String("session", env.SessionID),
			slog.Int("seq", env.Seq),
			slog.String("finish", string(env.Response.FinishReason())),
			slogx.Truncated("text", env.Response.Text(), 80),
		)
		seen.Add(1)
	})
	if err != nil {
		return nil, nil, err
	}

	pub := broker.NewPublisher(topic, sessionID)
	publish := func(ctx context.Context, resp canonical.Response) error {
		if err := pub.Publish(ctx, resp); err != nil {
			return err
		}
		sent.Add(1)
		return nil
	}
	closer := func() {
		deadline := time.Now().Add(localDrainTimeout)
		for seen.Load() < sent.Load() && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		sub.Unsubscribe()
	}
	return publish, closer, nil
}

// tap runs fn on every response before passing it on. An error from fn ends
// the sequence.
func tap(events iter.Seq2[canonical.Response, error], fn func(canonical.Response) error) iter.Seq2[canonical.Response, error] {
	return func(yield func(canonical.Response, error) bool) {
		for resp, err := range events {
			if err == nil {
				if ferr := fn(resp); ferr != nil {
					yield(canonical.Response{}, ferr)
					return
				}
			}
			if !yield(resp, err) {
				return
			}
		}
	}
}
