package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/api"
	"github.com/gcbaptista/go-tagger-eval/config"
	"github.com/gcbaptista/go-tagger-eval/internal/engine"
	"github.com/gcbaptista/go-tagger-eval/internal/logging"
	"github.com/gcbaptista/go-tagger-eval/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the CLI and returns the process exit code. Deferred cleanup, which
// stops the job manager and saves the reports, finishes before main exits.
func run(args []string, stdout io.Writer) int {
	// Define command-line flags
	fs := flag.NewFlagSet("tagger_eval", flag.ContinueOnError)
	var (
		help       = fs.Bool("help", false, "Show help message")
		version    = fs.Bool("version", false, "Show version information")
		configPath = fs.String("config", "", "YAML settings file (built-in defaults when empty)")
		envPath    = fs.String("env", ".env", "Dotenv file with TAGGER_EVAL_* overrides")
		pipeline   = fs.String("pipeline", "", "Pipeline to run: crf, bilstm_crf or crf_tagged")
		group      = fs.String("group", "", "Evaluate only this corpus group")
		serve      = fs.Bool("serve", false, "Run the HTTP API instead of a one-shot evaluation")
		port       = fs.String("port", "8080", "Port to run the server on")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Handle help flag
	if *help {
		fmt.Fprintf(stdout, "Tagger Eval - train and evaluate sequence taggers over tagged corpus variants\n\n")
		fmt.Fprintf(stdout, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(stdout, "Options:\n")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fmt.Fprintf(stdout, "\nExamples:\n")
		fmt.Fprintf(stdout, "  %s                              # Evaluate every group with the default pipeline\n", os.Args[0])
		fmt.Fprintf(stdout, "  %s --pipeline crf --group bccwj # Linear-chain baseline on one group\n", os.Args[0])
		fmt.Fprintf(stdout, "  %s --serve --port 9000          # Start the API on port 9000\n", os.Args[0])
		return 0
	}

	// Handle version flag
	if *version {
		fmt.Fprintf(stdout, "Tagger Eval v%s\n", api.Version)
		return 0
	}

	settings, err := loadSettings(*configPath, *envPath)
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		return 1
	}
	if *pipeline != "" {
		settings.Pipeline = strings.ToLower(*pipeline)
	}
	if problems := settings.Validate(); len(problems) > 0 {
		log.Printf("Invalid settings:\n  %s", strings.Join(problems, "\n  "))
		return 1
	}

	closer, err := logging.Setup(settings.LogFile)
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Using corpus root: %s", settings.CorpusRoot)
	eng := engine.NewEngine(settings, engine.NewCollaborators(settings))
	defer func() {
		if err := eng.Close(); err != nil {
			log.Printf("Warning: failed to save reports: %v", err)
		}
	}()

	if *serve {
		if err := runServer(ctx, eng, *port); err != nil {
			log.Printf("Server error: %v", err)
			return 1
		}
		return 0
	}

	if err := evaluate(ctx, stdout, eng, *group); err != nil {
		log.Printf("Evaluation finished with errors: %v", err)
		return 1
	}
	return 0
}

func loadSettings(configPath, envPath string) (*config.Settings, error) {
	settings := config.Default()
	if configPath != "" {
		var err error
		if settings, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if err := config.LoadEnv(envPath, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func evaluate(ctx context.Context, stdout io.Writer, eng *engine.Engine, group string) error {
	var (
		reports []model.RunReport
		err     error
	)
	if group != "" {
		reports, err = eng.RunGroup(ctx, group)
	} else {
		reports, err = eng.RunAll(ctx)
	}

	for _, r := range reports {
		line := fmt.Sprintf("%-10s %-12s %-30s train=%d dev=%d test=%d %s",
			r.Group, r.Variant, filepath.Base(r.DataPath), r.Sizes.Train, r.Sizes.Dev, r.Sizes.Test, r.Status)
		if r.Error != "" {
			line += " (" + r.Error + ")"
		}
		fmt.Fprintln(stdout, line)
	}
	return err
}

func runServer(ctx context.Context, eng *engine.Engine, port string) error {
	router := gin.Default()
	router.Use(api.CORSMiddleware(), api.RequestSizeLimitMiddleware(1<<20))
	api.SetupRoutes(router, eng)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
