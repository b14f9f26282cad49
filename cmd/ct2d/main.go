package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ct2d/internal/config"
	"ct2d/internal/ct2"
	"ct2d/internal/httpapi"
	"ct2d/internal/registry"
	"ct2d/internal/service"
)

// Populated by the release build via -ldflags.
var version = "dev"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma separated flag value, trimming spaces and
// dropping empty fields.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIndices(s string) ([]int32, error) {
	parts := splitCSV(s)
	out := make([]int32, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad device index %q: %w", p, err)
		}
		out = append(out, int32(n))
	}
	return out, nil
}

type serveFlags struct {
	addr           string
	configPath     string
	modelsDir      string
	defTranslator  string
	defGenerator   string
	defWhisper     string
	maxQueueDepth  int
	queueTimeoutMS int
	device         string
	computeType    string
	deviceIndices  string
	requestTimeout int64
	corsOrigins    string
	logJSON        bool
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ct2d",
		Short:         "Batch inference daemon for converted translation, generation and speech models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := &serveFlags{}
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP daemon",
		Example: "  ct2d serve --addr :8080 --models-dir ~/models/ct2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}
	serveCmd.Flags().StringVar(&f.addr, "addr", envOr("CT2D_ADDR", ":8080"), "HTTP listen address")
	serveCmd.Flags().StringVar(&f.configPath, "config", os.Getenv("CT2D_CONFIG"), "Config file (.yaml/.json/.toml); flags override it")
	serveCmd.Flags().StringVar(&f.modelsDir, "models-dir", envOr("CT2D_MODELS_DIR", "~/models/ct2"), "Directory scanned for converted model directories")
	serveCmd.Flags().StringVar(&f.defTranslator, "default-translator", "", "Model id used when /translate omits model")
	serveCmd.Flags().StringVar(&f.defGenerator, "default-generator", "", "Model id used when /generate omits model")
	serveCmd.Flags().StringVar(&f.defWhisper, "default-whisper", "", "Model id used when /transcribe omits model")
	serveCmd.Flags().IntVar(&f.maxQueueDepth, "max-queue-depth", 0, "Admission queue depth per engine (0=default)")
	serveCmd.Flags().IntVar(&f.queueTimeoutMS, "queue-timeout-ms", 0, "Queue wait before 429, in ms (0=default)")
	serveCmd.Flags().StringVar(&f.device, "device", "", "Engine device: cpu or cuda")
	serveCmd.Flags().StringVar(&f.computeType, "compute-type", "", "Engine compute type, e.g. int8, float16")
	serveCmd.Flags().StringVar(&f.deviceIndices, "device-indices", "", "Comma separated device indices, one replica per index")
	serveCmd.Flags().Int64Var(&f.requestTimeout, "request-timeout", 0, "Per-request timeout in seconds (0 disables)")
	serveCmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma separated allowed CORS origins (empty disables CORS)")
	serveCmd.Flags().BoolVar(&f.logJSON, "log-json", false, "Emit JSON logs instead of console format")
	root.AddCommand(serveCmd)

	t := &translateFlags{}
	translateCmd := &cobra.Command{
		Use:     "translate <model-dir>",
		Short:   "Translate a tokenized batch file against a model directory",
		Example: "  ct2d translate ~/models/ct2/en-de --input batch.txt --beam-size 4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0], t)
		},
	}
	translateCmd.Flags().StringVar(&t.input, "input", "-", "Input file, one space-tokenized sequence per line (- for stdin)")
	translateCmd.Flags().IntVar(&t.beamSize, "beam-size", 2, "Beam size")
	translateCmd.Flags().StringVar(&t.device, "device", "cpu", "Device: cpu or cuda")
	translateCmd.Flags().StringVar(&t.computeType, "compute-type", "default", "Compute type, e.g. int8, float16")
	root.AddCommand(translateCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ct2d "+version)
		},
	})

	return root
}

// mergeConfig overlays non-zero flag values onto the file config.
func mergeConfig(cfg config.Config, f *serveFlags) config.Config {
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.modelsDir != "" {
		cfg.ModelsDir = f.modelsDir
	}
	if f.defTranslator != "" {
		cfg.DefaultTranslator = f.defTranslator
	}
	if f.defGenerator != "" {
		cfg.DefaultGenerator = f.defGenerator
	}
	if f.defWhisper != "" {
		cfg.DefaultWhisper = f.defWhisper
	}
	if f.maxQueueDepth > 0 {
		cfg.MaxQueueDepth = f.maxQueueDepth
	}
	if f.queueTimeoutMS > 0 {
		cfg.QueueTimeoutMS = f.queueTimeoutMS
	}
	if f.device != "" {
		cfg.Engine.Device = f.device
	}
	if f.computeType != "" {
		cfg.Engine.ComputeType = f.computeType
	}
	return cfg
}

type translateFlags struct {
	input       string
	beamSize    int
	device      string
	computeType string
}

// readTokenLines reads one whitespace-tokenized sequence per line, skipping
// blank lines.
func readTokenLines(r io.Reader) ([][]string, error) {
	var batch [][]string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) > 0 {
			batch = append(batch, fields)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

func runTranslate(cmd *cobra.Command, modelDir string, f *translateFlags) error {
	if !ct2.Available() {
		return fmt.Errorf("this binary was built without the native engine; rebuild with -tags ct2")
	}
	device, err := ct2.ParseDevice(f.device)
	if err != nil {
		return err
	}
	computeType, err := ct2.ParseComputeType(f.computeType)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if f.input != "" && f.input != "-" {
		file, err := os.Open(f.input)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	batch, err := readTokenLines(in)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("no input sequences")
	}

	cfg := ct2.DefaultConfig()
	cfg.Device = device
	cfg.ComputeType = computeType
	tr, err := ct2.LoadTranslator(ct2.Dir(modelDir), cfg)
	if err != nil {
		return err
	}
	defer tr.Close()

	opts := ct2.DefaultTranslationOptions()
	opts.BeamSize = f.beamSize
	results, err := tr.TranslateBatch(batch, opts, nil)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "item %d: %v\n", i, r.Err)
			continue
		}
		fmt.Fprintln(out, strings.Join(r.Output(), " "))
	}
	return nil
}

func newLogger(jsonFormat bool) zerolog.Logger {
	if jsonFormat {
		return zerolog.New(os.Stderr).With().Timestamp().Str("service", "ct2d").Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func runServe(f *serveFlags) error {
	logger := newLogger(f.logJSON)
	httpapi.SetLogger(logger)

	var cfg config.Config
	if f.configPath != "" {
		var err error
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	cfg = mergeConfig(cfg, f)

	if f.deviceIndices != "" {
		indices, err := parseIndices(f.deviceIndices)
		if err != nil {
			return err
		}
		cfg.Engine.DeviceIndices = indices
	}

	scanned, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("scan models dir: %w", err)
	}
	models, err := registry.Merge(scanned, cfg.Models)
	if err != nil {
		return fmt.Errorf("merge model entries: %w", err)
	}
	logger.Info().Int("models", len(models)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	svc := service.NewWithConfig(service.Config{
		Registry:          models,
		DefaultTranslator: cfg.DefaultTranslator,
		DefaultGenerator:  cfg.DefaultGenerator,
		DefaultWhisper:    cfg.DefaultWhisper,
		MaxQueueDepth:     cfg.MaxQueueDepth,
		MaxWait:           time.Duration(cfg.QueueTimeoutMS) * time.Millisecond,
		Engine:            cfg.Engine,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn().Err(err).Msg("service close")
		}
	}()

	httpapi.SetRequestTimeoutSeconds(f.requestTimeout)
	if origins := splitCSV(f.corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Content-Type", "X-Log-Level"})
	}
	httpapi.RegisterEngineMetrics(svc)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(svc)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("version", version).Msg("ct2d listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	// Stop admitting new work, then drain in-flight requests.
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown")
	}
	return nil
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		log.Fatalf("ct2d: %v", err)
	}
}
