package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/config"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/metrics"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/seqio"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/server"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/service"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/util"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/validation"
)

// numCPU caps the default partition count
var numCPU = runtime.NumCPU

type alignOptions struct {
	configPath  string
	references  string
	reads       string
	output      string
	k, l, d     int
	partitions  int
	refine      string
	verbose     bool
	progress    bool
	metricsPort int
}

func alignCommand() *cobra.Command {
	var opts alignOptions

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Count reads per reference",
		Long: `Index the references, build the neighbor graph, place every read and
write one "identifier<TAB>count" line per reference that received reads.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return runAlign(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", os.Getenv("TUNA_CONFIG"), "YAML config file (env TUNA_CONFIG)")
	cmd.Flags().StringVarP(&opts.references, "references", "r", "", "Reference FASTA/FASTQ file")
	cmd.Flags().StringVarP(&opts.reads, "reads", "i", "", "Read FASTA/FASTQ file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output count file (default stdout)")
	cmd.Flags().IntVarP(&opts.k, "kmer", "k", 0, "Anchor window length")
	cmd.Flags().IntVarP(&opts.l, "lmer", "l", 0, "Node window length (default first read length)")
	cmd.Flags().IntVarP(&opts.d, "distance", "d", 0, "Maximum substitutions between neighbor windows")
	cmd.Flags().IntVarP(&opts.partitions, "partitions", "p", 0, "Number of read partitions (default CPU count, capped at the read count)")
	cmd.Flags().StringVar(&opts.refine, "refine", "", "Refinement mode: exact or approximate")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar")
	cmd.Flags().IntVar(&opts.metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port")

	return cmd
}

// resolveConfig loads the config file, if any, and lets explicitly set
// flags override it
func resolveConfig(cmd *cobra.Command, opts *alignOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, errors.NewAlignerError(errors.ErrCodeInvalidConfig, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("references") {
		cfg.Input.References = opts.references
	}
	if flags.Changed("reads") {
		cfg.Input.Reads = opts.reads
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("kmer") {
		cfg.Index.K = opts.k
	}
	if flags.Changed("lmer") {
		cfg.Index.L = opts.l
	}
	if flags.Changed("distance") {
		cfg.Index.D = opts.d
	}
	if flags.Changed("partitions") {
		if opts.partitions <= 0 {
			return nil, errors.InvalidConfig("--partitions must be positive").
				WithDetail("partitions", opts.partitions)
		}
		cfg.Aligner.Partitions = opts.partitions
	}
	if flags.Changed("refine") {
		cfg.Index.Refine = opts.refine
	}
	if flags.Changed("progress") {
		cfg.Aligner.Progress = opts.progress
	}
	if flags.Changed("metrics-port") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = opts.metricsPort
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewAlignerError(errors.ErrCodeInvalidConfig, "invalid configuration", err)
	}
	if cfg.Input.References == "" || cfg.Input.Reads == "" {
		return nil, errors.InvalidConfig("both --references and --reads are required")
	}
	return cfg, nil
}

func runAlign(ctx context.Context, cfg *config.Config) error {
	logger, err := initLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return errors.NewAlignerError(errors.ErrCodeInvalidConfig, "failed to initialize logger", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runStart := time.Now()

	refs, err := seqio.ReadReferences(cfg.Input.References)
	if err != nil {
		logger.Error("Failed to read references", zap.Error(err))
		return err
	}
	reads, err := seqio.ReadReads(cfg.Input.Reads)
	if err != nil {
		logger.Error("Failed to read reads", zap.Error(err))
		return err
	}
	segments := model.NewSegmentSet(refs)

	l := cfg.Index.L
	if l == 0 && len(reads) > 0 {
		l = len(reads[0])
	}
	partitions := defaultPartitions(cfg.Aligner.Partitions, len(reads))

	logger.Info("Inputs loaded",
		zap.String("reference_fingerprint", util.Fingerprint(segments)),
		zap.Int("segments", segments.Len()),
		zap.Int("reads", len(reads)),
		zap.Int("k", cfg.Index.K),
		zap.Int("l", l),
		zap.Int("d", cfg.Index.D),
		zap.Int("partitions", partitions),
		zap.String("refine", cfg.Index.Refine))

	if err := validation.NewValidator().ValidateRun(segments, reads, cfg.Index.K, l, cfg.Index.D, partitions); err != nil {
		logger.Error("Invalid run parameters", zap.Error(err))
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, util.Fingerprint(segments))

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = server.NewMetricsServer(&server.MetricsServerConfig{
			Port: cfg.Metrics.Port,
			Path: cfg.Metrics.Path,
		}, registry, m, logger)
		if err := metricsServer.Start(); err != nil {
			logger.Error("Failed to start metrics server", zap.Error(err))
		}
		defer metricsServer.Stop()
	}

	g, err := service.NewIndexService(m, logger).Build(segments, cfg.Index.K, l, cfg.Index.D)
	if err != nil {
		return err
	}
	if metricsServer != nil {
		metricsServer.SetReady(true)
	}

	locator := service.NewLocatorService(g, cfg.Index.Refine, logger)
	aligner := service.NewAlignerService(locator, partitions, m, logger)

	if cfg.Aligner.Progress {
		bar := pb.Full.Start(len(reads))
		aligner.OnChunkMerged = func(n int) { bar.Add(n) }
		defer bar.Finish()
	}

	result, err := aligner.MapReduce(ctx, reads)
	if err != nil {
		return err
	}

	if err := seqio.WriteCountsFile(cfg.Output.Path, segments, result.Counts); err != nil {
		logger.Error("Failed to write counts", zap.Error(err))
		return err
	}

	logger.Info("Run completed",
		zap.Int("located", result.Located),
		zap.Int("unresolved", result.Unresolved),
		zap.Int("segments_hit", len(result.Counts)),
		zap.Duration("duration", time.Since(runStart)))

	return nil
}

// defaultPartitions returns configured when set. Otherwise it uses one
// partition per CPU, but never more partitions than reads.
func defaultPartitions(configured, reads int) int {
	if configured > 0 {
		return configured
	}
	return min(numCPU(), reads)
}
