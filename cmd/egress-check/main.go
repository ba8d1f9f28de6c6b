package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-egress/pkg/archive"
	"github.com/dd0wney/cluso-egress/pkg/engine"
	"github.com/dd0wney/cluso-egress/pkg/logging"
	"github.com/dd0wney/cluso-egress/pkg/metrics"
	"github.com/dd0wney/cluso-egress/pkg/notify"
	"github.com/dd0wney/cluso-egress/pkg/rules"
	"github.com/dd0wney/cluso-egress/pkg/runstore"
)

// Exit codes: 0 all checks passed, 1 run finished with failing checks,
// 2 the run itself could not complete.
const (
	exitFailedChecks = 1
	exitError        = 2
)

// appConfig wires the optional run sinks. A section left empty stays off;
// the analysis itself never needs any of them.
type appConfig struct {
	Archive  archive.Config  `yaml:"archive"`
	Runstore runstore.Config `yaml:"runstore"`
	Notify   notify.Config   `yaml:"notify"`
}

func loadAppConfig(path string) (appConfig, error) {
	var cfg appConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	modelPath := flag.String("model", "", "Model file (JSON); empty runs the built-in demo building")
	thresholdsPath := flag.String("thresholds", "", "Thresholds override file (YAML)")
	configPath := flag.String("config", "", "Sink configuration file (YAML: archive, runstore, notify)")
	compact := flag.Bool("compact", false, "Emit the report as a single JSON line")
	warm := flag.Int("warm", 0, "Pre-derive geometry with this many workers before the run (0 = lazy)")
	flag.Parse()

	// Logs go to stderr so the report on stdout stays parseable.
	logger := logging.DefaultLogger()
	log := logger.With(logging.Component("egress-check"))
	reg := metrics.NewRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	thresholds := rules.DefaultThresholds()
	if *thresholdsPath != "" {
		var err error
		thresholds, err = rules.LoadThresholds(*thresholdsPath)
		if err != nil {
			log.Error("failed to load thresholds", logging.Error(err), logging.Path(*thresholdsPath))
			os.Exit(exitError)
		}
		log.Info("thresholds loaded", logging.Path(*thresholdsPath))
	}

	var cfg appConfig
	if *configPath != "" {
		var err error
		cfg, err = loadAppConfig(*configPath)
		if err != nil {
			log.Error("failed to load config", logging.Error(err), logging.Path(*configPath))
			os.Exit(exitError)
		}
	}

	var (
		mf  *modelFile
		err error
	)
	if *modelPath == "" {
		log.Info("no model file given, analyzing the built-in demo building")
		mf = demoModel()
	} else {
		mf, err = readModelFile(*modelPath)
		if err != nil {
			log.Error("failed to read model file", logging.Error(err), logging.Path(*modelPath))
			os.Exit(exitError)
		}
		log.Info("model file read", logging.Path(*modelPath),
			logging.Int("elements", len(mf.Elements)),
			logging.Int("relations", len(mf.Relations)))
	}

	store, tess, err := assembleModel(mf, log, reg)
	if err != nil {
		log.Error("failed to assemble model", logging.Error(err))
		os.Exit(exitError)
	}

	eng, err := engine.New(engine.Config{
		Thresholds:  thresholds,
		Unit:        mf.unit(),
		WarmWorkers: *warm,
	}, logger, reg)
	if err != nil {
		log.Error("failed to configure engine", logging.Error(err))
		os.Exit(exitError)
	}

	result, err := eng.Run(ctx, store, tess)
	if err != nil {
		log.Error("analysis failed", logging.Error(err))
		os.Exit(exitError)
	}

	if err := deliver(ctx, cfg, result, log, reg); err != nil {
		log.Error("failed to deliver run results", logging.Error(err), logging.RunID(result.ID))
		os.Exit(exitError)
	}

	if err := writeReport(os.Stdout, result, *compact); err != nil {
		log.Error("failed to write report", logging.Error(err))
		os.Exit(exitError)
	}

	if result.Status == engine.StatusFail {
		log.Warn("run finished with failing checks",
			logging.RunID(result.ID), logging.Int("failed", result.Summary.Failed))
		os.Exit(exitFailedChecks)
	}
}

// deliver fans the finished run out to the configured sinks. A sink failure
// is an error: a run the surrounding tooling cannot find did not happen.
func deliver(ctx context.Context, cfg appConfig, result *engine.RunResult, log logging.Logger, reg *metrics.Registry) error {
	if cfg.Archive.Backend != "" {
		backend, err := archive.Open(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		arch := archive.New(backend, reg)
		if err := arch.SaveReport(ctx, result.ID, result); err != nil {
			return fmt.Errorf("archive report: %w", err)
		}
		log.Info("report archived",
			logging.RunID(result.ID), logging.String("backend", backend.Name()))
	}

	if cfg.Runstore.Driver != "" {
		st, err := runstore.Open(ctx, cfg.Runstore, reg)
		if err != nil {
			return fmt.Errorf("open runstore: %w", err)
		}
		defer st.Close()

		rec, err := result.RunRecord()
		if err != nil {
			return err
		}
		if err := st.SaveRun(ctx, &rec); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Info("run recorded", logging.RunID(result.ID))
	}

	if cfg.Notify.ListenAddr != "" {
		pub, err := notify.NewPublisher(cfg.Notify, reg)
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
		if err := pub.Start(); err != nil {
			return fmt.Errorf("start publisher: %w", err)
		}
		// Stop drains the queued summary before closing the socket.
		defer pub.Stop()

		summary := result.NotifySummary()
		if err := pub.Publish(&summary); err != nil {
			return fmt.Errorf("publish summary: %w", err)
		}
		log.Info("summary published", logging.RunID(result.ID))
	}

	return nil
}

func writeReport(w io.Writer, result *engine.RunResult, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
