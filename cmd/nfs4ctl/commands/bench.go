package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/marmos91/nfs4wire/cmd/nfs4ctl/cmdutil"
	"github.com/marmos91/nfs4wire/internal/cli/health"
	"github.com/marmos91/nfs4wire/internal/cli/output"
	"github.com/marmos91/nfs4wire/internal/cli/timeutil"
	"github.com/marmos91/nfs4wire/internal/logger"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/attrs"
	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/compound"
	"github.com/marmos91/nfs4wire/pkg/client"
	"github.com/marmos91/nfs4wire/pkg/config"
	"github.com/marmos91/nfs4wire/pkg/metrics"
	promclient "github.com/marmos91/nfs4wire/pkg/metrics/prometheus"
)

var (
	benchDuration    time.Duration
	benchConcurrency int
	benchOp          string
	benchPath        string
	benchMetricsAddr string
	benchWatch       bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Generate concurrent load over one connection",
	Long: `Run concurrent NULL or GETATTR calls over a single multiplexed
connection and report throughput and latency.

While running, --metrics-addr (or metrics.port when metrics.enabled is set
in the config file) serves Prometheus metrics on /metrics and the connection
state on /health. --watch reloads the log level from the config
file given with --config.

Examples:
  nfs4ctl bench --duration 30s --concurrency 64
  nfs4ctl bench --op getattr --path /export --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().DurationVarP(&benchDuration, "duration", "d", 10*time.Second, "How long to run (0 runs until interrupted)")
	benchCmd.Flags().IntVarP(&benchConcurrency, "concurrency", "c", 16, "Number of concurrent callers")
	benchCmd.Flags().StringVar(&benchOp, "op", "null", "Call to issue (null|getattr)")
	benchCmd.Flags().StringVar(&benchPath, "path", "/", "Path to GETATTR with --op getattr")
	benchCmd.Flags().StringVar(&benchMetricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	benchCmd.Flags().BoolVar(&benchWatch, "watch", false, "Reload the log level when the config file changes")
}

// benchCounters aggregates results from all workers.
type benchCounters struct {
	ok       atomic.Uint64
	failed   atomic.Uint64
	timeouts atomic.Uint64
	latency  atomic.Duration
	maxLat   atomic.Duration
}

func (c *benchCounters) observe(d time.Duration, err error) {
	switch {
	case err == nil:
		c.ok.Inc()
	case errors.Is(err, client.ErrTimeout):
		c.timeouts.Inc()
	default:
		c.failed.Inc()
	}
	c.latency.Add(d)
	for {
		cur := c.maxLat.Load()
		if d <= cur || c.maxLat.CompareAndSwap(cur, d) {
			return
		}
	}
}

// benchSummary is the printable result of a run.
type benchSummary struct {
	Server      string  `json:"server" yaml:"server"`
	Operation   string  `json:"operation" yaml:"operation"`
	Concurrency int     `json:"concurrency" yaml:"concurrency"`
	Elapsed     string  `json:"elapsed" yaml:"elapsed"`
	OK          uint64  `json:"ok" yaml:"ok"`
	Failed      uint64  `json:"failed" yaml:"failed"`
	Timeouts    uint64  `json:"timeouts" yaml:"timeouts"`
	CallsPerSec float64 `json:"calls_per_sec" yaml:"calls_per_sec"`
	AvgLatency  string  `json:"avg_latency" yaml:"avg_latency"`
	MaxLatency  string  `json:"max_latency" yaml:"max_latency"`
	BytesSent   uint64  `json:"bytes_sent" yaml:"bytes_sent"`
	BytesRecv   uint64  `json:"bytes_received" yaml:"bytes_received"`
	Unmatched   uint64  `json:"unmatched_replies" yaml:"unmatched_replies"`
}

func (s *benchSummary) pairs() []output.KeyValue {
	return []output.KeyValue{
		{Key: "Server", Value: s.Server},
		{Key: "Operation", Value: s.Operation},
		{Key: "Concurrency", Value: strconv.Itoa(s.Concurrency)},
		{Key: "Elapsed", Value: s.Elapsed},
		{Key: "OK", Value: strconv.FormatUint(s.OK, 10)},
		{Key: "Failed", Value: strconv.FormatUint(s.Failed, 10)},
		{Key: "Timeouts", Value: strconv.FormatUint(s.Timeouts, 10)},
		{Key: "Calls/s", Value: strconv.FormatFloat(s.CallsPerSec, 'f', 1, 64)},
		{Key: "Avg latency", Value: s.AvgLatency},
		{Key: "Max latency", Value: s.MaxLatency},
		{Key: "Bytes sent", Value: strconv.FormatUint(s.BytesSent, 10)},
		{Key: "Bytes received", Value: strconv.FormatUint(s.BytesRecv, 10)},
		{Key: "Unmatched replies", Value: strconv.FormatUint(s.Unmatched, 10)},
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	call, err := benchCall(benchOp, benchPath)
	if err != nil {
		return err
	}
	if benchWatch && cmdutil.Flags.ConfigFile == "" {
		return fmt.Errorf("--watch requires --config")
	}

	metricsAddr := benchMetricsAddr
	if metricsAddr == "" {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.Metrics.Enabled {
			metricsAddr = fmt.Sprintf(":%d", cfg.Metrics.Port)
		}
	}

	var m metrics.ClientMetrics
	if metricsAddr != "" {
		metrics.InitRegistry()
		m = promclient.NewClientMetrics()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := cmdutil.Open(ctx, m)
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		counters benchCounters
		started  = time.Now()
		group    run.Group
	)

	// Workers
	{
		workCtx, stop := context.WithCancel(ctx)
		group.Add(func() error {
			done := make(chan struct{})
			for i := 0; i < benchConcurrency; i++ {
				go func() {
					defer func() { done <- struct{}{} }()
					for workCtx.Err() == nil {
						start := time.Now()
						err := call(workCtx, s.Client)
						if workCtx.Err() != nil {
							return
						}
						counters.observe(time.Since(start), err)
					}
				}()
			}
			for i := 0; i < benchConcurrency; i++ {
				<-done
			}
			return nil
		}, func(error) {
			stop()
		})
	}

	// Duration timer
	if benchDuration > 0 {
		timerCtx, stop := context.WithCancel(ctx)
		group.Add(func() error {
			select {
			case <-time.After(benchDuration):
			case <-timerCtx.Done():
			}
			return nil
		}, func(error) {
			stop()
		})
	}

	// Metrics and health server
	if metricsAddr != "" {
		lis, err := net.Listen("tcp", metricsAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", metricsAddr, err)
		}
		srv := &http.Server{
			Handler:           newBenchRouter(s.Client, s.Config.Client.Server, started),
			ReadHeaderTimeout: 10 * time.Second,
		}
		group.Add(func() error {
			logger.Info("Serving metrics", "address", lis.Addr().String())
			err := srv.Serve(lis)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}, func(error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
			}
		})
	}

	// Signal handler
	{
		sigCtx, stop := context.WithCancel(ctx)
		group.Add(func() error {
			ch := make(chan os.Signal, 2)
			signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(ch)

			select {
			case sig := <-ch:
				logger.Info("Received signal, stopping", "signal", sig.String())
			case <-sigCtx.Done():
			}
			return nil
		}, func(error) {
			stop()
		})
	}

	if benchWatch {
		w, err := config.Watch(cmdutil.Flags.ConfigFile, func(cfg *config.Config) {
			logger.SetLevel(cfg.Logging.Level)
		})
		if err != nil {
			return err
		}
		logger.Debug("Watching configuration", logger.KeyPath, w.Path())
	}

	logger.Info("Benchmark started",
		logger.KeyServer, s.Config.Client.Server,
		"operation", benchOp,
		"concurrency", benchConcurrency)

	if err := group.Run(); err != nil {
		return err
	}

	summary := summarize(&counters, s.Client.Stats(), s.Config.Client.Server, time.Since(started))
	return cmdutil.PrintOutput(cmd.OutOrStdout(), summary, false, "", keyValueTable(summary.pairs()))
}

// benchCall returns the function one worker issues in a loop.
func benchCall(op, path string) (func(context.Context, *client.Client) error, error) {
	switch op {
	case "null":
		return func(ctx context.Context, c *client.Client) error {
			return c.Null(ctx)
		}, nil
	case "getattr":
		args, err := compound.NewBuilder("bench").Walk(path).Getattr(attrs.Request(
			attrs.FATTR4_TYPE, attrs.FATTR4_CHANGE, attrs.FATTR4_SIZE,
		)).Build()
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, c *client.Client) error {
			res, err := c.Compound(ctx, args)
			if err != nil {
				return err
			}
			return client.CheckStatus(res)
		}, nil
	default:
		return nil, fmt.Errorf("unknown --op %q (expected null or getattr)", op)
	}
}

func summarize(c *benchCounters, st client.Stats, server string, elapsed time.Duration) *benchSummary {
	ok, failed, timeouts := c.ok.Load(), c.failed.Load(), c.timeouts.Load()
	total := ok + failed + timeouts

	s := &benchSummary{
		Server:      server,
		Operation:   benchOp,
		Concurrency: benchConcurrency,
		Elapsed:     timeutil.FormatElapsed(elapsed),
		OK:          ok,
		Failed:      failed,
		Timeouts:    timeouts,
		AvgLatency:  "-",
		MaxLatency:  timeutil.FormatElapsed(c.maxLat.Load()),
		BytesSent:   st.BytesSent,
		BytesRecv:   st.BytesReceived,
		Unmatched:   st.Unmatched,
	}
	if elapsed > 0 {
		s.CallsPerSec = float64(total) / elapsed.Seconds()
	}
	if total > 0 {
		s.AvgLatency = timeutil.FormatElapsed(c.latency.Load() / time.Duration(total))
	}
	return s
}

// keyValueTable renders key/value pairs through the table printer.
type keyValueTable []output.KeyValue

func (t keyValueTable) Headers() []string { return []string{"METRIC", "VALUE"} }

func (t keyValueTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, kv := range t {
		rows[i] = []string{kv.Key, kv.Value}
	}
	return rows
}

// newBenchRouter serves /metrics and /health for a running benchmark.
func newBenchRouter(c *client.Client, server string, started time.Time) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		resp := healthOf(c, server, started, time.Now())
		code := http.StatusOK
		if resp.Status != health.StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
	return r
}

func healthOf(c *client.Client, server string, started, now time.Time) health.Response {
	st := c.Stats()
	state := c.State()
	uptime := now.Sub(started)

	resp := health.Response{
		Status:    health.StatusHealthy,
		Timestamp: now.UTC().Format(time.RFC3339),
		Data: health.Data{
			Server:    server,
			State:     state.String(),
			StartedAt: started.UTC().Format(time.RFC3339),
			Uptime:    timeutil.FormatElapsed(uptime),
			UptimeSec: int64(uptime.Seconds()),
			Pending:   c.Pending(),
			Calls:     st.Calls,
			Replies:   st.Replies,
			Timeouts:  st.Timeouts,
		},
	}
	if state != client.StateConnected {
		resp.Status = health.StatusUnhealthy
		resp.Error = "connection is " + state.String()
	}
	return resp
}
