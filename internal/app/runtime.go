package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/samvad-hq/samvad-rest-facade/internal/config"
	"github.com/samvad-hq/samvad-rest-facade/pkg/alerts"
	"github.com/samvad-hq/samvad-rest-facade/pkg/async"
	"github.com/samvad-hq/samvad-rest-facade/pkg/httpclient"
	"github.com/samvad-hq/samvad-rest-facade/pkg/metrics"
	"github.com/samvad-hq/samvad-rest-facade/pkg/rest"
	"github.com/samvad-hq/samvad-rest-facade/pkg/result"
	"github.com/samvad-hq/samvad-rest-facade/pkg/rpc"
)

// Logger is the union of the logging surfaces the wired packages need.
// *logger.Logger satisfies it.
type Logger interface {
	DebugEnabled() bool
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type nopLogger struct{}

func (nopLogger) DebugEnabled() bool                   { return false }
func (nopLogger) InfoObj(string, string, interface{})  {}
func (nopLogger) DebugObj(string, string, interface{}) {}
func (nopLogger) WarnObj(string, string, interface{})  {}
func (nopLogger) ErrorObj(string, string, interface{}) {}

// Runtime wires the shared transport, the REST facade, the RPC adapter, metrics and
// the alert fanout from configuration.
type Runtime struct {
	cfg     *config.Config
	log     Logger
	rest    *rest.Rest
	caller  *rpc.Caller
	fanout  *alerts.Fanout
	metrics *metrics.CallMetrics
	gather  prometheus.Gatherer
}

// NewRuntime builds a runtime. A nil reg registers metrics with a private registry.
func NewRuntime(ctx context.Context, cfg *config.Config, log Logger, reg prometheus.Registerer) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = nopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gather, _ := reg.(prometheus.Gatherer)

	fanout, err := buildFanout(ctx, cfg.AlertsFile, log)
	if err != nil {
		return nil, err
	}

	opts := httpclient.DefaultOptions()
	opts.Timeout = cfg.HTTPTimeout
	opts.MaxBodyBytes = cfg.HTTPMaxBodyBytes
	opts.MaxConnsPerHost = cfg.HTTPMaxConnsPerHost
	opts.IdleConnTimeout = cfg.HTTPIdleConnTimeout
	opts.DisableCompression = !cfg.HTTPCompression
	opts.Logger = log
	transport := httpclient.NewRestyClient(opts)

	callMetrics := metrics.NewCallMetrics(reg)

	log.InfoObj("http transport initialized", "http_config", map[string]any{
		"timeout_seconds":           int(opts.Timeout.Seconds()),
		"max_body_bytes":            opts.MaxBodyBytes,
		"max_conns_per_host":        opts.MaxConnsPerHost,
		"idle_conn_timeout_seconds": int(opts.IdleConnTimeout.Seconds()),
		"compression":               !opts.DisableCompression,
	})

	return &Runtime{
		cfg:     cfg,
		log:     log,
		rest:    rest.New(transport, rest.WithLogger(log), rest.WithRecorder(callMetrics)),
		caller:  rpc.NewCaller(log, fanout),
		fanout:  fanout,
		metrics: callMetrics,
		gather:  gather,
	}, nil
}

func buildFanout(ctx context.Context, path string, log Logger) (*alerts.Fanout, error) {
	if path == "" {
		log.InfoObj("alerts disabled", "alerts_file", path)
		return alerts.NewFanout(nil), nil
	}

	alertsCfg, err := alerts.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load alerts config: %w", err)
	}
	enabled := alertsCfg.Enabled()
	sinks, err := alerts.DefaultBuilders().Build(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build alert sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, s := range enabled {
		summaries = append(summaries, map[string]string{"id": s.ID, "type": s.Type})
	}
	log.InfoObj("alert sinks loaded", "alerts_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return alerts.NewFanout(sinks), nil
}

// Rest returns the shared REST facade.
func (r *Runtime) Rest() *rest.Rest { return r.rest }

// Caller returns the RPC adapter wired to the alert fanout.
func (r *Runtime) Caller() *rpc.Caller { return r.caller }

// Execute issues call and returns the response text. ctx bounds the transport; its
// expiry surfaces as the system error, never as a raw context error.
func (r *Runtime) Execute(ctx context.Context, call rest.Call) (string, error) {
	return settle(r.rest.Do(ctx, call))
}

// ExecuteEnvelope issues call, decodes the body as a result envelope and returns its
// data. A failed envelope becomes a business error and, for alerting codes, an alert.
func (r *Runtime) ExecuteEnvelope(ctx context.Context, call rest.Call) (json.RawMessage, error) {
	return settle(rpc.Call[json.RawMessage](ctx, r.caller, func(ctx context.Context) (any, error) {
		return settle(result.Decode[json.RawMessage](r.rest.Do(ctx, call), r.log))
	}))
}

// settle waits for f to complete. Cancellation is handled by the transport, which
// already maps it to the system error, so the wait itself is not bounded by ctx.
func settle[T any](f *async.Future[T]) (T, error) {
	<-f.Done()
	return f.Await(context.Background())
}

// Close logs a metrics snapshot at debug level and releases alert sinks.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	if r.log.DebugEnabled() {
		if snap, err := r.MetricsSnapshot(); err == nil && len(snap) > 0 {
			r.log.DebugObj("call metrics", "call_metrics", snap)
		}
	}
	return r.fanout.Close()
}

// MetricsSnapshot flattens the gathered call metrics into "name{labels}" -> value.
// Histograms report their sample count.
func (r *Runtime) MetricsSnapshot() (map[string]float64, error) {
	if r.gather == nil {
		return nil, nil
	}
	families, err := r.gather.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, fam := range families {
		if !strings.HasPrefix(fam.GetName(), "restfacade_") {
			continue
		}
		for _, m := range fam.GetMetric() {
			out[seriesName(fam.GetName(), m)] = seriesValue(m)
		}
	}
	return out, nil
}

func seriesName(name string, m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return name
	}
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		pairs = append(pairs, l.GetName()+"="+l.GetValue())
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func seriesValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	case m.GetHistogram() != nil:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}
