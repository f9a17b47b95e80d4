package logging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ic2hrmk/promtail"

	"github.com/ca-srg/propertime/domain"
)

// PromtailOptions tunes batching and shutdown of the Loki push client
type PromtailOptions struct {
	BatchSize    int
	BatchWait    time.Duration
	CloseTimeout time.Duration
}

func defaultPromtailOptions() PromtailOptions {
	return PromtailOptions{
		BatchSize:    100,
		BatchWait:    time.Second,
		CloseTimeout: 5 * time.Second,
	}
}

type PromtailLogger struct {
	client       promtail.Client
	component    string
	fields       []domain.Field
	closeTimeout time.Duration
	mu           sync.RWMutex
}

func NewPromtailLogger(url, username, password, component string, opts PromtailOptions) (*PromtailLogger, error) {
	defaults := defaultPromtailOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.BatchWait <= 0 {
		opts.BatchWait = defaults.BatchWait
	}
	if opts.CloseTimeout <= 0 {
		opts.CloseTimeout = defaults.CloseTimeout
	}

	// Default labels for all logs
	defaultLabels := map[string]string{
		"app":       "propertime",
		"component": component,
	}

	client, err := promtail.NewJSONv1Client(
		url,
		defaultLabels,
		promtail.WithSendBatchSize(uint(opts.BatchSize)),
		promtail.WithSendBatchTimeout(opts.BatchWait),
		promtail.WithBasicAuth(username, password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promtail client: %w", err)
	}

	return &PromtailLogger{
		client:       client,
		component:    component,
		fields:       []domain.Field{},
		closeTimeout: opts.CloseTimeout,
	}, nil
}

func (p *PromtailLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelDebug, msg, fields...)
}

func (p *PromtailLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelInfo, msg, fields...)
}

func (p *PromtailLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelWarn, msg, fields...)
}

func (p *PromtailLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelError, msg, fields...)
}

func (p *PromtailLogger) WithFields(fields ...domain.Field) domain.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newFields := make([]domain.Field, len(p.fields)+len(fields))
	copy(newFields, p.fields)
	copy(newFields[len(p.fields):], fields)

	return &PromtailLogger{
		client:       p.client,
		component:    p.component,
		fields:       newFields,
		closeTimeout: p.closeTimeout,
	}
}

func (p *PromtailLogger) log(ctx context.Context, level domain.LogLevel, msg string, fields ...domain.Field) {
	if p.client == nil {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	labels := map[string]string{
		"level": levelToString(level),
	}

	allFields := make([]domain.Field, 0, len(p.fields)+len(fields))
	allFields = append(allFields, p.fields...)
	allFields = append(allFields, fields...)
	for _, field := range allFields {
		labels[field.Key] = fmt.Sprintf("%v", field.Value)
	}

	var promtailLevel promtail.Level
	switch level {
	case domain.LogLevelDebug:
		promtailLevel = promtail.Debug
	case domain.LogLevelInfo:
		promtailLevel = promtail.Info
	case domain.LogLevelWarn:
		promtailLevel = promtail.Warn
	case domain.LogLevelError:
		promtailLevel = promtail.Error
	default:
		promtailLevel = promtail.Info
	}

	p.client.LogfWithLabels(promtailLevel, labels, "%s", msg)
}

// Shutdown flushes pending batches, giving up after the close timeout
func (p *PromtailLogger) Shutdown() error {
	if p.client == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.client.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(p.closeTimeout):
		return fmt.Errorf("promtail client did not flush within %s", p.closeTimeout)
	}
}
