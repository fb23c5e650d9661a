package planclient

import "go.uber.org/zap"

// CallEvent records metadata about a single plan submission.
type CallEvent struct {
	Endpoint   string
	Key        string
	Attempts   int
	LatencyMs  int64
	StatusCode int
	Success    bool
	ErrorCode  string
}

// Observer receives events about plan service calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ZapObserver logs call events.
type ZapObserver struct {
	logger *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger.Named("planclient")}
}

func (o *ZapObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("endpoint", e.Endpoint),
		zap.String("key", e.Key),
		zap.Int("attempts", e.Attempts),
		zap.Int64("latency_ms", e.LatencyMs),
		zap.Int("status", e.StatusCode),
	}
	if e.Success {
		o.logger.Info("plan_submit", fields...)
		return
	}
	o.logger.Warn("plan_submit", append(fields, zap.String("error_code", e.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
