// Package tracing provides AWS X-Ray distributed tracing for the API.
package tracing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/config"
)

type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	default:
		l.logger.Error(msg.String())
	}
}

// Initialize configures the X-Ray recorder. A disabled config is a no-op.
func Initialize(cfg *config.TracingConfig, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr: cfg.DaemonAddr,
	}); err != nil {
		return err
	}

	logger.WithField("daemon_addr", cfg.DaemonAddr).Info("AWS X-Ray initialized")
	return nil
}

// Middleware wraps an HTTP handler so every request opens a segment
func Middleware(serviceName string, next http.Handler) http.Handler {
	return xray.Handler(xray.NewFixedSegmentNamer(serviceName), next)
}

// Subsegment runs fn inside a named subsegment, recording its error
func Subsegment(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return xray.Capture(ctx, name, fn)
}

// AddAnnotation adds an indexed annotation to the current segment
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}
