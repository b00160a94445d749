package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const uptraceLogInstrumentation = "iihf-fantasy/internal/platform/logging"

// quietPaths are polled by load balancers and browsers. Successful requests
// to them are not exported; failures still are.
var quietPaths = map[string]struct{}{
	"/healthz":      {},
	"/openapi.yaml": {},
	"/docs":         {},
	"/docs/":        {},
}

// attributeKeys renames log keys that have an OpenTelemetry or fantasy
// namespace in Uptrace.
var attributeKeys = map[string]string{
	"user_id":   "enduser.id",
	"username":  "enduser.name",
	"day":       "fantasy.day",
	"match_id":  "fantasy.match_id",
	"player_id": "fantasy.player_id",
	"method":    "http.request.method",
	"path":      "url.path",
	"status":    "http.response.status_code",
}

func newUptraceLogMirror(serviceVersion string, championshipYear int) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)
	championship := otellog.Int("fantasy.championship_year", championshipYear)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isQuietRequest(msg, args) {
			return
		}

		severity := toOTelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		now := time.Now().UTC()
		var record otellog.Record
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(championship)
		record.AddAttributes(buildOTelLogAttributes(args)...)

		otelLogger.Emit(ctx, record)
	}
}

// isQuietRequest reports a successful request log for one of quietPaths.
func isQuietRequest(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}

	var (
		path   string
		status int
	)
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "path":
			path, _ = args[i+1].(string)
		case "status":
			status, _ = args[i+1].(int)
		}
	}
	if _, ok := quietPaths[path]; !ok {
		return false
	}
	return status < 400
}

func buildOTelLogAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprintf("arg_%d", i/2)
		if k, ok := args[i].(string); ok && strings.TrimSpace(k) != "" {
			key = k
		}
		if renamed, ok := attributeKeys[key]; ok {
			key = renamed
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(args[i+1])})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

// toOTelLogValue converts the value types this service logs. Anything else
// is exported as its fmt representation.
func toOTelLogValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	case []string:
		items := make([]otellog.Value, 0, len(v))
		for _, s := range v {
			items = append(items, otellog.StringValue(s))
		}
		return otellog.SliceValue(items...)
	case []int64:
		items := make([]otellog.Value, 0, len(v))
		for _, n := range v {
			items = append(items, otellog.Int64Value(n))
		}
		return otellog.SliceValue(items...)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
