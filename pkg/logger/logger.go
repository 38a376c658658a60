package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLevel maps a LOG_LEVEL value to a LogLevel, defaulting to info.
func ParseLevel(value string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(value))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type Logger struct {
	zap *zap.Logger
}

var globalLogger *Logger

func New(output io.Writer, level LogLevel) *Logger {
	if output == nil {
		output = os.Stdout
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "action",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(output), level.zapLevel())

	// log() and the exported wrapper sit between zap and the real caller.
	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))}
}

func Init(level string) {
	globalLogger = New(os.Stdout, ParseLevel(level))
}

// SetGlobal replaces the process logger. Tests use it to capture output.
func SetGlobal(l *Logger) {
	globalLogger = l
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.zap.Sync()
	}
}

func (l *Logger) log(level LogLevel, action string, userID *string, details map[string]interface{}, err error) {
	fields := make([]zap.Field, 0, 3)
	if userID != nil {
		fields = append(fields, zap.String("user_id", *userID))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("details", details))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch level {
	case LevelDebug:
		l.zap.Debug(action, fields...)
	case LevelWarn:
		l.zap.Warn(action, fields...)
	case LevelError:
		l.zap.Error(action, fields...)
	default:
		l.zap.Info(action, fields...)
	}
}

func (l *Logger) Info(action string, details map[string]interface{}) {
	l.log(LevelInfo, action, nil, details, nil)
}

func (l *Logger) Warn(action string, details map[string]interface{}) {
	l.log(LevelWarn, action, nil, details, nil)
}

func (l *Logger) Error(action string, err error, details map[string]interface{}) {
	l.log(LevelError, action, nil, details, err)
}

func Debug(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelDebug, action, nil, details, nil)
	}
}

func Info(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelInfo, action, nil, details, nil)
	}
}

func InfoWithUser(userID string, action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelInfo, action, &userID, details, nil)
	}
}

func Warn(action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelWarn, action, nil, details, nil)
	}
}

func WarnWithUser(userID string, action string, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelWarn, action, &userID, details, nil)
	}
}

func Error(action string, err error, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelError, action, nil, details, err)
	}
}

func ErrorWithUser(userID string, action string, err error, details map[string]interface{}) {
	if globalLogger != nil {
		globalLogger.log(LevelError, action, &userID, details, err)
	}
}

func GetUserIDFromContext(c *fiber.Ctx) *string {
	if userID := c.Locals("userID"); userID != nil {
		if id, ok := userID.(string); ok {
			return &id
		}
	}
	return nil
}

var sensitiveFields = []string{"password", "newPassword", "secret", "token", "thumbnail"}

func redactSensitiveFields(jsonMap map[string]interface{}) {
	for _, field := range sensitiveFields {
		if _, exists := jsonMap[field]; exists {
			jsonMap[field] = "[REDACTED]"
		}
	}
}

func GetRequestBodySummary(c *fiber.Ctx) string {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return fmt.Sprintf("multipart (%d bytes)", len(c.Body()))
	}

	body := c.Body()
	if len(body) == 0 {
		return "empty"
	}

	if len(body) > 1024 {
		return fmt.Sprintf("large (%d bytes)", len(body))
	}

	var jsonMap map[string]interface{}
	if err := json.Unmarshal(body, &jsonMap); err == nil {
		redactSensitiveFields(jsonMap)
		if jsonBytes, err := json.Marshal(jsonMap); err == nil {
			if len(jsonBytes) > 200 {
				return string(jsonBytes[:200]) + "..."
			}
			return string(jsonBytes)
		}
	}

	return fmt.Sprintf("binary (%d bytes)", len(body))
}

func GetResponseSizeSummary(c *fiber.Ctx) string {
	response := c.Response()
	if response == nil {
		return "unknown"
	}

	body := response.Body()
	if len(body) == 0 {
		return "empty"
	}

	if len(body) > 1024 {
		return fmt.Sprintf("large (%d bytes)", len(body))
	}

	return fmt.Sprintf("small (%d bytes)", len(body))
}

func GenerateRequestID() string {
	return uuid.New().String()
}
