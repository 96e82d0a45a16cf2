package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Log format: "json" or "text"
	Format string
	// Include authenticated employee in logs
	IncludeEmployee bool
	// Skip logging for paths with these prefixes
	SkipPaths []string
	// Output receives console lines; defaults to the standard logger
	Output io.Writer
}

// LogData contains all the information that will be logged
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	URL           string        `json:"url"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	RequestID     string        `json:"request_id"`
	Error         string        `json:"error,omitempty"`
	EmployeeID    uint          `json:"employee_id,omitempty"`
	EmployeeEmail string        `json:"employee_email,omitempty"`
	ContentLength int64         `json:"content_length"`
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:         true,
		File:            true,
		LogFilePath:     "logs/requests.log",
		Format:          "json",
		IncludeEmployee: true,
		SkipPaths:       []string{"/health"},
	}
}

// RequestLogger logs every request to the console and LOG_DIR/requests.log.
func RequestLogger(logDir, format string) fiber.Handler {
	cfg := DefaultLogConfig()
	cfg.LogFilePath = filepath.Join(logDir, "requests.log")
	cfg.Format = format
	return LoggingMiddleware(cfg)
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	var sink *fileSink
	if cfg.File {
		sink = newFileSink(cfg.LogFilePath)
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		for _, skipPath := range cfg.SkipPaths {
			if strings.HasPrefix(c.Path(), skipPath) {
				return c.Next()
			}
		}

		err := c.Next()
		if err != nil {
			// Let the app error handler set the final status before logging.
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		data := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			URL:           c.OriginalURL(),
			Status:        c.Response().StatusCode(),
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			RequestID:     c.Get("X-Request-ID"),
			ContentLength: int64(len(c.Response().Body())),
		}
		if err != nil {
			data.Error = err.Error()
		}
		if cfg.IncludeEmployee {
			if identity, ok := CurrentIdentity(c); ok {
				data.EmployeeID = identity.EmployeeID
				data.EmployeeEmail = identity.Email
			}
		}

		message := formatLog(cfg.Format, data)
		if cfg.Console {
			if cfg.Output != nil {
				fmt.Fprintln(cfg.Output, message)
			} else {
				log.Println(message)
			}
		}
		if sink != nil {
			sink.write(message)
		}

		// The error was already rendered above.
		return nil
	}
}

// ErrorLogger appends requests that ended with status >= 400 to path.
func ErrorLogger(path string) fiber.Handler {
	sink := newFileSink(path)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			data := LogData{
				Timestamp: start,
				Method:    c.Method(),
				Path:      c.Path(),
				URL:       c.OriginalURL(),
				Status:    c.Response().StatusCode(),
				Latency:   time.Since(start),
				IP:        c.IP(),
				UserAgent: c.Get(fiber.HeaderUserAgent),
			}
			if err != nil {
				data.Error = err.Error()
			}
			if identity, ok := CurrentIdentity(c); ok {
				data.EmployeeID = identity.EmployeeID
				data.EmployeeEmail = identity.Email
			}
			sink.write(formatLog("json", data))
		}

		return err
	}
}

func formatLog(format string, data LogData) string {
	if format == "text" {
		return formatTextLog(data)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return formatTextLog(data)
	}
	return string(jsonData)
}

// formatTextLog formats the log data as human-readable text
func formatTextLog(data LogData) string {
	employee := ""
	if data.EmployeeID != 0 {
		employee = fmt.Sprintf(" employee:%d", data.EmployeeID)
	}

	return fmt.Sprintf(
		"[%s] %s %s %d %s %s%s",
		data.Timestamp.Format("2006-01-02 15:04:05"),
		data.Method,
		data.Path,
		data.Status,
		data.Latency,
		data.IP,
		employee,
	)
}

// fileSink serializes appends from concurrent requests to one log file.
type fileSink struct {
	mu   sync.Mutex
	path string
}

func newFileSink(path string) *fileSink {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
	}
	return &fileSink{path: path}
}

func (s *fileSink) write(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	if _, err := file.WriteString(message); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}
