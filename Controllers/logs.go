package Controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"TaskTracker/middleware"
)

// LogGroup represents a group of logs by method and path
type LogGroup struct {
	Path        string  `json:"path"`
	Method      string  `json:"method"`
	Count       int     `json:"count"`
	AvgLatency  float64 `json:"avg_latency_ms"`
	MaxLatency  float64 `json:"max_latency_ms"`
	SuccessRate float64 `json:"success_rate"`
}

// LogsResponse represents the response structure for logs API
type LogsResponse struct {
	Logs       []middleware.LogData `json:"logs"`
	Groups     []LogGroup           `json:"groups"`
	TotalLogs  int                  `json:"total_logs"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	DateFrom   time.Time            `json:"date_from"`
	DateTo     time.Time            `json:"date_to"`
}

// LogsController browses the request log written by middleware.RequestLogger.
type LogsController struct {
	Path string
	now  func() time.Time
}

func NewLogsController(path string) *LogsController {
	return &LogsController{Path: path, now: time.Now}
}

// GetLogs retrieves logs with pagination, date filtering, and grouping
// GET /api/logs
func (l *LogsController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	dateFrom, dateTo, err := l.dateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	entries, err := readLogFile(l.Path, dateFrom, dateTo)
	if err != nil {
		log.Printf("Error reading logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read logs",
		})
	}

	entries = filterLogs(entries, c.Query("path"), c.Query("method"), c.Query("status"))

	// Newest first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(LogsResponse{
		Logs:       entries[start:end],
		Groups:     groupLogs(entries),
		TotalLogs:  total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
	})
}

// dateRange defaults to today; date_to covers its whole day.
func (l *LogsController) dateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := l.now()
	if fromStr == "" && toStr == "" {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		return from, to, nil
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid date_from format. Use YYYY-MM-DD")
		}
		from = parsed
	}

	to := now
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid date_to format. Use YYYY-MM-DD")
		}
		to = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, parsed.Location())
	}
	return from, to, nil
}

// readLogFile reads JSON log lines within [from, to]. A missing file is an empty log.
func readLogFile(path string, from, to time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []middleware.LogData{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	entries := []middleware.LogData{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// text-format lines
			continue
		}
		if entry.Timestamp.Before(from) || entry.Timestamp.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// filterLogs filters logs by path, method, and status
func filterLogs(entries []middleware.LogData, pathFilter, methodFilter, statusFilter string) []middleware.LogData {
	status, statusErr := strconv.Atoi(statusFilter)

	filtered := make([]middleware.LogData, 0, len(entries))
	for _, entry := range entries {
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), strings.ToLower(pathFilter)) {
			continue
		}
		if methodFilter != "" && !strings.EqualFold(entry.Method, methodFilter) {
			continue
		}
		if statusFilter != "" && statusErr == nil && entry.Status != status {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// groupLogs summarizes entries per method and path, busiest first.
func groupLogs(entries []middleware.LogData) []LogGroup {
	groupMap := make(map[string]*LogGroup)
	successes := make(map[string]int)
	totalLatency := make(map[string]float64)

	for _, entry := range entries {
		key := fmt.Sprintf("%s %s", entry.Method, entry.Path)
		group, exists := groupMap[key]
		if !exists {
			group = &LogGroup{Path: entry.Path, Method: entry.Method}
			groupMap[key] = group
		}

		latencyMs := float64(entry.Latency.Microseconds()) / 1000.0
		group.Count++
		totalLatency[key] += latencyMs
		if latencyMs > group.MaxLatency {
			group.MaxLatency = latencyMs
		}
		if entry.Status >= 200 && entry.Status < 300 {
			successes[key]++
		}
	}

	groups := make([]LogGroup, 0, len(groupMap))
	for key, group := range groupMap {
		group.AvgLatency = totalLatency[key] / float64(group.Count)
		group.SuccessRate = float64(successes[key]) / float64(group.Count)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Method+groups[i].Path < groups[j].Method+groups[j].Path
	})
	return groups
}
