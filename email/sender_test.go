package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TaskTracker/Config"
	"TaskTracker/Models"
)

func TestBuildMessage(t *testing.T) {
	cfg := Config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", FromName: "Task Tracker"}

	raw := buildMessage(cfg, Message{
		To:      []string{"a@x.com", "b@x.com"},
		CC:      []string{"lead@x.com"},
		Subject: "Hi",
		Body:    "body text",
	})

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, []string{
		"From: Task Tracker <noreply@example.com>",
		"To: a@x.com, b@x.com",
		"Cc: lead@x.com",
		"Subject: Hi",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}, strings.Split(headers, "\r\n"))
	assert.Equal(t, "body text", body)
}

func TestBuildMessage_HTMLWithoutFromName(t *testing.T) {
	raw := buildMessage(Config.SMTPConfig{From: "noreply@example.com"}, Message{
		To:     []string{"a@x.com"},
		IsHTML: true,
		Body:   "<p>x</p>",
	})

	assert.True(t, strings.HasPrefix(raw, "From: noreply@example.com\r\n"))
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.NotContains(t, raw, "Cc:")
}

func TestOverdueReminder(t *testing.T) {
	employee := Models.Employee{ID: 3, Name: "Mona", Email: "mona@x.com"}
	tasks := []Models.Task{
		{ID: 10, Description: "File report", EndDateTime: Models.NewLocalDateTime(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC))},
		{ID: 11, Description: "Call client", EndDateTime: Models.NewLocalDateTime(time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC))},
	}

	msg := OverdueReminder(employee, tasks)

	assert.Equal(t, []string{"mona@x.com"}, msg.To)
	assert.Equal(t, "2 overdue task(s)", msg.Subject)
	assert.Contains(t, msg.Body, "Hello Mona,")
	assert.Contains(t, msg.Body, "#10 File report (due 2024-05-01 17:00)")
	assert.Contains(t, msg.Body, "#11 Call client (due 2024-05-02 09:30)")
}

func TestSender_RejectsNoRecipients(t *testing.T) {
	sender := NewSender(Config.SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"})
	err := sender.Send(Message{Subject: "x"})
	assert.Error(t, err)
}
