package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"TaskTracker/Config"
	"TaskTracker/Models"
)

// Message is a single outgoing email.
type Message struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
	IsHTML  bool
}

// Sender delivers messages through the configured SMTP server.
type Sender struct {
	config Config.SMTPConfig
}

func NewSender(config Config.SMTPConfig) *Sender {
	return &Sender{config: config}
}

// Send sends an email using the sender's configuration
func (s *Sender) Send(message Message) error {
	if len(message.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	body := buildMessage(s.config, message)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	// Create recipient list (to, cc, bcc)
	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if !s.config.TLS {
		return smtp.SendMail(serverAddr, auth, s.config.From, recipients, []byte(body))
	}

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if s.config.Username != "" {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range recipients {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %w", err)
	}
	if _, err = w.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %w", err)
	}
	return client.Quit()
}

// buildMessage renders headers in a fixed order followed by the body.
func buildMessage(config Config.SMTPConfig, message Message) string {
	var b strings.Builder

	from := config.From
	if config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", config.FromName, config.From)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(message.To, ", "))
	if len(message.CC) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(message.CC, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", message.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	if message.IsHTML {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(message.Body)
	return b.String()
}

// OverdueReminder lists an employee's overdue tasks in a plain-text email.
func OverdueReminder(employee Models.Employee, tasks []Models.Task) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\r\n\r\n", employee.Name)
	fmt.Fprintf(&body, "You have %d overdue task(s):\r\n\r\n", len(tasks))
	for _, task := range tasks {
		fmt.Fprintf(&body, "  #%d %s (due %s)\r\n", task.ID, task.Description, task.EndDateTime.Format("2006-01-02 15:04"))
	}
	body.WriteString("\r\nPlease update their status once done.\r\n")

	return Message{
		To:      []string{employee.Email},
		Subject: fmt.Sprintf("%d overdue task(s)", len(tasks)),
		Body:    body.String(),
	}
}
