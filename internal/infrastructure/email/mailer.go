package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"vms-http-service/internal/infrastructure/config"
)

// Mailer 访问通知邮件接口
type Mailer interface {
	SendVisitCreated(host, visitorName, purpose string, entryTime time.Time) error
}

// SMTPMailer 通过SMTP发送访问通知
type SMTPMailer struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string
	NotifyTo string
}

// NoopMailer 未启用SMTP时的空实现
type NoopMailer struct{}

func (NoopMailer) SendVisitCreated(host, visitorName, purpose string, entryTime time.Time) error {
	return nil
}

// NewMailer 根据配置创建邮件服务，未启用时返回空实现
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.SMTPEnabled || cfg.SMTPHost == "" {
		return NoopMailer{}
	}
	return &SMTPMailer{
		Addr:     cfg.GetSMTPAddr(),
		Host:     cfg.SMTPHost,
		Username: strings.TrimSpace(cfg.SMTPUsername),
		Password: strings.TrimSpace(cfg.SMTPPassword),
		From:     strings.TrimSpace(cfg.SMTPFrom),
		NotifyTo: strings.TrimSpace(cfg.SMTPNotifyTo),
	}
}

// SendVisitCreated 通知前台有新访问创建
func (m *SMTPMailer) SendVisitCreated(host, visitorName, purpose string, entryTime time.Time) error {
	if m.NotifyTo == "" {
		return fmt.Errorf("SMTP_NOTIFY_TO 未配置")
	}

	subject := fmt.Sprintf("新访问登记：%s 到访 %s", visitorName, host)
	text := fmt.Sprintf("访客 %s 已登记到访。\r\n接待人：%s\r\n目的：%s\r\n入场时间：%s\r\n",
		visitorName, host, purpose, entryTime.Format("2006-01-02 15:04:05"))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.NotifyTo)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(text)

	// 本地调试用的SMTP（如Mailpit）不需要认证
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	return smtp.SendMail(m.Addr, auth, m.From, []string{m.NotifyTo}, buf.Bytes())
}
