// Package mailer e-postaları şablondan üretir ve arka planda bir kuyruk üzerinden gönderir.
package mailer

import (
	"context"
	"errors"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/configs/configsmail"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message tek bir alıcıya gidecek HTML e-posta.
// Tag metriklerde ve loglarda mesaj türünü ayırt etmek için kullanılır.
type Message struct {
	To      string
	Subject string
	HTML    string
	Tag     string
}

// Sender mesajı gerçekten teslim eden taraf.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender gomail ile SMTP üzerinden gönderir.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg configsmail.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("alıcı adresi boş")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return s.dialer.DialAndSend(m)
}

// LogSender SMTP tanımlı değilken mesajları sadece loglar.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	configslog.Log.Info("E-posta (SMTP kapalı, sadece loglandı)",
		zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("tag", msg.Tag))
	return nil
}

// NewSender ayarlara göre uygun Sender'ı seçer.
func NewSender(cfg configsmail.Config) Sender {
	if !cfg.Enabled() {
		configslog.SLog.Warn("SMTP_HOST tanımlı değil, e-postalar gönderilmeyecek sadece loglanacak")
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = LogSender{}
)
