// Package notify delivers receipt and verification emails. Delivery runs on
// a small worker pool off the request path; a failed send is logged and
// reported nowhere else, it never affects the purchase that triggered it.
package notify

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer struct {
	cfg  config.SmtpConfig
	pool *ants.Pool
}

func NewMailer(cfg config.SmtpConfig) (*Mailer, error) {
	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}
	return &Mailer{cfg: cfg, pool: pool}, nil
}

func (m *Mailer) Close() {
	m.pool.Release()
}

// SubscribeCheckout attaches the receipt sender to the checkout event topic.
func (m *Mailer) SubscribeCheckout(bus EventBus.Bus) error {
	return bus.SubscribeAsync(shop.TopicCheckoutCompleted, m.onCheckout, false)
}

func (m *Mailer) onCheckout(ev shop.ReceiptEvent) {
	if ev.Email == "" {
		zap.L().Warn("receipt skipped, no email on file",
			zap.String("username", ev.Username),
			zap.String("order_no", ev.Record.OrderNo))
		return
	}
	err := m.pool.Submit(func() {
		if err := m.SendReceipt(ev); err != nil {
			zap.L().Error("receipt delivery failed",
				zap.String("username", ev.Username),
				zap.String("order_no", ev.Record.OrderNo),
				zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Error("receipt task rejected", zap.Error(err))
	}
}

// SendReceipt emails the purchase summary.
func (m *Mailer) SendReceipt(ev shop.ReceiptEvent) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\nThanks for your purchase!\r\n\r\n", ev.Username)
	fmt.Fprintf(&body, "Order %s (%s)\r\n", ev.Record.OrderNo, strings.ToUpper(ev.Record.PaymentMethod))
	fmt.Fprintf(&body, "Date: %s\r\n\r\n", ev.Record.Date.Format("2006-01-02 15:04:05"))
	for _, item := range ev.Record.Items {
		fmt.Fprintf(&body, "  - %s  $%.2f\r\n", item.Title, item.Price)
	}
	fmt.Fprintf(&body, "\r\nTotal: $%.2f\r\n\r\nFatBoy GamingStore\r\n", ev.Record.Total)

	subject := fmt.Sprintf("Your FatBoy GamingStore receipt - order %s", ev.Record.OrderNo)
	return m.send(ev.Email, subject, body.String())
}

// SendVerification emails the address confirmation link.
func (m *Mailer) SendVerification(email, username, verifyURL string) error {
	body := fmt.Sprintf("Hi %s,\r\n\r\nConfirm your email address by opening:\r\n\r\n%s\r\n\r\nFatBoy GamingStore\r\n",
		username, verifyURL)
	return m.send(email, "Verify your FatBoy GamingStore email", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.cfg.Enable {
		zap.L().Info("smtp disabled, mail not sent",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
