package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/roamstay/server/internal/shared/config"
)

// VoucherData carries the details rendered into a booking voucher mail.
type VoucherData struct {
	HotelName     string
	ReservationID string
	Amount        float64
	Currency      string
}

// RefundData carries the details rendered into a refund notice mail.
type RefundData struct {
	ReservationID string
	Amount        float64
	Currency      string
}

// Sender sends guest-facing notifications.
type Sender interface {
	SendVoucher(ctx context.Context, email, name string, data VoucherData) error
	SendRefundNotice(ctx context.Context, email, name string, data RefundData) error
}

// NewSender returns an SMTP sender when email is configured and a no-op
// sender otherwise.
func NewSender(cfg *config.EmailConfig, logger *zap.Logger) Sender {
	if cfg.Provider == "smtp" && cfg.SMTP.Host != "" {
		return NewSMTPSender(cfg, logger)
	}
	return NewNoOpSender(logger)
}

// SMTPSender sends notifications via SMTP.
type SMTPSender struct {
	config *config.EmailConfig
	logger *zap.Logger
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg *config.EmailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config: cfg,
		logger: logger,
	}
}

// SendVoucher sends the booking voucher after a successful payment.
func (s *SMTPSender) SendVoucher(ctx context.Context, email, name string, data VoucherData) error {
	subject := "Your booking is confirmed"
	body, err := s.renderTemplate(voucherTemplate, map[string]string{
		"Name":          name,
		"HotelName":     data.HotelName,
		"ReservationID": data.ReservationID,
		"Amount":        fmt.Sprintf("%.2f", data.Amount),
		"Currency":      data.Currency,
	})
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}
	return s.sendEmail(email, subject, body)
}

// SendRefundNotice sends a notice after a refund is issued.
func (s *SMTPSender) SendRefundNotice(ctx context.Context, email, name string, data RefundData) error {
	subject := "Your refund has been processed"
	body, err := s.renderTemplate(refundTemplate, map[string]string{
		"Name":          name,
		"ReservationID": data.ReservationID,
		"Amount":        fmt.Sprintf("%.2f", data.Amount),
		"Currency":      data.Currency,
	})
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}
	return s.sendEmail(email, subject, body)
}

func (s *SMTPSender) sendEmail(to, subject, body string) error {
	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTP.Host, s.config.SMTP.Port)

	var auth smtp.Auth
	if s.config.SMTP.User != "" && s.config.SMTP.Password != "" {
		auth = smtp.PlainAuth("", s.config.SMTP.User, s.config.SMTP.Password, s.config.SMTP.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromAddress, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *SMTPSender) renderTemplate(tmpl string, data map[string]string) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const voucherTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .voucher { border: 1px solid #ddd; border-radius: 6px; padding: 16px; margin: 16px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Booking confirmed</h1>
        <p>Hi {{.Name}},</p>
        <p>Your payment was received and your stay at <strong>{{.HotelName}}</strong> is confirmed.</p>
        <div class="voucher">
            <p>Reservation: {{.ReservationID}}</p>
            <p>Amount paid: {{.Amount}} {{.Currency}}</p>
        </div>
        <p>Show this voucher at check-in. We wish you a pleasant stay.</p>
        <div class="footer">
            <p>If you did not make this booking, please contact support immediately.</p>
        </div>
    </div>
</body>
</html>
`

const refundTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Refund processed</h1>
        <p>Hi {{.Name}},</p>
        <p>A refund of <strong>{{.Amount}} {{.Currency}}</strong> for reservation {{.ReservationID}} has been issued.</p>
        <p>Depending on your bank it can take 5 to 10 business days to appear on your statement.</p>
        <div class="footer">
            <p>If you have questions about this refund, reply to this email.</p>
        </div>
    </div>
</body>
</html>
`

// NoOpSender logs notifications instead of sending them. Used when
// email is not configured.
type NoOpSender struct {
	logger *zap.Logger
}

// NewNoOpSender creates a no-op sender.
func NewNoOpSender(logger *zap.Logger) *NoOpSender {
	return &NoOpSender{logger: logger}
}

// SendVoucher logs but doesn't send.
func (s *NoOpSender) SendVoucher(ctx context.Context, email, name string, data VoucherData) error {
	s.logger.Info("voucher email (no-op)",
		zap.String("email", email),
		zap.String("hotel", data.HotelName),
		zap.String("reservation_id", data.ReservationID),
	)
	return nil
}

// SendRefundNotice logs but doesn't send.
func (s *NoOpSender) SendRefundNotice(ctx context.Context, email, name string, data RefundData) error {
	s.logger.Info("refund email (no-op)",
		zap.String("email", email),
		zap.String("reservation_id", data.ReservationID),
	)
	return nil
}
