// Package mailer envía los códigos OTP por email. Sin SMTP configurado solo
// deja el código en el log (modo desarrollo).
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/sony/gobreaker/v2"

	"dinoco-api/internal/config"
	"dinoco-api/internal/logging"
	"dinoco-api/internal/metrics"
)

const (
	senderName = "Dinoco"
	otpSubject = "Dinoco login verification code"
)

// ErrDisabled indica que no hay SMTP configurado.
var ErrDisabled = errors.New("smtp not configured")

type Mailer struct {
	from   string
	sender enmime.Sender
	cb     *gobreaker.CircuitBreaker[struct{}]
}

// New arma el mailer SMTP; devuelve un mailer deshabilitado si faltan credenciales.
func New(cfg config.SMTPConfig) *Mailer {
	if !cfg.Enabled() {
		return &Mailer{from: cfg.From}
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	return NewWithSender(cfg.From, enmime.NewSMTP(addr, auth))
}

// NewWithSender permite inyectar cualquier enmime.Sender (tests, otro transporte).
func NewWithSender(from string, sender enmime.Sender) *Mailer {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("smtp circuit breaker state changed")
		},
	})
	return &Mailer{from: from, sender: sender, cb: cb}
}

func (m *Mailer) Enabled() bool { return m.sender != nil }

// SendOTP manda el código; un error significa que el código no llegó al usuario.
func (m *Mailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	if !m.Enabled() {
		logging.Ctx(ctx).Warn().Str("email", to).Str("otp", code).Msg("SMTP not configured, OTP not sent")
		return ErrDisabled
	}

	body := fmt.Sprintf("Your Dinoco verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	_, err := m.cb.Execute(func() (struct{}, error) {
		return struct{}{}, enmime.Builder().
			From(senderName, m.from).
			To("", to).
			Subject(otpSubject).
			Text([]byte(body)).
			Send(m.sender)
	})
	if err != nil {
		metrics.MailFailures.Inc()
		logging.Ctx(ctx).Error().Err(err).Str("email", to).Msg("failed to send OTP email")
		return fmt.Errorf("send otp to %s: %w", to, err)
	}
	logging.Ctx(ctx).Info().Str("email", to).Msg("OTP email sent")
	return nil
}
