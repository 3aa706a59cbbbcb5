package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"go.uber.org/zap"
)

const providerName = "SMTP"

// Gateway delivers outreach mail through an SMTP relay such as Gmail
type Gateway struct {
	cfg       config.SMTPConfig
	logger    *zap.Logger
	hostname  string
	tlsConfig *tls.Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewGateway creates a new SMTP gateway
func NewGateway(cfg config.SMTPConfig, logger *zap.Logger) *Gateway {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &Gateway{
		cfg:       cfg,
		logger:    logger,
		hostname:  hostname,
		tlsConfig: &tls.Config{ServerName: cfg.Host},
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Send delivers the email, retrying failed attempts with a linearly growing delay
func (g *Gateway) Send(ctx context.Context, email *core.OutboundEmail) error {
	data, err := buildMessage(email, g.now())
	if err != nil {
		return &core.DeliveryError{Provider: providerName, Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		lastErr = g.sendOnce(ctx, email.From, email.To, data)
		if lastErr == nil {
			g.logger.Info("Email relayed",
				zap.String("recipient", email.To),
				zap.Int("attempt", attempt))
			return nil
		}

		if attempt == g.cfg.MaxAttempts {
			break
		}

		wait := g.cfg.RetryDelay * time.Duration(attempt)
		g.logger.Warn("Send attempt failed",
			zap.String("recipient", email.To),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(lastErr))

		if err := g.sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	return &core.DeliveryError{
		Provider: providerName,
		Err:      fmt.Errorf("all %d send attempts failed: %w", g.cfg.MaxAttempts, lastErr),
	}
}

// sendOnce opens one SMTP session and relays the message
func (g *Gateway) sendOnce(ctx context.Context, from, to string, data []byte) error {
	addr := net.JoinHostPort(g.cfg.Host, strconv.Itoa(g.cfg.Port))

	dialer := &net.Dialer{Timeout: g.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	var deadline time.Time
	if g.cfg.Timeout > 0 {
		deadline = time.Now().Add(g.cfg.Timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if !deadline.IsZero() {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set connection deadline: %w", err)
		}
	}

	var c *gosmtp.Client
	if g.cfg.StartTLS {
		// Sends EHLO and upgrades the connection before anything else.
		c, err = gosmtp.NewClientStartTLS(conn, g.tlsConfig)
		if err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	} else {
		c = gosmtp.NewClient(conn)
		if err := c.Hello(g.hostname); err != nil {
			c.Close()
			return fmt.Errorf("EHLO failed: %w", err)
		}
	}
	defer c.Close()

	if g.cfg.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", g.cfg.Username, g.cfg.Password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message has already been accepted.
		g.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
