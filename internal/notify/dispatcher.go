// Package notify delivers email, SMS and office alerts. Delivery never blocks
// the request that triggered it: every send runs on its own goroutine with a
// timeout and failures are only logged.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

type Texter interface {
	SendSMS(ctx context.Context, to, body string) error
}

type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Dispatcher fans notifications out to whichever channels are configured.
// A nil channel is skipped with a log line.
type Dispatcher struct {
	mailer  Mailer
	texter  Texter
	alerter Alerter
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(m Mailer, t Texter, a Alerter, log *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{mailer: m, texter: t, alerter: a, log: log, timeout: timeout}
}

func (d *Dispatcher) Email(to, subject, body string) {
	if d.mailer == nil {
		d.log.Debug("email skipped, no mailer configured", zap.String("to", to))
		return
	}
	d.run("email", to, func(ctx context.Context) error {
		return d.mailer.SendMail(ctx, to, subject, body)
	})
}

func (d *Dispatcher) SMS(to, body string) {
	if d.texter == nil {
		d.log.Debug("sms skipped, no texter configured", zap.String("to", to))
		return
	}
	d.run("sms", to, func(ctx context.Context) error {
		return d.texter.SendSMS(ctx, to, body)
	})
}

func (d *Dispatcher) AlertOffice(text string) {
	if d.alerter == nil {
		return
	}
	d.run("office_alert", "", func(ctx context.Context) error {
		return d.alerter.Alert(ctx, text)
	})
}

// Wait blocks until in-flight sends finish. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(channel, to string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			d.log.Warn("notification failed",
				zap.String("channel", channel),
				zap.String("to", to),
				zap.Error(err))
			return
		}
		d.log.Debug("notification sent", zap.String("channel", channel), zap.String("to", to))
	}()
}
