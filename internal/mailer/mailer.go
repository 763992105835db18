package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"myblog/internal/logger"
	"myblog/internal/metrics"
)

type Message struct {
	Kind    string
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them. It is
// used when no mail server is configured.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info("Mail not delivered, no server configured",
		slog.String("kind", msg.Kind),
		slog.String("to", strings.Join(msg.To, ",")),
		slog.String("subject", msg.Subject))
	// Bodies can carry reset links.
	m.log.Debug("Undelivered mail body", slog.String("kind", msg.Kind), slog.String("body", msg.Body))
	return nil
}

// Async sends through the wrapped mailer on a background goroutine. Send
// never fails; delivery errors are logged and counted.
type Async struct {
	next    Mailer
	log     *logger.Logger
	metrics metrics.MetricsProvider
	wg      sync.WaitGroup
}

func NewAsync(next Mailer, log *logger.Logger, metrics metrics.MetricsProvider) *Async {
	return &Async{next: next, log: log, metrics: metrics}
}

func (a *Async) Send(ctx context.Context, msg Message) error {
	// The request context ends with the response; delivery must outlive it.
	sendCtx := context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := a.next.Send(sendCtx, msg)
		a.metrics.IncrementMailsSent(msg.Kind, err == nil)
		if err != nil {
			a.log.Error("Failed to send mail",
				slog.String("kind", msg.Kind),
				slog.String("subject", msg.Subject),
				slog.String("error", err.Error()))
			return
		}
		a.log.Debug("Mail sent", slog.String("kind", msg.Kind), slog.Int("recipients", len(msg.To)))
	}()
	return nil
}

// Wait blocks until every pending send has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}

// AdminAlert mails an operational error report to the configured admins.
type AdminAlert struct {
	mailer Mailer
	admins []string
	log    *logger.Logger
}

func NewAdminAlert(mailer Mailer, admins []string, log *logger.Logger) *AdminAlert {
	return &AdminAlert{mailer: mailer, admins: admins, log: log}
}

func (a *AdminAlert) Report(ctx context.Context, subject string, details string) {
	if len(a.admins) == 0 {
		return
	}
	err := a.mailer.Send(ctx, Message{
		Kind:    "admin_alert",
		To:      a.admins,
		Subject: fmt.Sprintf("Microblog Failure: %s", subject),
		Body:    details,
	})
	if err != nil {
		a.log.Error("Failed to alert admins", slog.String("error", err.Error()))
	}
}
