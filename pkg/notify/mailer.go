package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sarveshmina/calendify/pkg/models"
	"gopkg.in/gomail.v2"
)

// Mailer sends notifications over SMTP using gomail.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Notifier = (*Mailer)(nil)

// NewMailer builds an SMTP-backed Notifier. The dialer connects lazily on
// first send.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if to == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", wrap(body))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) Welcome(ctx context.Context, user *models.User) error {
	body := fmt.Sprintf(
		`<h2>Welcome to Calendify, %s!</h2>
<p>Your account is ready. Your default calendar has been created, so you can
start adding events right away.</p>`,
		html.EscapeString(user.Username))
	return m.send(user.Email, "Welcome to Calendify", body)
}

func (m *Mailer) GroupInvite(ctx context.Context, user *models.User, cal *models.Calendar, inviter *models.User) error {
	body := fmt.Sprintf(
		`<h2>You joined a group calendar</h2>
<p><b>%s</b> added you to the group calendar <b>%s</b>.
Events on this calendar now count towards your availability.</p>`,
		html.EscapeString(inviter.Username), html.EscapeString(cal.Name))
	return m.send(user.Email, fmt.Sprintf("Added to %s", cal.Name), body)
}

func (m *Mailer) EventCreated(ctx context.Context, user *models.User, event *models.Event, cal *models.Calendar, creator *models.User) error {
	body := fmt.Sprintf(
		`<h2>New event on %s</h2>
<p><b>%s</b> scheduled <b>%s</b><br>
from %s<br>
to %s.</p>`,
		html.EscapeString(cal.Name),
		html.EscapeString(creator.Username),
		html.EscapeString(event.Title),
		event.StartTime.Format(time.RFC1123),
		event.EndTime.Format(time.RFC1123))
	return m.send(user.Email, fmt.Sprintf("New event: %s", event.Title), body)
}

// wrap puts the fragment into the shared email shell.
func wrap(inner string) string {
	return fmt.Sprintf(
		`<html><body style="font-family:Arial,sans-serif;color:#333;max-width:600px;margin:0 auto">
%s
<hr style="border:none;border-top:1px solid #ddd">
<p style="font-size:12px;color:#888">Sent by Calendify. You receive this because of activity on your account.</p>
</body></html>`, inner)
}
