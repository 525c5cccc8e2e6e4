// Package notify delivers email notifications for account and calendar
// activity.
//
// Delivery is best-effort by contract: the service layer treats every Notifier
// error as log-and-continue, so a down SMTP relay never fails a write that has
// already been committed to the store.
package notify

import (
	"context"

	"github.com/sarveshmina/calendify/pkg/models"
)

// Notifier sends transactional emails. Implementations must be safe for
// concurrent use.
type Notifier interface {
	// Welcome greets a freshly registered user.
	Welcome(ctx context.Context, user *models.User) error
	// GroupInvite tells user they were added to cal by inviter.
	GroupInvite(ctx context.Context, user *models.User, cal *models.Calendar, inviter *models.User) error
	// EventCreated tells a group member about a new event on a shared calendar.
	EventCreated(ctx context.Context, user *models.User, event *models.Event, cal *models.Calendar, creator *models.User) error
}

// Noop discards every notification. Used by tests and by deployments without
// SMTP configuration.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) Welcome(ctx context.Context, user *models.User) error { return nil }

func (Noop) GroupInvite(ctx context.Context, user *models.User, cal *models.Calendar, inviter *models.User) error {
	return nil
}

func (Noop) EventCreated(ctx context.Context, user *models.User, event *models.Event, cal *models.Calendar, creator *models.User) error {
	return nil
}
