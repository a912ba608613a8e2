package lead

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mail is an outgoing HTML e-mail
type Mail struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers e-mails
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// SiteContact resolves the site-wide contact address
type SiteContact interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*siteapp.SettingsResponse, error)
}

var requestTypeLabels = map[lead.RequestType]string{
	lead.TypeSell: "Satmak istiyor",
	lead.TypeBuy:  "Almak istiyor",
	lead.TypeRent: "Kiralamak istiyor",
	lead.TypeLet:  "Kiraya vermek istiyor",
}

var notificationTemplate = template.Must(template.New("request").Parse(`<p><strong>{{.FullName}}</strong> yeni bir talep bıraktı.</p>
<ul>
<li>Talep: {{.TypeLabel}}</li>
<li>Telefon: {{.Phone}}</li>
{{if .Email}}<li>E-posta: {{.Email}}</li>{{end}}
{{if .ListingID}}<li>İlan: {{.ListingID}}</li>{{end}}
</ul>
{{if .Message}}<p>{{.Message}}</p>{{end}}
`))

// NotificationHandler e-mails new customer requests to the responsible
// branch, or to the site contact address when no branch is known
type NotificationHandler struct {
	branchRepo branch.BranchRepository
	site       SiteContact
	mailer     Mailer
	fallback   string
	logger     *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(branchRepo branch.BranchRepository, site SiteContact, mailer Mailer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		branchRepo: branchRepo,
		site:       site,
		mailer:     mailer,
		logger:     logger,
	}
}

// WithFallbackRecipient sets the address used when neither the branch nor
// the site settings carry an e-mail address
func (h *NotificationHandler) WithFallbackRecipient(addr string) *NotificationHandler {
	h.fallback = addr
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{lead.EventTypeCustomerRequestReceived}
}

// Handle sends the notification e-mail
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*lead.CustomerRequestReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			lead.EventTypeCustomerRequestReceived, event.EventType())
	}

	to := h.recipient(ctx, received)
	if to == "" {
		h.logger.Warn("No recipient for customer request notification",
			zap.String("request_id", received.AggregateID().String()),
		)
		return nil
	}

	var body bytes.Buffer
	if err := notificationTemplate.Execute(&body, struct {
		*lead.CustomerRequestReceivedEvent
		TypeLabel string
	}{received, requestTypeLabels[received.Type]}); err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	err := h.mailer.Send(ctx, Mail{
		To:      []string{to},
		ReplyTo: received.Email,
		Subject: fmt.Sprintf("Yeni müşteri talebi: %s", received.FullName),
		HTML:    body.String(),
	})
	if err != nil {
		h.logger.Error("Failed to send customer request notification",
			zap.String("request_id", received.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *NotificationHandler) recipient(ctx context.Context, e *lead.CustomerRequestReceivedEvent) string {
	if e.BranchID != nil {
		b, err := h.branchRepo.FindByIDForTenant(ctx, e.TenantID(), *e.BranchID)
		if err == nil && b.Email != "" {
			return b.Email
		}
	}
	settings, err := h.site.Get(ctx, e.TenantID())
	if err != nil {
		h.logger.Warn("Failed to load site contact", zap.Error(err))
		return h.fallback
	}
	if settings.Contact.Email == "" {
		return h.fallback
	}
	return settings.Contact.Email
}
