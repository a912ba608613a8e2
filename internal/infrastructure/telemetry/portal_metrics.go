package telemetry

import (
	"context"
	"fmt"

	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/emlak/backend/portal"

// PortalMetrics counts portal activity from domain events
type PortalMetrics struct {
	listingEvents metric.Int64Counter
	requests      metric.Int64Counter
}

// NewPortalMetrics registers the counters on mp, falling back to the global
// meter provider when mp is nil.
func NewPortalMetrics(mp metric.MeterProvider) (*PortalMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	listingEvents, err := meter.Int64Counter("emlak.listing.lifecycle",
		metric.WithDescription("Listing publish, archive and reprice events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create listing counter: %w", err)
	}
	requests, err := meter.Int64Counter("emlak.customer_request.received",
		metric.WithDescription("Customer requests left through the site forms"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	return &PortalMetrics{listingEvents: listingEvents, requests: requests}, nil
}

func (m *PortalMetrics) EventTypes() []string {
	return []string{
		listing.EventTypeListingPublished,
		listing.EventTypeListingArchived,
		listing.EventTypeListingPriceChanged,
		lead.EventTypeCustomerRequestReceived,
	}
}

func (m *PortalMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := attribute.String("tenant_id", event.TenantID().String())
	switch e := event.(type) {
	case *lead.CustomerRequestReceivedEvent:
		m.requests.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String("type", string(e.Type)),
		))
	case *listing.ListingPublishedEvent:
		m.listingEvents.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String("event", e.EventType()),
			attribute.String("category", string(e.Category)),
		))
	default:
		m.listingEvents.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String("event", event.EventType()),
		))
	}
	return nil
}

var _ shared.EventHandler = (*PortalMetrics)(nil)
