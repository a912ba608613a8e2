package lead

import (
	"context"
	"errors"
	"testing"

	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/emlak/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRequestService() (*RequestService, *testutil.MockCustomerRequestRepository, *testutil.MockListingRepository, *testutil.RecordingPublisher) {
	requests := new(testutil.MockCustomerRequestRepository)
	listings := new(testutil.MockListingRepository)
	publisher := &testutil.RecordingPublisher{}
	svc := NewRequestService(requests, listings, zap.NewNop())
	svc.SetEventPublisher(publisher)
	return svc, requests, listings, publisher
}

func TestRequestService_Submit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("stores the request and publishes the event", func(t *testing.T) {
		svc, requests, _, publisher := newRequestService()
		requests.On("Save", ctx, mock.AnythingOfType("*lead.CustomerRequest")).Return(nil)

		resp, err := svc.Submit(ctx, tenantID, SubmitRequest{
			FullName: "Ali Veli",
			Phone:    "0555 123 45 67",
			Type:     "SELL",
		}, "10.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, "Ali Veli", resp.FullName)
		assert.Equal(t, "05551234567", resp.Phone)
		assert.Equal(t, "NEW", resp.Status)
		assert.Equal(t, []string{lead.EventTypeCustomerRequestReceived}, publisher.Types())
	})

	t.Run("routes listing requests to the listing branch", func(t *testing.T) {
		svc, requests, listings, _ := newRequestService()
		branchID := uuid.New()
		l := &listing.Listing{BranchID: &branchID}
		l.ID = uuid.New()
		listings.On("FindByIDForTenant", ctx, tenantID, l.ID).Return(l, nil)
		requests.On("Save", ctx, mock.AnythingOfType("*lead.CustomerRequest")).Return(nil)

		resp, err := svc.Submit(ctx, tenantID, SubmitRequest{
			FullName:  "Ayşe Kaya",
			Phone:     "05321112233",
			Type:      "BUY",
			ListingID: &l.ID,
		}, "")
		require.NoError(t, err)
		require.NotNil(t, resp.BranchID)
		assert.Equal(t, branchID, *resp.BranchID)
	})

	t.Run("rejects an unknown listing", func(t *testing.T) {
		svc, requests, listings, _ := newRequestService()
		listingID := uuid.New()
		listings.On("FindByIDForTenant", ctx, tenantID, listingID).Return(nil, shared.NewNotFoundError("Listing"))

		_, err := svc.Submit(ctx, tenantID, SubmitRequest{
			FullName: "Ali Veli", Phone: "05551234567", Type: "SELL", ListingID: &listingID,
		}, "")
		require.Error(t, err)
		requests.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an invalid phone", func(t *testing.T) {
		svc, requests, _, publisher := newRequestService()

		_, err := svc.Submit(ctx, tenantID, SubmitRequest{FullName: "Ali Veli", Phone: "12", Type: "SELL"}, "")
		require.Error(t, err)
		requests.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.Types())
	})

	t.Run("publish failures do not fail the request", func(t *testing.T) {
		svc, requests, _, publisher := newRequestService()
		publisher.SetError(errors.New("broker down"))
		requests.On("Save", ctx, mock.AnythingOfType("*lead.CustomerRequest")).Return(nil)

		_, err := svc.Submit(ctx, tenantID, SubmitRequest{FullName: "Ali Veli", Phone: "05551234567", Type: "RENT"}, "")
		assert.NoError(t, err)
	})
}

func TestRequestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _, _ := newRequestService()

	r, err := lead.NewCustomerRequest(tenantID, lead.Submission{FullName: "Ali Veli", Phone: "05551234567", Type: lead.TypeSell})
	require.NoError(t, err)
	requests.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
	requests.On("Save", ctx, r).Return(nil)

	resp, err := svc.ChangeStatus(ctx, tenantID, r.ID, ChangeStatusRequest{Status: "CONTACTED", Note: "Arandı"})
	require.NoError(t, err)
	assert.Equal(t, "CONTACTED", resp.Status)
	assert.Equal(t, "Arandı", resp.Note)

	_, err = svc.ChangeStatus(ctx, tenantID, r.ID, ChangeStatusRequest{Status: "CONTACTED"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestRequestService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, requests, _, _ := newRequestService()

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "NEW" && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})
	requests.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]*lead.CustomerRequest{}, nil)
	requests.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(0), nil)

	items, total, err := svc.List(ctx, tenantID, ListFilter{Status: "NEW"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

type recordingMailer struct {
	sent []Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail Mail) error {
	m.sent = append(m.sent, mail)
	return m.err
}

type staticSite struct {
	email string
}

func (s staticSite) Get(_ context.Context, tenantID uuid.UUID) (*siteapp.SettingsResponse, error) {
	resp := siteapp.ToSettingsResponse(site.DefaultSettings(tenantID))
	resp.Contact.Email = s.email
	return &resp, nil
}

func TestNotificationHandler(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newEvent := func(t *testing.T, branchID *uuid.UUID) *lead.CustomerRequestReceivedEvent {
		t.Helper()
		r, err := lead.NewCustomerRequest(tenantID, lead.Submission{
			FullName: "Ali Veli", Phone: "05551234567", Type: lead.TypeSell,
			Email: "ali@example.com", BranchID: branchID, Message: "Evimi satmak istiyorum",
		})
		require.NoError(t, err)
		return r.GetDomainEvents()[0].(*lead.CustomerRequestReceivedEvent)
	}

	t.Run("mails the branch", func(t *testing.T) {
		branches := new(testutil.MockBranchRepository)
		mailer := &recordingMailer{}
		h := NewNotificationHandler(branches, staticSite{email: "info@example.com"}, mailer, zap.NewNop())

		branchID := uuid.New()
		branches.On("FindByIDForTenant", ctx, tenantID, branchID).Return(&branch.Branch{Email: "sube@example.com"}, nil)

		require.NoError(t, h.Handle(ctx, newEvent(t, &branchID)))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"sube@example.com"}, mailer.sent[0].To)
		assert.Equal(t, "ali@example.com", mailer.sent[0].ReplyTo)
		assert.Contains(t, mailer.sent[0].HTML, "Satmak istiyor")
		assert.Contains(t, mailer.sent[0].HTML, "05551234567")
	})

	t.Run("falls back to the site contact", func(t *testing.T) {
		mailer := &recordingMailer{}
		h := NewNotificationHandler(new(testutil.MockBranchRepository), staticSite{email: "info@example.com"}, mailer, zap.NewNop())

		require.NoError(t, h.Handle(ctx, newEvent(t, nil)))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"info@example.com"}, mailer.sent[0].To)
	})

	t.Run("skips when nobody can receive it", func(t *testing.T) {
		mailer := &recordingMailer{}
		h := NewNotificationHandler(new(testutil.MockBranchRepository), staticSite{}, mailer, zap.NewNop())

		require.NoError(t, h.Handle(ctx, newEvent(t, nil)))
		assert.Empty(t, mailer.sent)
	})

	t.Run("uses the configured fallback address", func(t *testing.T) {
		mailer := &recordingMailer{}
		h := NewNotificationHandler(new(testutil.MockBranchRepository), staticSite{}, mailer, zap.NewNop()).
			WithFallbackRecipient("leads@example.com")

		require.NoError(t, h.Handle(ctx, newEvent(t, nil)))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"leads@example.com"}, mailer.sent[0].To)
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := NewNotificationHandler(new(testutil.MockBranchRepository), staticSite{}, &recordingMailer{}, zap.NewNop())
		err := h.Handle(ctx, testutil.NewTestEvent("Other", tenantID))
		assert.Error(t, err)
	})

	assert.Equal(t, []string{lead.EventTypeCustomerRequestReceived},
		NewNotificationHandler(nil, nil, nil, zap.NewNop()).EventTypes())
}
