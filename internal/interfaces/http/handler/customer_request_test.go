package handler

import (
	"net/http"
	"testing"

	leadapp "github.com/emlak/backend/internal/application/lead"
	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/emlak/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type requestHandlerFixture struct {
	engine    *gin.Engine
	tenantID  uuid.UUID
	requests  *testutil.MockCustomerRequestRepository
	listings  *testutil.MockListingRepository
	publisher *testutil.RecordingPublisher
}

func newRequestHandlerFixture(t *testing.T) *requestHandlerFixture {
	t.Helper()
	f := &requestHandlerFixture{
		tenantID:  uuid.New(),
		requests:  new(testutil.MockCustomerRequestRepository),
		listings:  new(testutil.MockListingRepository),
		publisher: &testutil.RecordingPublisher{},
	}
	svc := leadapp.NewRequestService(f.requests, f.listings, zap.NewNop())
	svc.SetEventPublisher(f.publisher)
	h := NewCustomerRequestHandler(svc)

	f.engine = newTestEngine(f.tenantID)
	f.engine.POST("/requests/customer", h.Submit)
	admin := f.engine.Group("/admin/requests/customer")
	admin.GET("", h.List)
	admin.GET("/:id", h.GetByID)
	admin.PATCH("/:id/status", h.ChangeStatus)
	return f
}

func (f *requestHandlerFixture) stored(t *testing.T) *lead.CustomerRequest {
	t.Helper()
	r, err := lead.NewCustomerRequest(f.tenantID, lead.Submission{
		FullName: "Ali Veli",
		Phone:    "05551234567",
		Type:     lead.TypeSell,
	})
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestCustomerRequestHandler_Submit(t *testing.T) {
	f := newRequestHandlerFixture(t)
	f.requests.On("Save", mock.Anything, mock.AnythingOfType("*lead.CustomerRequest")).Return(nil)

	rec := doJSON(t, f.engine, http.MethodPost, "/requests/customer", map[string]string{
		"fullName": "Ali Veli",
		"phone":    "05551234567",
		"type":     "SELL",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got leadapp.CustomerRequestResponse
	resp := decode(t, rec, &got)
	assert.True(t, resp.Success)
	assert.Equal(t, "Ali Veli", got.FullName)
	assert.Equal(t, "SELL", got.Type)
	assert.Equal(t, "NEW", got.Status)
	assert.Len(t, f.publisher.Events(), 1)
}

func TestCustomerRequestHandler_Submit_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantFields []string
	}{
		{
			name:       "missing required fields",
			body:       map[string]string{},
			wantFields: []string{"fullName", "phone", "type"},
		},
		{
			name:       "unknown type",
			body:       map[string]string{"fullName": "Ali Veli", "phone": "05551234567", "type": "SWAP"},
			wantFields: []string{"type"},
		},
		{
			name:       "bad email and category",
			body:       map[string]string{"fullName": "Ali Veli", "phone": "05551234567", "type": "BUY", "email": "ali@", "category": "CASTLE"},
			wantFields: []string{"email", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestHandlerFixture(t)

			rec := doJSON(t, f.engine, http.MethodPost, "/requests/customer", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode(t, rec, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			fields := make([]string, 0, len(resp.Error.Details))
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
			f.requests.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerRequestHandler_Submit_UnknownListing(t *testing.T) {
	f := newRequestHandlerFixture(t)
	listingID := uuid.New()
	f.listings.On("FindByIDForTenant", mock.Anything, f.tenantID, listingID).Return(nil, shared.ErrNotFound)

	rec := doJSON(t, f.engine, http.MethodPost, "/requests/customer", map[string]string{
		"fullName":  "Ali Veli",
		"phone":     "05551234567",
		"type":      "BUY",
		"listingId": listingID.String(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ERR_INVALID_LISTING", decode(t, rec, nil).Error.Code)
}

func TestCustomerRequestHandler_List(t *testing.T) {
	f := newRequestHandlerFixture(t)
	stored := f.stored(t)
	f.requests.On("FindAllForTenant", mock.Anything, f.tenantID, mock.MatchedBy(func(sf shared.Filter) bool {
		return sf.Page == 2 && sf.PageSize == 10 && sf.Filters["status"] == "NEW"
	})).Return([]*lead.CustomerRequest{stored}, nil)
	f.requests.On("CountForTenant", mock.Anything, f.tenantID, mock.Anything).Return(int64(11), nil)

	rec := doJSON(t, f.engine, http.MethodGet, "/admin/requests/customer?status=NEW&page=2&page_size=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []leadapp.CustomerRequestResponse
	resp := decode(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, stored.ID, got[0].ID)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestCustomerRequestHandler_List_InvalidStatus(t *testing.T) {
	f := newRequestHandlerFixture(t)

	rec := doJSON(t, f.engine, http.MethodGet, "/admin/requests/customer?status=LOST", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerRequestHandler_ChangeStatus(t *testing.T) {
	f := newRequestHandlerFixture(t)
	stored := f.stored(t)
	f.requests.On("FindByIDForTenant", mock.Anything, f.tenantID, stored.ID).Return(stored, nil)
	f.requests.On("Save", mock.Anything, stored).Return(nil)

	rec := doJSON(t, f.engine, http.MethodPatch, "/admin/requests/customer/"+stored.ID.String()+"/status",
		leadapp.ChangeStatusRequest{Status: "CONTACTED", Note: "Called back"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got leadapp.CustomerRequestResponse
	decode(t, rec, &got)
	assert.Equal(t, "CONTACTED", got.Status)
	assert.Equal(t, "Called back", got.Note)
}

func TestCustomerRequestHandler_GetByID_NotFound(t *testing.T) {
	f := newRequestHandlerFixture(t)
	id := uuid.New()
	f.requests.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.ErrNotFound)

	rec := doJSON(t, f.engine, http.MethodGet, "/admin/requests/customer/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, rec, nil).Error.Code)
}
