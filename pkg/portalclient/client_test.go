package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	leadapp "github.com/emlak/backend/internal/application/lead"
	listingapp "github.com/emlak/backend/internal/application/listing"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body dto.Response) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func ok(t *testing.T, w http.ResponseWriter, data any) {
	writeJSON(t, w, http.StatusOK, dto.Response{Success: true, Data: data})
}

func fail(t *testing.T, w http.ResponseWriter, status int, code, message string) {
	writeJSON(t, w, status, dto.Response{Error: &dto.ErrorInfo{Code: code, Message: message, RequestID: "req-1"}})
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", Session{}, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/api/v1"} {
		_, err := New(raw, Session{})
		assert.Error(t, err, raw)
	}
}

func TestClient_Headers(t *testing.T) {
	tenant := uuid.New()
	var got http.Header
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		ok(t, w, []City{})
	}), WithTenant(tenant))

	c.Cities(context.Background())
	assert.Equal(t, tenant.String(), got.Get(TenantHeader))
	assert.Empty(t, got.Get("Authorization"))

	authed := c.WithSession(Session{AccessToken: "tok"})
	authed.Cities(context.Background())
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.False(t, c.Session().Authenticated(), "WithSession must not change the original client")
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(t, w, http.StatusBadRequest, dto.ErrCodeInvalidFilter, "bad filter")
	}))

	_, _, err := c.SearchListings(context.Background(), FilterState{}, 0, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, dto.ErrCodeInvalidFilter, apiErr.Code)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLogin_ReturnsSession(t *testing.T) {
	userID := uuid.New()
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			fail(t, w, http.StatusUnauthorized, dto.ErrCodeInvalidCredentials, "invalid credentials")
			return
		}
		ok(t, w, map[string]any{
			"accessToken":          "access",
			"refreshToken":         "refresh",
			"accessTokenExpiresAt": expires,
			"tokenType":            "Bearer",
			"user":                 map[string]any{"id": userID, "username": body["username"], "role": "ADMIN"},
		})
	}))

	s, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access", s.AccessToken)
	assert.Equal(t, "refresh", s.RefreshToken)
	assert.True(t, s.ExpiresAt.Equal(expires))
	require.NotNil(t, s.User)
	assert.Equal(t, userID, s.User.ID)
	assert.Equal(t, "ADMIN", s.User.Role)
	assert.False(t, c.Session().Authenticated())

	_, err = c.Login(context.Background(), "admin", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{AccessToken: "a"}.Expired(now))
	assert.False(t, Session{AccessToken: "a", ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{AccessToken: "a", ExpiresAt: now}.Expired(now))
}

func TestSettingsProvider_SharesOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		ok(t, w, map[string]any{"site_name": "Emlak"})
	}))
	p := NewSettingsProvider(c)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Settings, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := p.Get(context.Background())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, s := range results {
		require.NotNil(t, s)
		assert.Equal(t, "Emlak", s.SiteName)
	}

	s, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Emlak", s.SiteName)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSettingsProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		ok(t, w, map[string]any{"site_name": "Emlak"})
	}))
	p := NewSettingsProvider(c)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Get(ctx)
		firstErr <- err
	}()
	<-started

	type result struct {
		s   *Settings
		err error
	}
	second := make(chan result, 1)
	go func() {
		s, err := p.Get(context.Background())
		second <- result{s, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "Emlak", got.s.SiteName)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSettingsProvider_RetriesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fail(t, w, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "down")
			return
		}
		ok(t, w, map[string]any{"site_name": "Emlak"})
	}))
	p := NewSettingsProvider(c)

	_, err := p.Get(context.Background())
	require.Error(t, err)

	s, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Emlak", s.SiteName)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReferenceData_EmptyOnFailure(t *testing.T) {
	cityID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/cities", func(w http.ResponseWriter, r *http.Request) {
		ok(t, w, []map[string]any{{"id": cityID, "name": "İzmir"}})
	})
	mux.HandleFunc("/api/v1/districts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, cityID.String(), r.URL.Query().Get("cityId"))
		fail(t, w, http.StatusInternalServerError, dto.ErrCodeInternal, "boom")
	})
	mux.HandleFunc("/api/v1/neighborhoods", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "not json")
	})
	c := newTestClient(t, mux)

	cities := c.Cities(context.Background())
	require.Len(t, cities, 1)
	assert.Equal(t, "İzmir", cities[0].Name)

	districts := c.Districts(context.Background(), cityID)
	assert.NotNil(t, districts)
	assert.Empty(t, districts)

	neighborhoods := c.Neighborhoods(context.Background(), uuid.New())
	assert.NotNil(t, neighborhoods)
	assert.Empty(t, neighborhoods)
}

func TestPage_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/pages/slug/hakkimizda" {
			ok(t, w, map[string]any{"slug": "hakkimizda", "title": "Hakkımızda"})
			return
		}
		fail(t, w, http.StatusNotFound, dto.ErrCodeNotFound, "page not found")
	}))

	p, err := c.Page(context.Background(), "hakkimizda")
	require.NoError(t, err)
	assert.Equal(t, "Hakkımızda", p.Title)

	_, err = c.Page(context.Background(), "yok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitCustomerRequest_OmitsEmptyFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/requests/customer", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusCreated, dto.Response{Success: true, Data: map[string]any{"id": uuid.New(), "status": "NEW"}})
	}))

	resp, err := c.SubmitCustomerRequest(context.Background(), leadapp.SubmitRequest{
		FullName: "Ayşe Yılmaz",
		Phone:    "+905551112233",
		Type:     "BUY",
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW", resp.Status)

	assert.Equal(t, "Ayşe Yılmaz", body["fullName"])
	for _, key := range []string{"email", "message", "category", "cityId", "districtId", "listingId", "branchId"} {
		assert.NotContains(t, body, key)
	}
}

func TestSearchListings_SendsFilterAndReadsMeta(t *testing.T) {
	cityID := uuid.New()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "FOR_SALE", q.Get(listing.ParamStatus))
		assert.Equal(t, cityID.String(), q.Get("cityId"))
		assert.Equal(t, "2", q.Get("page"))
		meta := dto.NewMeta(13, 2, 12)
		meta.Query = "status=FOR_SALE"
		writeJSON(t, w, http.StatusOK, dto.Response{
			Success: true,
			Data:    []map[string]any{{"id": uuid.New(), "title": "Deniz manzaralı daire"}},
			Meta:    meta,
		})
	}))

	var fs FilterState
	require.NoError(t, fs.SetStatus(listing.StatusForSale))
	fs.SetCity(cityID)

	items, meta, err := c.SearchListings(context.Background(), fs, 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Deniz manzaralı daire", items[0].Title)
	require.NotNil(t, meta)
	assert.Equal(t, int64(13), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, "status=FOR_SALE", meta.Query)
}

func TestParseFilterState(t *testing.T) {
	fs, err := ParseFilterState("status=FOR_RENT&roomCount=2%2B1")
	require.NoError(t, err)
	assert.Equal(t, listing.StatusForRent, fs.Status)
	assert.Equal(t, []string{"2+1"}, fs.RoomCounts)

	_, err = ParseFilterState("status=LEASE")
	assert.Error(t, err)
}

func TestRefilter(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []Listing{
		{ID: uuid.New(), Title: "Bahçeli villa", Price: decimal.NewFromInt(9_000_000), Currency: "TRY", Status: "FOR_SALE", Category: "HOUSING", Area: decimal.NewFromInt(250), Attributes: map[string]any{"roomCount": "4+1"}, CreatedAt: base},
		{ID: uuid.New(), Title: "Kiralık daire", Price: decimal.NewFromInt(25_000), Currency: "TRY", Status: "FOR_RENT", Category: "HOUSING", Area: decimal.NewFromInt(90), Attributes: map[string]any{"roomCount": "2+1"}, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), Title: "Satılık daire", Price: decimal.NewFromInt(3_500_000), Currency: "TRY", Status: "FOR_SALE", Category: "HOUSING", Area: decimal.NewFromInt(120), Attributes: map[string]any{"roomCount": "3+1"}, CreatedAt: base.Add(2 * time.Hour)},
	}

	t.Run("status", func(t *testing.T) {
		fs, err := ParseFilterState("status=FOR_SALE")
		require.NoError(t, err)
		got := Refilter(items, fs)
		require.Len(t, got, 2)
		assert.Equal(t, "Satılık daire", got[0].Title, "newest first by default")
		assert.Equal(t, "Bahçeli villa", got[1].Title)
	})

	t.Run("price ascending", func(t *testing.T) {
		fs, err := ParseFilterState("sort=price&order=asc")
		require.NoError(t, err)
		got := Refilter(items, fs)
		require.Len(t, got, 3)
		assert.Equal(t, "Kiralık daire", got[0].Title)
		assert.Equal(t, "Bahçeli villa", got[2].Title)
	})

	t.Run("room count", func(t *testing.T) {
		fs, err := ParseFilterState("roomCount=2%2B1")
		require.NoError(t, err)
		got := Refilter(items, fs)
		require.Len(t, got, 1)
		assert.Equal(t, items[1].ID, got[0].ID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Refilter(nil, FilterState{}))
	})
}

func TestAdmin_GenericErrors(t *testing.T) {
	listingID := uuid.New()
	var gotAuth string
	var gotFile string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/admin/listings/"+listingID.String(), func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodPatch:
			fail(t, w, http.StatusConflict, dto.ErrCodeConcurrencyConflict, "version mismatch")
		case http.MethodDelete:
			fail(t, w, http.StatusNotFound, dto.ErrCodeNotFound, "listing not found")
		}
	})
	mux.HandleFunc("/api/v1/admin/listings/"+listingID.String()+"/images", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			fail(t, w, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
			return
		}
		defer file.Close()
		gotFile = header.Filename
		fail(t, w, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "too large")
	})
	c := newTestClient(t, mux).WithSession(Session{AccessToken: "staff-token"})
	ctx := context.Background()

	title := "Yeni başlık"
	_, err := c.UpdateListing(ctx, listingID, listingapp.UpdateListingRequest{Title: &title})
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, ActionSave, actionErr.Action)
	assert.Contains(t, err.Error(), "kaydedilemedi")
	assert.False(t, errors.Is(err, ErrNotFound))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Bearer staff-token", gotAuth)

	err = c.DeleteListing(ctx, listingID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.UploadListingImage(ctx, listingID, "salon.jpg", strings.NewReader("jpeg bytes"))
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, ActionUpload, actionErr.Action)
	assert.Contains(t, err.Error(), "yüklenemedi")
	assert.Equal(t, "salon.jpg", gotFile)
}

func TestAdmin_DeleteFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail(t, w, http.StatusConflict, dto.ErrCodeHasChildren, "city has districts")
	}))

	err := c.DeleteCity(context.Background(), uuid.New())
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, ActionDelete, actionErr.Action)
	assert.Contains(t, err.Error(), "silinemedi")
}

func TestAdmin_DeleteNoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	assert.NoError(t, c.DeletePage(context.Background(), uuid.New()))
}
