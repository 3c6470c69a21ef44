package spinny

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:       srv.URL,
		DetailTimeout: 2 * time.Second,
		SearchTimeout: 2 * time.Second,
	}, srv.Client(), zerolog.Nop())
}

func TestFetchListing_Success(t *testing.T) {
	var gotPath, gotUA, gotOrigin string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotOrigin = r.Header.Get("Origin")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_success": true, "result": {"make": "Volkswagen", "model": "Tiguan", "price": 1574658, "booked": true}}`))
	})

	entity := models.TrackedEntity{Kind: models.KindListing, ID: "25264538"}
	res := c.FetchListing(context.Background(), entity)

	if !res.OK() {
		t.Fatalf("FetchListing() failed: %v", res.Err)
	}
	if gotPath != "/v3/api/pdp/price-breakdown/25264538/v2/" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") || gotOrigin != "https://www.spinny.com" {
		t.Errorf("browser headers missing: ua=%q origin=%q", gotUA, gotOrigin)
	}
	if len(res.Cars) != 1 || res.Cars[0].Price.Value != 1574658 || !res.Cars[0].Booked {
		t.Errorf("unexpected cars: %+v", res.Cars)
	}
}

func TestFetchListing_PriceBreakupOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_success": true, "result": {
			"car_name": "2021 Volkswagen Tiguan Allspace",
			"price_breakup": [
				{"label": "Car price", "value": 1549658, "is_total": false},
				{"label": "Service fee", "value": 25000, "is_total": false},
				{"label": "Total", "value": 1574658, "is_total": true}
			]
		}}`))
	})

	res := c.FetchListing(context.Background(), models.TrackedEntity{Kind: models.KindListing, ID: "25264538"})
	if !res.OK() {
		t.Fatalf("FetchListing() failed: %v", res.Err)
	}
	car := res.Cars[0]
	if car.CarName.String() != "2021 Volkswagen Tiguan Allspace" {
		t.Errorf("CarName = %q", car.CarName)
	}
	if len(car.PriceBreakup) != 3 {
		t.Fatalf("PriceBreakup = %+v", car.PriceBreakup)
	}
	if got := car.ListingPrice(); !got.Valid || got.Value != 1574658 {
		t.Errorf("ListingPrice() = %+v, want the total row", got)
	}
}

func TestFetchListing_LegacyDataKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_success": true, "data": {"model": "Tiguan", "price": 1500000}}`))
	})

	res := c.FetchListing(context.Background(), models.TrackedEntity{ID: "1"})
	if !res.OK() || res.Cars[0].Price.Value != 1500000 {
		t.Errorf("FetchListing() = %+v", res)
	}
}

func TestFetchListing_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{}`, apperrors.ErrBadStatus},
		{"not found", http.StatusNotFound, ``, apperrors.ErrBadStatus},
		{"malformed json", http.StatusOK, `{"is_success": tru`, apperrors.ErrMalformedPayload},
		{"unsuccessful", http.StatusOK, `{"is_success": false, "message": "listing removed"}`, apperrors.ErrUnsuccessful},
		{"missing flag", http.StatusOK, `{"result": {"make": "VW"}}`, apperrors.ErrUnsuccessful},
		{"no data", http.StatusOK, `{"is_success": true}`, apperrors.ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			res := c.FetchListing(context.Background(), models.TrackedEntity{ID: "1"})
			if res.OK() {
				t.Fatal("expected failure result")
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			var ferr *apperrors.FetchError
			if !errors.As(res.Err, &ferr) || ferr.Entity != "1" {
				t.Errorf("Err should be a FetchError for entity 1, got %v", res.Err)
			}
		})
	}
}

func TestFetchListing_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(Config{BaseURL: srv.URL, DetailTimeout: 50 * time.Millisecond}, srv.Client(), zerolog.Nop())
	res := c.FetchListing(context.Background(), models.TrackedEntity{ID: "slow"})

	if res.OK() {
		t.Fatal("expected timeout failure")
	}
	if !errors.Is(res.Err, apperrors.ErrRequestFailed) {
		t.Errorf("Err = %v, want ErrRequestFailed", res.Err)
	}
}

func TestSearchCity(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/api/listing/v6/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"is_success": true, "count": 2, "results": [{"model": "Tiguan", "sold": true}, {"model": "Tiguan Allspace"}]}`))
	})

	entity := models.TrackedEntity{Kind: models.KindSearch, ID: "delhi-ncr", Models: []string{"tiguan", "tiguan-allspace"}}
	res := c.SearchCity(context.Background(), entity)

	if !res.OK() {
		t.Fatalf("SearchCity() failed: %v", res.Err)
	}
	if res.Count != 2 || len(res.Cars) != 2 {
		t.Errorf("Count = %d, cars = %d", res.Count, len(res.Cars))
	}
	for k, want := range map[string]string{
		"city":               "delhi-ncr",
		"model":              "tiguan,tiguan-allspace",
		"page":               "1",
		"custom_budget_sort": "true",
	} {
		if gotQuery[k] != want {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], want)
		}
	}
}

func TestSearchCity_CountDefaultsToResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_success": true, "results": [{"model": "Tiguan"}]}`))
	})

	res := c.SearchCity(context.Background(), models.TrackedEntity{ID: "pune"})
	if !res.OK() || res.Count != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearchCity_TransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", SearchTimeout: time.Second}, nil, zerolog.Nop())
	res := c.SearchCity(context.Background(), models.TrackedEntity{ID: "pune"})
	if res.OK() || !errors.Is(res.Err, apperrors.ErrRequestFailed) {
		t.Errorf("expected request failure, got %+v", res)
	}
	if res.Count != -1 {
		t.Errorf("failed result Count = %d, want -1", res.Count)
	}
}
