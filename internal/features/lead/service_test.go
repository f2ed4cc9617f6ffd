package lead

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"inmo-sync/internal/config"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// leadFixture fakes the leads/contacts apps of the remote store.
type leadFixture struct {
	service LeadService

	mu            sync.Mutex
	filterBodies  []map[string]any
	createdFields []map[string]any
	leadsMeta     podio.App
	searchResults []podio.Item
}

func newLeadFixture(t *testing.T, leadsDateOverride string, forceRange bool) *leadFixture {
	t.Helper()
	f := &leadFixture{
		leadsMeta: podio.App{
			Fields: []podio.AppField{
				{FieldID: 1, ExternalID: "lead-status", Type: "category", Label: "Estado"},
				{FieldID: 2, ExternalID: "fecha", Type: "date", Label: "Fecha"},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token":"t","expires_in":3600}`)
	})
	mux.HandleFunc("POST /item/app/200/filter/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding filter body: %v", err)
		}
		f.mu.Lock()
		f.filterBodies = append(f.filterBodies, body)
		results := f.searchResults
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"items": results})
	})
	mux.HandleFunc("POST /item/app/200/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding create body: %v", err)
		}
		f.mu.Lock()
		f.createdFields = append(f.createdFields, body.Fields)
		f.mu.Unlock()
		fmt.Fprintf(w, `{"item_id":555}`)
	})
	mux.HandleFunc("GET /app/200", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.leadsMeta)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		PodioClientID:     "cid",
		PodioClientSecret: "secret",
		PodioTokenURL:     srv.URL + "/oauth/token",
		PodioAPIURL:       srv.URL,
		PodioApps: map[string]config.AppCredentials{
			config.TenantContacts: {AppID: "100", AppToken: "t"},
			config.TenantLeads:    {AppID: "200", AppToken: "t"},
		},
		LeadsDateExternalID: leadsDateOverride,
		LeadsForceRange:     forceRange,
		Timezone:            "UTC",
	}

	f.service = NewLeadService(podio.NewClientFromConfig(cfg, zap.NewNop()), cfg, zap.NewNop())
	return f
}

func TestLookupByPhoneSendsPlainStringFilter(t *testing.T) {
	f := newLeadFixture(t, "", false)
	f.searchResults = []podio.Item{{ItemID: 10, Title: "Lead"}}

	items, err := f.service.LookupByPhone(context.Background(), "+54 9 (3546) 123-456")
	if err != nil {
		t.Fatalf("LookupByPhone() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("LookupByPhone() returned %d items, want 1", len(items))
	}

	if len(f.filterBodies) != 1 {
		t.Fatalf("filter called %d times, want 1", len(f.filterBodies))
	}
	filters, _ := f.filterBodies[0]["filters"].(map[string]any)
	if got := filters["telefono-busqueda"]; got != "5493546123456" {
		t.Errorf("search filter = %v, want digits-only plain string", got)
	}
}

func TestLookupByPhoneEmptyDigits(t *testing.T) {
	f := newLeadFixture(t, "", false)

	items, err := f.service.LookupByPhone(context.Background(), "sin numero")
	if err != nil {
		t.Fatalf("LookupByPhone() error = %v", err)
	}
	if items != nil {
		t.Errorf("LookupByPhone() = %v, want nil without hitting the store", items)
	}
	if len(f.filterBodies) != 0 {
		t.Error("filter endpoint was called for an empty phone")
	}
}

func TestCreateLeadResolvesDateField(t *testing.T) {
	f := newLeadFixture(t, "", false)

	_, err := f.service.CreateLead(context.Background(), LeadRequest{
		ContactItemID:      7,
		Phone:              "3546123456",
		LeadStatusOptionID: 2,
		Date:               "2024-03-05",
	})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	if len(f.createdFields) != 1 {
		t.Fatalf("create called %d times, want 1", len(f.createdFields))
	}
	fields := f.createdFields[0]

	// First date field of the schema, date-only single shape as a sequence.
	raw, err := json.Marshal(fields["fecha"])
	if err != nil {
		t.Fatalf("marshaling date field: %v", err)
	}
	if string(raw) != `[{"start_date":"2024-03-05"}]` {
		t.Errorf("fecha = %s, want single-element date-only shape", raw)
	}

	if _, ok := fields["detalle"]; ok {
		t.Error("empty detail field was sent")
	}
}

func TestCreateLeadForceRangeFromEnv(t *testing.T) {
	f := newLeadFixture(t, "fecha", true)

	_, err := f.service.CreateLead(context.Background(), LeadRequest{
		ContactItemID: 7,
		Date:          "2024-03-05",
	})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	raw, _ := json.Marshal(f.createdFields[0]["fecha"])
	if string(raw) != `[{"end_date":"2024-03-05","start_date":"2024-03-05"}]` {
		t.Errorf("fecha = %s, want duplicated range shape", raw)
	}
}

func TestDigestRendersLastFollowup(t *testing.T) {
	f := newLeadFixture(t, "", false)

	item := &podio.Item{
		ItemID: 10,
		Title:  "Juan Pérez",
		Fields: []podio.ItemField{
			{
				ExternalID: "telefono-2",
				Values:     []podio.FieldValue{{Value: "3546123456"}},
			},
			{
				ExternalID: "fecha-de-creacion",
				Values:     []podio.FieldValue{{Value: "2024-02-15 09:00:00"}},
			},
			{
				ExternalID: "seguimiento",
				Values:     []podio.FieldValue{{Value: "[2024-02-15 09:30:00] Llamó cliente"}},
			},
		},
	}

	now := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	got := f.service.Digest(item, now)

	for _, want := range []string{
		"*Juan Pérez*",
		"Tel: 3546123456",
		"Creado: 15/02/2024 (hace 5 días)",
		"Último seguimiento: 15/02/2024: Llamó cliente",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Digest() = %q, missing %q", got, want)
		}
	}
}
