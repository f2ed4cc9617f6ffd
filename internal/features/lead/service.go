package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inmo-sync/internal/config"
	"inmo-sync/internal/features/followup"
	"inmo-sync/internal/features/propsync"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// Field external ids on the contacts app.
const (
	contactTypeField      = "tipo-de-contacto"
	contactOriginField    = "contact-type"
	contactCreatedField   = "fecha-de-creacion"
	contactPhoneField     = "phone"
	contactCompanionField = "acompanante"
	contactCompPhoneField = "telefono-del-acompanante"
	contactSellerField    = "vendedor-asignado-2"
	contactEmailField     = "email-2"
)

// Field external ids on the leads app.
const (
	leadContactField  = "contacto-2"
	leadPhoneField    = "telefono-2"
	leadSellerField   = "vendedor-asignado-2"
	leadStatusField   = "lead-status"
	leadLocationField = "ubicacion"
	leadDetailField   = "detalle"
	leadFollowField   = "seguimiento"
	leadSearchField   = "telefono-busqueda"
)

type LeadService interface {
	LookupByPhone(ctx context.Context, phone string) ([]podio.Item, error)
	CreateContact(ctx context.Context, req ContactRequest) (int64, error)
	CreateLead(ctx context.Context, req LeadRequest) (int64, error)
	ContactsMeta(ctx context.Context) (*podio.App, error)
	LeadsMeta(ctx context.Context) (*podio.App, error)
	LeadDateField(ctx context.Context) (string, podio.DateFieldConfig, error)
	Digest(item *podio.Item, now time.Time) string
}

type LeadServiceImpl struct {
	Client     *podio.Client
	Config     *config.Config
	Normalizer *podio.DateNormalizer
	Logger     *zap.Logger
}

func NewLeadService(client *podio.Client, cfg *config.Config, logger *zap.Logger) LeadService {
	return &LeadServiceImpl{
		Client:     client,
		Config:     cfg,
		Normalizer: podio.NewDateNormalizer(cfg.Location()),
		Logger:     logger,
	}
}

// LookupByPhone filters leads on the digits-only search field. The filter
// value goes as a plain string, not an object.
func (s *LeadServiceImpl) LookupByPhone(ctx context.Context, phone string) ([]podio.Item, error) {
	digits := propsync.NormalizeDigits(phone)
	if digits == "" {
		return nil, nil
	}

	appID := s.Config.PodioApps[config.TenantLeads].AppID
	items, err := s.Client.FilterItems(ctx, config.TenantLeads, appID, podio.FilterRequest{
		Filters: map[string]any{leadSearchField: digits},
	})
	if err != nil {
		return nil, fmt.Errorf("searching leads by phone: %w", err)
	}
	return items, nil
}

func (s *LeadServiceImpl) ContactsMeta(ctx context.Context) (*podio.App, error) {
	return s.Client.GetApp(ctx, config.TenantContacts, s.Config.PodioApps[config.TenantContacts].AppID)
}

func (s *LeadServiceImpl) LeadsMeta(ctx context.Context) (*podio.App, error) {
	return s.Client.GetApp(ctx, config.TenantLeads, s.Config.PodioApps[config.TenantLeads].AppID)
}

// CreateContact builds the typed payload for the contacts app. A missing
// creation date defaults to now; its field is date-only unless the schema
// says otherwise.
func (s *LeadServiceImpl) CreateContact(ctx context.Context, req ContactRequest) (int64, error) {
	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = "Contacto sin nombre"
	}

	dateCfg := podio.DateFieldConfig{}
	if meta, err := s.ContactsMeta(ctx); err == nil {
		for _, f := range meta.Fields {
			if f.ExternalID == contactCreatedField {
				dateCfg = f.DateConfig()
				break
			}
		}
	}

	var dateInput any
	if req.CreationDate != "" {
		dateInput = req.CreationDate
	}

	fields := NewFieldsBuilder().
		Title(title).
		Option(contactTypeField, req.ContactTypeOptionID).
		Option(contactOriginField, req.OriginOptionID).
		Date(contactCreatedField, s.Normalizer.NormalizeForCreate(dateCfg, dateInput)).
		Phone(contactPhoneField, req.Phone).
		Text(contactCompanionField, req.Companion).
		Phone(contactCompPhoneField, req.CompanionPhone).
		Option(contactSellerField, req.AssignedSellerOption).
		Email(contactEmailField, req.Email).
		Build()

	appID := s.Config.PodioApps[config.TenantContacts].AppID
	return s.Client.CreateItem(ctx, config.TenantContacts, appID, fields)
}

// CreateLead builds the typed payload for the leads app. The date field's
// external id comes from config or, failing that, the first date field in
// the schema; whether to send a range is the request's choice, the env
// override, or what the schema declares.
func (s *LeadServiceImpl) CreateLead(ctx context.Context, req LeadRequest) (int64, error) {
	builder := NewFieldsBuilder().
		ItemRef(leadContactField, req.ContactItemID).
		Phone(leadPhoneField, req.Phone).
		Option(leadSellerField, req.SellerOptionID).
		Option(leadStatusField, req.LeadStatusOptionID).
		Text(leadLocationField, req.Location).
		Text(leadDetailField, req.Detail).
		Text(leadFollowField, req.Followup).
		Extras(req.Extras)

	if req.Date != "" {
		externalID, dateCfg, err := s.LeadDateField(ctx)
		if err != nil {
			s.Logger.Warn("could not resolve leads date field, omitting date", zap.Error(err))
		} else if externalID != "" {
			wantRange := req.ForceRange || s.Config.LeadsForceRange || dateCfg.RangeEnabled
			dateCfg.RangeEnabled = wantRange
			builder.Date(externalID, s.Normalizer.NormalizeForCreate(dateCfg, req.Date))
		}
	}

	appID := s.Config.PodioApps[config.TenantLeads].AppID
	return s.Client.CreateItem(ctx, config.TenantLeads, appID, builder.Build())
}

// LeadDateField resolves which date field lead creation writes: the env
// override when set, otherwise the first date field in schema order.
func (s *LeadServiceImpl) LeadDateField(ctx context.Context) (string, podio.DateFieldConfig, error) {
	meta, err := s.LeadsMeta(ctx)
	if err != nil {
		return "", podio.DateFieldConfig{}, err
	}

	dateFields := meta.DateFields()

	if override := s.Config.LeadsDateExternalID; override != "" {
		for _, f := range dateFields {
			if f.ExternalID == override {
				return override, f.DateConfig(), nil
			}
		}
		// Configured id not found in schema: trust the override with a
		// date-only default.
		return override, podio.DateFieldConfig{}, nil
	}

	if len(dateFields) == 0 {
		return "", podio.DateFieldConfig{}, nil
	}
	return dateFields[0].ExternalID, dateFields[0].DateConfig(), nil
}

// Digest renders a lead as a short chat summary: phone, creation date and
// the latest followup entry.
func (s *LeadServiceImpl) Digest(item *podio.Item, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", item.Title)

	if phone, ok := item.Field(leadPhoneField).FirstString(); ok {
		fmt.Fprintf(&b, "Tel: %s\n", phone)
	}

	if created, ok := item.Field(contactCreatedField).FirstString(); ok {
		fmt.Fprintf(&b, "Creado: %s (%s)\n", FormatDate(created), DaysSince(created, now))
	}

	blob, _ := item.Field(leadFollowField).FirstString()
	entry, ok := followup.LastEntry(blob)
	fmt.Fprintf(&b, "Último seguimiento: %s", followup.FormatEntry(entry, ok))

	return b.String()
}
