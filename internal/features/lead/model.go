package lead

// ContactRequest is the inbound shape for contact creation.
type ContactRequest struct {
	Title                string `json:"title"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	ContactTypeOptionID  int    `json:"tipo_de_contacto_option_id"`
	OriginOptionID       int    `json:"origen_contacto_option_id"`
	Companion            string `json:"acompanante"`
	CompanionPhone       string `json:"telefono_acompanante"`
	AssignedSellerOption int    `json:"vendedor_asignado_option_id"`
	CreationDate         string `json:"fecha_creacion"`
}

// LeadRequest is the inbound shape for lead creation.
type LeadRequest struct {
	ContactItemID      int64          `json:"contacto_item_id"`
	Phone              string         `json:"telefono"`
	SellerOptionID     int            `json:"vendedor_option_id"`
	LeadStatusOptionID int            `json:"lead_status_option_id"`
	Date               string         `json:"fecha"`
	Location           string         `json:"ubicacion"`
	Detail             string         `json:"detalle"`
	Followup           string         `json:"seguimiento"`
	Extras             map[string]any `json:"extras"`
	ForceRange         bool           `json:"force_range"`
}

// DateFieldMeta describes one date field of the leads app for the meta
// endpoint.
type DateFieldMeta struct {
	Label        string `json:"label"`
	ExternalID   string `json:"external_id"`
	Required     bool   `json:"required"`
	EndMode      string `json:"endMode"`
	RangeEnabled bool   `json:"rangeEnabled"`
}
