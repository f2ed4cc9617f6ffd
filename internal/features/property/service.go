package property

import (
	"context"

	"inmo-sync/internal/config"
	"inmo-sync/internal/podio"

	"go.uber.org/zap"
)

// Field external ids on the properties app.
const (
	statusField   = "estado"
	priceField    = "valor-de-la-propiedad"
	localityField = "localidad"
	typeField     = "tipo-de-propiedad"
	linkField     = "enlace-de-la-propiedad"
)

// availableOptionID is the option id of "Disponible" on the status field.
// Every search filters on it so sold or reserved listings never reach chat.
const availableOptionID = 1

// searchLimit caps results so a chat reply stays readable.
const searchLimit = 5

// PriceRange is an inclusive from/to band in the listing currency.
type PriceRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// SearchFilters narrows a listing search. Zero values mean "don't filter".
type SearchFilters struct {
	TypeOptionID     int
	LocalityOptionID int
	Price            *PriceRange
}

type PropertyService interface {
	Search(ctx context.Context, filters SearchFilters) []podio.Item
}

type PropertyServiceImpl struct {
	Client *podio.Client
	Config *config.Config
	Logger *zap.Logger
}

func NewPropertyService(client *podio.Client, cfg *config.Config, logger *zap.Logger) PropertyService {
	return &PropertyServiceImpl{
		Client: client,
		Config: cfg,
		Logger: logger,
	}
}

// Search returns up to five available listings, newest first. Failures are
// logged and reported as an empty result so the conversation can apologize
// instead of dying.
func (s *PropertyServiceImpl) Search(ctx context.Context, filters SearchFilters) []podio.Item {
	podioFilters := map[string]any{
		statusField: []int{availableOptionID},
	}
	if filters.Price != nil {
		podioFilters[priceField] = filters.Price
	}
	if filters.LocalityOptionID > 0 {
		podioFilters[localityField] = []int{filters.LocalityOptionID}
	}
	if filters.TypeOptionID > 0 {
		podioFilters[typeField] = []int{filters.TypeOptionID}
	}

	appID := s.Config.PodioApps[config.TenantProperties].AppID
	items, err := s.Client.FilterItems(ctx, config.TenantProperties, appID, podio.FilterRequest{
		Filters:  podioFilters,
		Limit:    searchLimit,
		SortBy:   "created_on",
		SortDesc: true,
	})
	if err != nil {
		s.Logger.Error("property search failed",
			zap.Error(err),
			zap.Int("type", filters.TypeOptionID),
			zap.Int("locality", filters.LocalityOptionID))
		return nil
	}
	return items
}
