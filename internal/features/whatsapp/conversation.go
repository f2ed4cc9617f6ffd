package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"inmo-sync/internal/features/lead"
	"inmo-sync/internal/features/property"

	"go.uber.org/zap"
)

// Conversation steps. Each inbound message advances one session through
// these until a search runs, then the session is discarded.
const (
	stepMainMenu       = ""
	stepAwaitingType   = "awaiting_property_type"
	stepAwaitingFilter = "awaiting_filter_choice"
	stepAwaitingFinal  = "awaiting_final_filter"
	stepAwaitingPhone  = "awaiting_phone"
)

const (
	filterByLocality = "localidad"
	filterByPrice    = "precio"
)

const (
	mainMenuText = "Hola 👋, soy el asistente inmobiliario.\n\n*1.* Verificar Teléfono\n*2.* 🔎 Buscar una propiedad\n\nEscribe *cancelar* para volver."

	propertyTypeMenuText = "🏡 Perfecto, empecemos. ¿Qué tipo de propiedad buscás?\n\n*1.* 🌳 Lote\n*2.* 🏠 Casa\n*3.* 🏡 Chalet\n*4.* 🏢 Departamento\n*5.* 🏘️ PH\n*6.* 🏭 Galpón\n*7.* 🛖 Cabañas\n*8.* 🏪 Locales comerciales\n\nEscribe *volver* para ir al menú anterior."

	filterChoiceMenuText = "Perfecto. ¿Cómo querés filtrar?\n\n*1.* Por Localidad\n*2.* Por Precio\n*3.* Volver al menú anterior"

	localityMenuText = "📍 Muy bien, elegí la localidad:\n\n*1.* Villa del Dique\n*2.* Villa Rumipal\n*3.* Santa Rosa\n*4.* Amboy\n*5.* San Ignacio"

	priceMenuText = "💰 Entendido, elegí un rango de precios (en USD):\n\n*1.* 0 - 10k\n*2.* 10k - 20k\n*3.* 20k - 40k\n*4.* 40k - 60k\n*5.* 80k - 90k\n*6.* 90k - 110k\n*7.* 110k - 150k\n*8.* 150k - 200k\n*9.* 200k - 300k\n*10.* 300k - 500k\n*11.* +500k"

	phonePromptText = "📞 Escribime el número de teléfono que querés verificar."

	invalidOptionText = "Opción no válida. Por favor, elegí un número de la lista o escribí 'volver'."
)

type session struct {
	step       string
	filterType string
	filters    property.SearchFilters
}

type ConversationService interface {
	Reply(ctx context.Context, from, body string) string
}

type ConversationServiceImpl struct {
	Properties property.PropertyService
	Leads      lead.LeadService
	Logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewConversationService(properties property.PropertyService, leads lead.LeadService, logger *zap.Logger) ConversationService {
	return &ConversationServiceImpl{
		Properties: properties,
		Leads:      leads,
		Logger:     logger,
		sessions:   map[string]*session{},
	}
}

// Reply runs one turn of the conversation. It always returns message text;
// remote failures inside a turn come back as an apology so the webhook can
// answer 200 regardless.
func (s *ConversationServiceImpl) Reply(ctx context.Context, from, body string) string {
	msg := strings.TrimSpace(body)
	lower := strings.ToLower(msg)

	if lower == "cancelar" || lower == "volver" {
		s.drop(from)
		return mainMenuText
	}

	sess := s.get(from)
	if sess == nil {
		return s.mainMenu(from, msg)
	}

	switch sess.step {
	case stepAwaitingType:
		typeID, ok := propertyTypeMap[msg]
		if !ok {
			return invalidOptionText
		}
		sess.filters.TypeOptionID = typeID
		sess.step = stepAwaitingFilter
		return filterChoiceMenuText

	case stepAwaitingFilter:
		switch msg {
		case "1":
			sess.step = stepAwaitingFinal
			sess.filterType = filterByLocality
			return localityMenuText
		case "2":
			sess.step = stepAwaitingFinal
			sess.filterType = filterByPrice
			return priceMenuText
		default:
			return "Opción no válida. Por favor, elegí 1 o 2."
		}

	case stepAwaitingFinal:
		if sess.filterType == filterByLocality {
			localityID, ok := localityMap[msg]
			if !ok {
				return "Opción no válida. Por favor, elegí un número de la lista de localidades."
			}
			sess.filters.LocalityOptionID = localityID
		} else {
			rng, ok := priceRangeMap[msg]
			if !ok {
				return "Opción no válida. Por favor, elegí un número de la lista de precios."
			}
			sess.filters.Price = &rng
		}

		items := s.Properties.Search(ctx, sess.filters)
		s.drop(from)
		return property.Digest(items)

	case stepAwaitingPhone:
		reply := s.verifyPhone(ctx, msg)
		s.drop(from)
		return reply

	default:
		s.drop(from)
		return mainMenuText
	}
}

func (s *ConversationServiceImpl) mainMenu(from, msg string) string {
	switch msg {
	case "1":
		s.put(from, &session{step: stepAwaitingPhone})
		return phonePromptText
	case "2":
		s.put(from, &session{step: stepAwaitingType})
		return propertyTypeMenuText
	default:
		return mainMenuText
	}
}

func (s *ConversationServiceImpl) verifyPhone(ctx context.Context, phone string) string {
	items, err := s.Leads.LookupByPhone(ctx, phone)
	if err != nil {
		s.Logger.Error("lead verification failed", zap.Error(err))
		return "❌ No pude consultar el sistema en este momento. Probá de nuevo en unos minutos."
	}
	if len(items) == 0 {
		return "✅ El número no figura como lead cargado. ¡Podés avanzar!"
	}

	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ El número ya figura en %d lead(s):\n\n", len(items))
	for i := range items {
		b.WriteString(s.Leads.Digest(&items[i], now))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ConversationServiceImpl) get(from string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[from]
}

func (s *ConversationServiceImpl) put(from string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[from] = sess
}

func (s *ConversationServiceImpl) drop(from string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, from)
}
