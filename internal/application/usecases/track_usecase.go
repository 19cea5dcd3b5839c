package usecases

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/infrastructure/metrics"
	"github.com/palacios-io/attribution-api/internal/utils"
)

// TrackEventRequest é o payload normalizado que o snippet envia
type TrackEventRequest struct {
	VisitorID  string             `json:"visitor_id"`
	SessionID  string             `json:"session_id"`
	EventType  entities.EventType `json:"event_type"`
	EventName  string             `json:"event_name"`
	Properties json.RawMessage    `json:"properties"`
	Page       struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		Referrer string `json:"referrer"`
	} `json:"page"`
	Utm      *entities.UtmData  `json:"utm"`
	ClickIDs *entities.ClickIDs `json:"click_ids"`
	Device   struct {
		Type    string `json:"type"`
		Browser string `json:"browser"`
		OS      string `json:"os"`
	} `json:"device"`
	Geo struct {
		Country string `json:"country"`
		City    string `json:"city"`
	} `json:"geo"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TrackResult struct {
	EventID      uuid.UUID  `json:"event_id"`
	VisitorID    string     `json:"visitor_id"`
	TouchpointID *uuid.UUID `json:"touchpoint_id,omitempty"`
}

type TrackUseCase interface {
	ProcessEvent(ctx context.Context, req *TrackEventRequest) (*TrackResult, error)
}

type trackUseCase struct {
	visitorRepo    repositories.VisitorRepository
	eventRepo      repositories.EventRepository
	touchpointRepo repositories.TouchpointRepository
}

func NewTrackUseCase(visitorRepo repositories.VisitorRepository, eventRepo repositories.EventRepository, touchpointRepo repositories.TouchpointRepository) TrackUseCase {
	return &trackUseCase{visitorRepo, eventRepo, touchpointRepo}
}

// ProcessEvent grava visitor, event e, quando a interação carrega sinal de
// marketing, o touchpoint correspondente. Falhas nas escritas secundárias
// degradam graciosamente: o rastreio do visitor continua e o erro é logado,
// porque derrubar a requisição inteira seria pior que um hit parcial.
func (uc *trackUseCase) ProcessEvent(ctx context.Context, req *TrackEventRequest) (*TrackResult, error) {
	if req.VisitorID == "" {
		return nil, apperrors.NewValidation("visitor_id", "required")
	}
	if req.EventType == "" {
		return nil, apperrors.NewValidation("event_type", "required")
	}
	if req.Page.URL == "" {
		return nil, apperrors.NewValidation("page.url", "required")
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	if err := uc.visitorRepo.Upsert(ctx, uc.buildVisitor(req, occurredAt)); err != nil {
		return nil, err
	}

	result := &TrackResult{VisitorID: req.VisitorID}

	event := uc.buildEvent(req, occurredAt)
	if err := uc.eventRepo.Create(ctx, event); err != nil {
		log.Printf("Error creating event for visitor %s: %v", req.VisitorID, err)
	} else {
		result.EventID = event.ID
		metrics.EventsIngested.Inc()
	}

	if !qualifiesAsTouchpoint(req) {
		return result, nil
	}

	touchpoint, err := uc.touchpointRepo.Append(ctx, uc.buildTouchpoint(req, occurredAt))
	if err != nil {
		log.Printf("Error creating touchpoint for visitor %s: %v", req.VisitorID, err)
		return result, nil
	}
	result.TouchpointID = &touchpoint.ID
	metrics.TouchpointsCreated.WithLabelValues(string(touchpoint.Channel)).Inc()

	return result, nil
}

// qualifiesAsTouchpoint aplica a regra de qualificação: form submit sempre,
// pageview só quando carrega utm_source ou algum click-id. Pageview sem
// sinal de marketing fica apenas como Event.
func qualifiesAsTouchpoint(req *TrackEventRequest) bool {
	if req.EventType == entities.EventTypeFormSubmit {
		return true
	}
	if req.EventType != entities.EventTypePageview {
		return false
	}
	return hasMarketingSignal(req.Utm, req.ClickIDs)
}

func hasMarketingSignal(utm *entities.UtmData, clickIDs *entities.ClickIDs) bool {
	if utm != nil && utm.Source != "" {
		return true
	}
	return PrimaryClickID(clickIDs) != ""
}

func (uc *trackUseCase) buildVisitor(req *TrackEventRequest, occurredAt time.Time) *entities.Visitor {
	visitor := &entities.Visitor{
		ID:               req.VisitorID,
		FirstSeen:        occurredAt,
		LastSeen:         occurredAt,
		FirstReferrer:    utils.SanitizeString(req.Page.Referrer),
		FirstLandingPage: utils.SanitizeString(req.Page.URL),
		FirstClickID:     PrimaryClickID(req.ClickIDs),
		DeviceType:       utils.SanitizeString(req.Device.Type),
		Browser:          utils.SanitizeString(req.Device.Browser),
		OS:               utils.SanitizeString(req.Device.OS),
		Country:          utils.SanitizeString(req.Geo.Country),
		City:             utils.SanitizeString(req.Geo.City),
	}
	if req.Utm != nil {
		visitor.FirstUtmSource = utils.SanitizeString(req.Utm.Source)
		visitor.FirstUtmMedium = utils.SanitizeString(req.Utm.Medium)
		visitor.FirstUtmCampaign = utils.SanitizeString(req.Utm.Campaign)
		visitor.FirstUtmContent = utils.SanitizeString(req.Utm.Content)
		visitor.FirstUtmTerm = utils.SanitizeString(req.Utm.Term)
	}
	return visitor
}

func (uc *trackUseCase) buildEvent(req *TrackEventRequest, occurredAt time.Time) *entities.Event {
	event := &entities.Event{
		ID:              uuid.New(),
		VisitorID:       req.VisitorID,
		EventType:       req.EventType,
		EventName:       utils.SanitizeString(req.EventName),
		EventProperties: req.Properties,
		PageURL:         utils.SanitizeString(req.Page.URL),
		PageTitle:       utils.SanitizeString(req.Page.Title),
		Referrer:        utils.SanitizeString(req.Page.Referrer),
		SessionID:       req.SessionID,
		CreatedAt:       occurredAt,
	}
	if req.Utm != nil {
		event.UtmSource = utils.SanitizeString(req.Utm.Source)
		event.UtmMedium = utils.SanitizeString(req.Utm.Medium)
		event.UtmCampaign = utils.SanitizeString(req.Utm.Campaign)
		event.UtmContent = utils.SanitizeString(req.Utm.Content)
		event.UtmTerm = utils.SanitizeString(req.Utm.Term)
	}
	if req.ClickIDs != nil {
		event.Fbclid = utils.SanitizeString(req.ClickIDs.Fbclid)
		event.Gclid = utils.SanitizeString(req.ClickIDs.Gclid)
		event.Ttclid = utils.SanitizeString(req.ClickIDs.Ttclid)
		event.LiFatID = utils.SanitizeString(req.ClickIDs.LiFatID)
	}
	return event
}

func (uc *trackUseCase) buildTouchpoint(req *TrackEventRequest, occurredAt time.Time) *entities.Touchpoint {
	touchpointType := entities.TouchpointTypeAdClick
	if req.EventType == entities.EventTypeFormSubmit {
		touchpointType = entities.TouchpointTypeFormSubmit
	}

	touchpoint := &entities.Touchpoint{
		// UUIDv7 é crescente na ordem de geração, então o desempate por id
		// na leitura do ledger segue a ordem de inserção
		ID:             uuid.Must(uuid.NewV7()),
		VisitorID:      req.VisitorID,
		Channel:        DetectChannel(req.Utm, req.ClickIDs),
		TouchpointType: touchpointType,
		CreatedAt:      occurredAt,
	}
	if req.Utm != nil {
		touchpoint.Source = utils.SanitizeString(req.Utm.Source)
		touchpoint.Medium = utils.SanitizeString(req.Utm.Medium)
		touchpoint.Campaign = utils.SanitizeString(req.Utm.Campaign)
		touchpoint.Content = utils.SanitizeString(req.Utm.Content)
	}
	return touchpoint
}
