package usecases

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/infrastructure/metrics"
	"github.com/palacios-io/attribution-api/internal/utils"
)

type IdentifyProperties struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type IdentifyRequest struct {
	VisitorID  string              `json:"visitor_id"`
	Email      string              `json:"email"`
	Properties *IdentifyProperties `json:"properties"`
}

type IdentifyUseCase interface {
	Identify(ctx context.Context, req *IdentifyRequest) (uuid.UUID, error)
}

type identifyUseCase struct {
	contactRepo    repositories.ContactRepository
	eventRepo      repositories.EventRepository
	touchpointRepo repositories.TouchpointRepository
}

func NewIdentifyUseCase(contactRepo repositories.ContactRepository, eventRepo repositories.EventRepository, touchpointRepo repositories.TouchpointRepository) IdentifyUseCase {
	return &identifyUseCase{contactRepo, eventRepo, touchpointRepo}
}

// Identify vincula o histórico anônimo do visitor a um contact identificado
// por email. Reexecutar com os mesmos inputs é no-op: o vínculo canônico não
// é sobrescrito e o reassign só pega linhas ainda sem contact.
func (uc *identifyUseCase) Identify(ctx context.Context, req *IdentifyRequest) (uuid.UUID, error) {
	if req.VisitorID == "" {
		return uuid.Nil, apperrors.NewValidation("visitor_id", "required")
	}
	email := utils.NormalizeEmail(req.Email)
	if !utils.IsValidEmail(email) {
		return uuid.Nil, apperrors.NewValidation("email", "invalid or missing")
	}

	contact, err := uc.contactRepo.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}

	if contact != nil {
		// Contact já existe: só preenche o vínculo se ainda não houver visitor.
		// Um visitor diferente já vinculado fica como está (sem oscilar em replay);
		// o histórico do visitor novo ainda é reatribuído abaixo.
		if contact.VisitorID == "" {
			if err := uc.contactRepo.LinkVisitor(ctx, contact.ID, req.VisitorID); err != nil {
				return uuid.Nil, err
			}
		}
		if req.Properties != nil {
			if err := uc.updateProperties(ctx, contact.ID, req.Properties); err != nil {
				return uuid.Nil, err
			}
		}
	} else {
		contact = &entities.Contact{
			ID:           uuid.New(),
			VisitorID:    req.VisitorID,
			Email:        email,
			Status:       entities.ContactStatusLead,
			IdentifiedAt: time.Now().UTC(),
		}
		if req.Properties != nil {
			contact.FirstName = utils.SanitizeString(req.Properties.FirstName)
			contact.LastName = utils.SanitizeString(req.Properties.LastName)
			contact.Phone = utils.SanitizeString(req.Properties.Phone)
		}

		if err := uc.contactRepo.Create(ctx, contact); err != nil {
			if !apperrors.IsDuplicateKey(err) {
				return uuid.Nil, apperrors.WrapStore("contact create", err)
			}
			// Corrida na criação pelo mesmo email: relê a linha vencedora
			contact, err = uc.contactRepo.FindByEmail(ctx, email)
			if err != nil {
				return uuid.Nil, err
			}
			if contact == nil {
				return uuid.Nil, apperrors.NewInvariant("contact for %s vanished after duplicate-key conflict", email)
			}
		}
	}

	// Reatribui events e touchpoints do visitor ainda sem contact
	reassignedEvents, err := uc.eventRepo.ReassignToContact(ctx, req.VisitorID, contact.ID)
	if err != nil {
		return uuid.Nil, err
	}
	reassignedTouchpoints, err := uc.touchpointRepo.ReassignToContact(ctx, req.VisitorID, contact.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if reassignedEvents > 0 || reassignedTouchpoints > 0 {
		log.Printf("Identify: visitor %s -> contact %s (%d events, %d touchpoints reassigned)",
			req.VisitorID, contact.ID, reassignedEvents, reassignedTouchpoints)
	}
	metrics.IdentifiesProcessed.Inc()

	return contact.ID, nil
}

func (uc *identifyUseCase) updateProperties(ctx context.Context, contactID uuid.UUID, props *IdentifyProperties) error {
	return uc.contactRepo.UpdateProperties(ctx, contactID,
		utils.SanitizeString(props.FirstName),
		utils.SanitizeString(props.LastName),
		utils.SanitizeString(props.Phone))
}
