package usecases

import (
	"strings"

	"github.com/palacios-io/attribution-api/internal/domain/entities"
)

// DetectChannel classifica os sinais de campanha de uma interação em um
// channel canônico. Função pura e total: sempre devolve um valor (default
// direct), reutilizável tanto na ingestão quanto em backfills offline.
// Precedência: click-ids primeiro, depois utm_source, depois utm_medium.
func DetectChannel(utm *entities.UtmData, clickIDs *entities.ClickIDs) entities.Channel {
	// Click-IDs têm prioridade máxima, em ordem fixa
	if clickIDs != nil {
		if clickIDs.Fbclid != "" {
			return entities.ChannelMetaAds
		}
		if clickIDs.Gclid != "" {
			return entities.ChannelGoogleAds
		}
		if clickIDs.Ttclid != "" {
			return entities.ChannelTiktokAds
		}
		if clickIDs.LiFatID != "" {
			return entities.ChannelLinkedinAds
		}
	}

	if utm != nil && utm.Source != "" {
		source := strings.ToLower(utm.Source)
		if channel, ok := entities.PlatformMapping[source]; ok {
			return channel
		}

		// Fragmentos conhecidos de nomes de plataforma
		switch {
		case strings.Contains(source, "facebook"), strings.Contains(source, "fb"),
			strings.Contains(source, "instagram"), strings.Contains(source, "meta"):
			return entities.ChannelMetaAds
		case strings.Contains(source, "google"), strings.Contains(source, "youtube"):
			return entities.ChannelGoogleAds
		case strings.Contains(source, "linkedin"):
			return entities.ChannelLinkedinAds
		case strings.Contains(source, "tiktok"):
			return entities.ChannelTiktokAds
		case strings.Contains(source, "email"), strings.Contains(source, "customerio"),
			strings.Contains(source, "newsletter"):
			return entities.ChannelEmail
		}
	}

	if utm != nil && utm.Medium != "" {
		switch strings.ToLower(utm.Medium) {
		case "cpc", "paid", "ppc":
			// Tráfego pago com plataforma desconhecida: escolha conservadora
			return entities.ChannelDirect
		case "email":
			return entities.ChannelEmail
		case "organic":
			return entities.ChannelOrganic
		case "referral":
			return entities.ChannelReferral
		}
	}

	return entities.ChannelDirect
}

// PrimaryClickID devolve o primeiro click-id presente, na mesma ordem fixa
// de prioridade usada pelo DetectChannel
func PrimaryClickID(clickIDs *entities.ClickIDs) string {
	if clickIDs == nil {
		return ""
	}
	for _, id := range []string{clickIDs.Fbclid, clickIDs.Gclid, clickIDs.Ttclid, clickIDs.LiFatID} {
		if id != "" {
			return id
		}
	}
	return ""
}
