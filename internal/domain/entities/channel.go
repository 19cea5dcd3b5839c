package entities

// Channel representa a origem canônica de tráfego de um touchpoint
type Channel string

const (
	ChannelMetaAds     Channel = "meta_ads"
	ChannelGoogleAds   Channel = "google_ads"
	ChannelLinkedinAds Channel = "linkedin_ads"
	ChannelTiktokAds   Channel = "tiktok_ads"
	ChannelEmail       Channel = "email"
	ChannelOrganic     Channel = "organic"
	ChannelDirect      Channel = "direct"
	ChannelReferral    Channel = "referral"
)

// PlatformMapping mapeia utm_source conhecidos para o channel correspondente
var PlatformMapping = map[string]Channel{
	"facebook":   ChannelMetaAds,
	"fb":         ChannelMetaAds,
	"instagram":  ChannelMetaAds,
	"ig":         ChannelMetaAds,
	"meta":       ChannelMetaAds,
	"google":     ChannelGoogleAds,
	"youtube":    ChannelGoogleAds,
	"linkedin":   ChannelLinkedinAds,
	"tiktok":     ChannelTiktokAds,
	"customerio": ChannelEmail,
	"email":      ChannelEmail,
}
