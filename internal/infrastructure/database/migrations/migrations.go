package migrations

import (
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate cria o schema a partir das entidades
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Visitor{},
		&entities.Contact{},
		&entities.Event{},
		&entities.Touchpoint{},
		&entities.Purchase{},
		&entities.Attribution{},
	)
}

// AddConstraints cria os índices que as invariantes do ledger exigem.
// ux_touchpoints_first_touch é o guard atômico do first touch: sem ele,
// duas requisições concorrentes do mesmo visitor podem ambas gravar
// is_first_touch = true.
func AddConstraints(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_touchpoints_first_touch
			ON touchpoints (visitor_id) WHERE is_first_touch`,

		// Dedup de reenvio do mesmo evento pelo snippet. O channel entra na
		// chave para dois touchpoints distintos no mesmo instante (ex: ad
		// clicks de plataformas diferentes) não colidirem entre si.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_touchpoints_dedup
			ON touchpoints (visitor_id, created_at, touchpoint_type, channel)`,

		// Consulta do motor de atribuição: recorte por contact até a compra
		`CREATE INDEX IF NOT EXISTS idx_touchpoints_contact_created
			ON touchpoints (contact_id, created_at)`,

		`CREATE INDEX IF NOT EXISTS idx_events_visitor_contact_null
			ON events (visitor_id) WHERE contact_id IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
