package report

import (
	"gorm.io/gorm"
)

// Résolution de relations par lot: on collecte d'abord les identifiants
// distincts, puis une seule requête IN par relation (jamais une requête par
// ligne). Un identifiant orphelin donne le libellé "inconnu" plutôt que de
// faire disparaître la ligne des agrégats.

const LibelleInconnu = "inconnu"

// CollecterIDs: valeurs de clé étrangère distinctes et non nulles.
func CollecterIDs[R any](records []R, fk func(R) *uint) []uint {
	vus := make(map[uint]bool)
	var ids []uint
	for _, rec := range records {
		p := fk(rec)
		if p == nil || *p == 0 {
			continue
		}
		if !vus[*p] {
			vus[*p] = true
			ids = append(ids, *p)
		}
	}
	return ids
}

// ResoudreRelation: charge en une seule requête les entités référencées et
// construit la table id -> entité. Liste vide => aucune requête.
func ResoudreRelation[M any](db *gorm.DB, ids []uint, id func(M) uint) (map[uint]M, error) {
	table := make(map[uint]M)
	if len(ids) == 0 {
		return table, nil
	}

	var rows []M
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		table[id(row)] = row
	}
	return table, nil
}
