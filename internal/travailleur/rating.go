package travailleur

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
)

// Mise à jour en flux de la note globale d'un travailleur.
// Invariant: après mise à jour, rating_global = (ancienne_moyenne × ancien_nombre ± delta) / nouveau_nombre.
// Une note hors [0,10] est ignorée (on ne casse jamais le lot), et la moyenne
// persistée est arrondie à une décimale.

func NoteValide(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 10
}

func arrondi1(v float64) float64 {
	return math.Round(v*10) / 10
}

func decoderTravail(blob string) ([]models.EntreeTravail, error) {
	if blob == "" || blob == "[]" {
		return nil, nil
	}
	var hist []models.EntreeTravail
	if err := json.Unmarshal([]byte(blob), &hist); err != nil {
		return nil, fmt.Errorf("historique de travail illisible: %w", err)
	}
	return hist, nil
}

func encoderTravail(hist []models.EntreeTravail) (string, error) {
	if hist == nil {
		hist = []models.EntreeTravail{}
	}
	b, err := json.Marshal(hist)
	if err != nil {
		return "", fmt.Errorf("historique de travail non sérialisable: %w", err)
	}
	return string(b), nil
}

func prochainID(hist []models.EntreeTravail) uint {
	var max uint
	for _, e := range hist {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// AppliquerNote: nouvelle note pour un couple (travailleur, service).
// Si ce service a déjà une entrée notée, on remplace sa contribution
// (le compteur ne bouge pas); sinon on ajoute une entrée notée et le
// compteur s'incrémente. Note hors bornes: ignorée, rien ne change.
func AppliquerNote(t *models.Travailleur, serviceID uint, note float64, commentaire string) error {
	if !NoteValide(note) {
		return nil
	}

	hist, err := decoderTravail(t.HistoriqueTravail)
	if err != nil {
		return err
	}

	for i := range hist {
		if hist[i].ServiceID == serviceID && hist[i].Note != nil {
			remplacerContribution(t, *hist[i].Note, note)
			hist[i].Note = &note
			if commentaire != "" {
				hist[i].Commentaire = commentaire
			}
			return reencoder(t, hist)
		}
	}

	ajouterContribution(t, note)
	hist = append(hist, models.EntreeTravail{
		ID:          prochainID(hist),
		ServiceID:   serviceID,
		Date:        time.Now(),
		Note:        &note,
		Commentaire: commentaire,
	})
	return reencoder(t, hist)
}

// AjouterTravail: ajoute une prestation non notée à l'historique.
// La notation passe par AppliquerNote.
func AjouterTravail(t *models.Travailleur, serviceID uint, date time.Time, commentaire string) error {
	hist, err := decoderTravail(t.HistoriqueTravail)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = time.Now()
	}
	hist = append(hist, models.EntreeTravail{
		ID:          prochainID(hist),
		ServiceID:   serviceID,
		Date:        date,
		Commentaire: commentaire,
	})
	return reencoder(t, hist)
}

// ModifierNote: change la note d'une entrée existante. Remplacement pur,
// total_services ne bouge jamais ici (sauf si l'entrée n'avait pas encore
// de note, auquel cas c'est une première notation). Note hors bornes: ignorée.
func ModifierNote(t *models.Travailleur, entreeID uint, note float64) error {
	if !NoteValide(note) {
		return nil
	}

	hist, err := decoderTravail(t.HistoriqueTravail)
	if err != nil {
		return err
	}

	for i := range hist {
		if hist[i].ID != entreeID {
			continue
		}
		if hist[i].Note != nil {
			remplacerContribution(t, *hist[i].Note, note)
		} else {
			ajouterContribution(t, note)
		}
		hist[i].Note = &note
		return reencoder(t, hist)
	}

	return fmt.Errorf("entrée %d introuvable dans l'historique", entreeID)
}

func reencoder(t *models.Travailleur, hist []models.EntreeTravail) error {
	blob, err := encoderTravail(hist)
	if err != nil {
		return err
	}
	t.HistoriqueTravail = blob
	return nil
}

// ajout: nouvelle_moyenne = (moyenne × n + note) / (n + 1)
func ajouterContribution(t *models.Travailleur, note float64) {
	n := float64(t.TotalServices)
	t.RatingGlobal = arrondi1((t.RatingGlobal*n + note) / (n + 1))
	t.TotalServices++
}

// remplacement: nouvelle_moyenne = (moyenne × n − ancienne + nouvelle) / n
func remplacerContribution(t *models.Travailleur, ancienne, nouvelle float64) {
	n := float64(t.TotalServices)
	if n == 0 {
		return
	}
	t.RatingGlobal = arrondi1((t.RatingGlobal*n - ancienne + nouvelle) / n)
}
