package travailleur

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
)

// Historiques salaire/paiement: listes JSON append-only, jamais modifiées.

func AjouterSalaire(t *models.Travailleur, montant float64, motif string, date time.Time) error {
	var hist []models.EntreeSalaire
	if t.HistoriqueSalaire != "" && t.HistoriqueSalaire != "[]" {
		if err := json.Unmarshal([]byte(t.HistoriqueSalaire), &hist); err != nil {
			return fmt.Errorf("historique de salaire illisible: %w", err)
		}
	}
	if date.IsZero() {
		date = time.Now()
	}
	hist = append(hist, models.EntreeSalaire{Date: date, Montant: montant, Motif: motif})

	b, err := json.Marshal(hist)
	if err != nil {
		return err
	}
	t.HistoriqueSalaire = string(b)
	return nil
}

func AjouterPaiement(t *models.Travailleur, montant float64, mode string, date time.Time) error {
	var hist []models.EntreePaiement
	if t.HistoriquePaiement != "" && t.HistoriquePaiement != "[]" {
		if err := json.Unmarshal([]byte(t.HistoriquePaiement), &hist); err != nil {
			return fmt.Errorf("historique de paiement illisible: %w", err)
		}
	}
	if date.IsZero() {
		date = time.Now()
	}
	hist = append(hist, models.EntreePaiement{Date: date, Montant: montant, Mode: mode})

	b, err := json.Marshal(hist)
	if err != nil {
		return err
	}
	t.HistoriquePaiement = string(b)
	return nil
}
