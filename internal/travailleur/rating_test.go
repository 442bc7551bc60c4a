package travailleur

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
)

func nouveauTravailleur() *models.Travailleur {
	return &models.Travailleur{HistoriqueTravail: "[]"}
}

func TestAppliquerNoteConvergeVersLaMoyenne(t *testing.T) {
	tr := nouveauTravailleur()
	notes := []float64{8, 6, 10, 7, 9} // moyenne exacte: 8.0

	for i, n := range notes {
		if err := AppliquerNote(tr, uint(i+1), n, ""); err != nil {
			t.Fatalf("note %v: %v", n, err)
		}
	}

	if tr.TotalServices != 5 {
		t.Errorf("attendu 5 services, obtenu %d", tr.TotalServices)
	}
	if math.Abs(tr.RatingGlobal-8.0) > 0.1 {
		t.Errorf("moyenne: attendu ~8.0, obtenu %v", tr.RatingGlobal)
	}
}

func TestAppliquerNoteHorsBornesIgnoree(t *testing.T) {
	tr := nouveauTravailleur()
	if err := AppliquerNote(tr, 1, 7, ""); err != nil {
		t.Fatal(err)
	}
	avant := *tr

	for _, n := range []float64{-1, 10.5, math.NaN()} {
		if err := AppliquerNote(tr, 2, n, ""); err != nil {
			t.Fatalf("note %v: %v", n, err)
		}
	}

	if tr.RatingGlobal != avant.RatingGlobal || tr.TotalServices != avant.TotalServices {
		t.Errorf("une note hors bornes ne doit rien changer: avant %+v, après rating=%v total=%d",
			avant, tr.RatingGlobal, tr.TotalServices)
	}
	if tr.HistoriqueTravail != avant.HistoriqueTravail {
		t.Error("l'historique ne doit pas bouger pour une note hors bornes")
	}
}

func TestAppliquerNoteRemplaceSansIncrementer(t *testing.T) {
	tr := nouveauTravailleur()
	if err := AppliquerNote(tr, 1, 8, ""); err != nil {
		t.Fatal(err)
	}
	if err := AppliquerNote(tr, 2, 6, ""); err != nil {
		t.Fatal(err)
	}
	// re-noter le service 1: remplacement, le compteur ne bouge pas
	if err := AppliquerNote(tr, 1, 4, ""); err != nil {
		t.Fatal(err)
	}

	if tr.TotalServices != 2 {
		t.Errorf("attendu 2 services après remplacement, obtenu %d", tr.TotalServices)
	}
	// (4 + 6) / 2
	if tr.RatingGlobal != 5.0 {
		t.Errorf("attendu 5.0, obtenu %v", tr.RatingGlobal)
	}
}

func TestModifierNoteNeChangePasLeCompteur(t *testing.T) {
	tr := nouveauTravailleur()
	if err := AppliquerNote(tr, 1, 8, ""); err != nil {
		t.Fatal(err)
	}
	if err := AppliquerNote(tr, 2, 6, ""); err != nil {
		t.Fatal(err)
	}

	var hist []models.EntreeTravail
	if err := json.Unmarshal([]byte(tr.HistoriqueTravail), &hist); err != nil {
		t.Fatalf("historique illisible: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("attendu 2 entrées, obtenu %d", len(hist))
	}

	if err := ModifierNote(tr, hist[0].ID, 10); err != nil {
		t.Fatal(err)
	}
	if tr.TotalServices != 2 {
		t.Errorf("le compteur ne doit pas bouger en modification: obtenu %d", tr.TotalServices)
	}
	// (10 + 6) / 2
	if tr.RatingGlobal != 8.0 {
		t.Errorf("attendu 8.0, obtenu %v", tr.RatingGlobal)
	}
}

func TestModifierNotePremiereNotation(t *testing.T) {
	tr := nouveauTravailleur()
	if err := AjouterTravail(tr, 1, time.Time{}, "coupe"); err != nil {
		t.Fatal(err)
	}
	if tr.TotalServices != 0 {
		t.Fatalf("une prestation non notée ne compte pas: obtenu %d", tr.TotalServices)
	}

	var hist []models.EntreeTravail
	if err := json.Unmarshal([]byte(tr.HistoriqueTravail), &hist); err != nil {
		t.Fatal(err)
	}

	// noter une entrée sans note: première contribution, le compteur s'incrémente
	if err := ModifierNote(tr, hist[0].ID, 9); err != nil {
		t.Fatal(err)
	}
	if tr.TotalServices != 1 || tr.RatingGlobal != 9.0 {
		t.Errorf("attendu total=1 rating=9.0, obtenu total=%d rating=%v", tr.TotalServices, tr.RatingGlobal)
	}
}

func TestModifierNoteEntreeIntrouvable(t *testing.T) {
	tr := nouveauTravailleur()
	if err := ModifierNote(tr, 42, 5); err == nil {
		t.Fatal("attendu une erreur pour une entrée inexistante")
	}
}

func TestArrondiUneDecimale(t *testing.T) {
	tr := nouveauTravailleur()
	for i, n := range []float64{7, 8, 8} {
		if err := AppliquerNote(tr, uint(i+1), n, ""); err != nil {
			t.Fatal(err)
		}
	}
	// (7+8+8)/3 = 7.666... -> 7.7
	if tr.RatingGlobal != 7.7 {
		t.Errorf("attendu 7.7, obtenu %v", tr.RatingGlobal)
	}
}
