package report

import (
	"testing"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
)

func jour(annee int, mois time.Month, j int) time.Time {
	return time.Date(annee, mois, j, 0, 0, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint { return &v }

func TestRevenusParMois(t *testing.T) {
	ventes := []models.Vente{
		{MontantNet: 1000, Statut: models.VentePayee, Date: jour(2024, time.January, 5)},
		{MontantNet: 500, Statut: models.VentePayee, Date: jour(2024, time.January, 20)},
		{MontantNet: 2000, Statut: models.VenteEnAttente, Date: jour(2024, time.February, 1)},
	}
	depenses := []models.Depense{
		{Montant: 300, Date: jour(2024, time.January, 10)},
	}

	res := RevenusParMois(ventes, nil, depenses)

	if len(res) != 1 {
		t.Fatalf("attendu 1 mois (la vente en attente ne compte pas), obtenu %d: %+v", len(res), res)
	}
	janv := res[0]
	if janv.Mois != "janv. 2024" {
		t.Errorf("libellé: attendu %q, obtenu %q", "janv. 2024", janv.Mois)
	}
	if janv.Revenus != 1500 {
		t.Errorf("revenus: attendu 1500, obtenu %v", janv.Revenus)
	}
	if janv.Depenses != 300 {
		t.Errorf("dépenses: attendu 300, obtenu %v", janv.Depenses)
	}
	if janv.Profit != 1200 {
		t.Errorf("profit: attendu 1200, obtenu %v", janv.Profit)
	}
}

func TestRevenusParMoisOrdreChronologique(t *testing.T) {
	// insérés dans le désordre, le résultat doit être chronologique
	revenus := []models.Revenu{
		{Montant: 10, Date: jour(2024, time.March, 1)},
		{Montant: 10, Date: jour(2023, time.December, 15)},
		{Montant: 10, Date: jour(2024, time.January, 3)},
	}
	res := RevenusParMois(nil, revenus, nil)

	attendu := []string{"déc. 2023", "janv. 2024", "mars 2024"}
	if len(res) != len(attendu) {
		t.Fatalf("attendu %d mois, obtenu %d", len(attendu), len(res))
	}
	for i, mois := range attendu {
		if res[i].Mois != mois {
			t.Errorf("position %d: attendu %q, obtenu %q", i, mois, res[i].Mois)
		}
	}
}

func TestProfitEgalRevenusMoinsDepenses(t *testing.T) {
	ventes := []models.Vente{
		{MontantNet: 120.50, Statut: models.VentePayee, Date: jour(2024, time.May, 2)},
		{MontantNet: 79.50, Statut: models.VentePayee, Date: jour(2024, time.May, 20)},
	}
	revenus := []models.Revenu{
		{Montant: 50, Date: jour(2024, time.May, 9)},
	}
	depenses := []models.Depense{
		{Montant: 80, Date: jour(2024, time.May, 4)},
		{Montant: 30, Date: jour(2024, time.May, 28)},
	}

	res := RevenusParMois(ventes, revenus, depenses)
	if len(res) != 1 {
		t.Fatalf("attendu 1 mois, obtenu %d", len(res))
	}
	for _, fm := range res {
		if fm.Profit != fm.Revenus-fm.Depenses {
			t.Errorf("%s: profit %v != revenus %v - dépenses %v", fm.Mois, fm.Profit, fm.Revenus, fm.Depenses)
		}
	}
	if res[0].Revenus != 250 || res[0].Depenses != 110 || res[0].Profit != 140 {
		t.Errorf("mai 2024: obtenu %+v", res[0])
	}
}

func TestTopProduitsExclusivite(t *testing.T) {
	produits := map[uint]models.Produit{
		1: {ID: 1, Nom: "Shampooing"},
		2: {ID: 2, Nom: "Huile"},
	}
	lignes := []models.LigneVente{
		{ProduitID: uintPtr(1), Quantite: 2, Total: 40},
		{ProduitID: uintPtr(2), Quantite: 1, Total: 100},
		{ProduitID: uintPtr(1), Quantite: 1, Total: 20},
		// référence service: exclue du top produits
		{ServiceID: uintPtr(7), Quantite: 1, Total: 500},
		// les deux références à la fois: ligne ambiguë, exclue
		{ProduitID: uintPtr(1), ServiceID: uintPtr(7), Quantite: 1, Total: 999},
	}

	top := TopProduits(lignes, produits, 10)
	if len(top) != 2 {
		t.Fatalf("attendu 2 produits, obtenu %d: %+v", len(top), top)
	}
	if top[0].ID != 2 || top[0].Total != 100 {
		t.Errorf("premier: attendu Huile à 100, obtenu %+v", top[0])
	}
	if top[1].ID != 1 || top[1].Total != 60 || top[1].Quantite != 3 {
		t.Errorf("second: attendu Shampooing à 60 (qté 3), obtenu %+v", top[1])
	}
}

func TestTopProduitsLimiteEtInconnu(t *testing.T) {
	lignes := []models.LigneVente{
		{ProduitID: uintPtr(1), Quantite: 1, Total: 10},
		{ProduitID: uintPtr(2), Quantite: 1, Total: 30},
		{ProduitID: uintPtr(3), Quantite: 1, Total: 20},
	}

	top := TopProduits(lignes, map[uint]models.Produit{}, 2)
	if len(top) != 2 {
		t.Fatalf("attendu top 2, obtenu %d", len(top))
	}
	if top[0].Total != 30 || top[1].Total != 20 {
		t.Errorf("ordre décroissant attendu, obtenu %+v", top)
	}
	// identifiant orphelin: libellé de repli, la ligne ne disparaît pas
	if top[0].Nom != LibelleInconnu {
		t.Errorf("attendu %q pour un produit non résolu, obtenu %q", LibelleInconnu, top[0].Nom)
	}
}

func TestTopClientsIgnoreAnonymesEtNonPayees(t *testing.T) {
	clients := map[uint]models.Client{
		4: {ID: 4, Nom: "Diallo", Prenom: "Awa"},
	}
	ventes := []models.Vente{
		{ClientID: uintPtr(4), MontantNet: 100, Statut: models.VentePayee},
		{ClientID: uintPtr(4), MontantNet: 50, Statut: models.VentePayee},
		{ClientID: nil, MontantNet: 999, Statut: models.VentePayee},
		{ClientID: uintPtr(4), MontantNet: 999, Statut: models.VenteAnnulee},
	}

	top := TopClients(ventes, clients, 5)
	if len(top) != 1 {
		t.Fatalf("attendu 1 client, obtenu %d: %+v", len(top), top)
	}
	if top[0].Nom != "Awa Diallo" || top[0].Total != 150 || top[0].Quantite != 2 {
		t.Errorf("obtenu %+v", top[0])
	}
}

func TestRepartitionPaiement(t *testing.T) {
	ventes := []models.Vente{
		{ModePaiement: models.PaiementEspeces, MontantNet: 100, Statut: models.VentePayee},
		{ModePaiement: models.PaiementCarte, MontantNet: 200, Statut: models.VentePayee},
		{ModePaiement: models.PaiementEspeces, MontantNet: 50, Statut: models.VentePayee},
		{ModePaiement: models.PaiementEspeces, MontantNet: 999, Statut: models.VenteAnnulee},
	}
	rep := RepartitionPaiement(ventes)
	if len(rep) != 2 {
		t.Fatalf("attendu 2 modes, obtenu %d", len(rep))
	}
	for _, r := range rep {
		switch r.Cle {
		case "especes":
			if r.Total != 150 || r.Nombre != 2 {
				t.Errorf("especes: obtenu %+v", r)
			}
		case "carte":
			if r.Total != 200 || r.Nombre != 1 {
				t.Errorf("carte: obtenu %+v", r)
			}
		default:
			t.Errorf("mode inattendu %q", r.Cle)
		}
	}
}

func TestComposerRapportProduits(t *testing.T) {
	produits := []models.Produit{
		{ID: 1, Nom: "Shampooing", PrixVente: 20, PrixAchat: 8, Stock: 10, SeuilAlerte: 5, IsActive: true},
		{ID: 2, Nom: "Huile", PrixVente: 50, PrixAchat: 30, Stock: 3, SeuilAlerte: 5, IsActive: true},
		{ID: 3, Nom: "Ancien", PrixVente: 10, PrixAchat: 5, Stock: 100, IsActive: false},
	}

	rapport := ComposerRapportProduits(produits)

	// 10×8 + 3×30, le produit archivé ne compte pas
	if rapport.ValeurStock != 170 {
		t.Errorf("valeur stock: attendu 170, obtenu %v", rapport.ValeurStock)
	}
	if len(rapport.Marges) != 2 {
		t.Fatalf("attendu 2 marges, obtenu %d", len(rapport.Marges))
	}
	if rapport.Marges[0].ID != 2 || rapport.Marges[0].Marge != 20 {
		t.Errorf("meilleure marge attendue pour Huile (20), obtenu %+v", rapport.Marges[0])
	}
	if len(rapport.StockBas) != 1 || rapport.StockBas[0].ID != 2 {
		t.Errorf("stock bas: attendu uniquement Huile, obtenu %+v", rapport.StockBas)
	}
}

func TestLibelleMois(t *testing.T) {
	cas := map[string]time.Time{
		"janv. 2024": jour(2024, time.January, 15),
		"août 2023":  jour(2023, time.August, 1),
		"déc. 2025":  jour(2025, time.December, 31),
	}
	for attendu, d := range cas {
		if got := LibelleMois(d); got != attendu {
			t.Errorf("attendu %q, obtenu %q", attendu, got)
		}
	}
}
