package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
)

// Le composeur assemble les sorties de l'agrégateur en sections nommées
// (revenus par mois, top produits, répartitions). Le tri et le découpage
// "top N" se font ici, jamais dans l'agrégateur.

var moisCourts = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// LibelleMois: "janv. 2024" — le format affiché par le tableau de bord.
func LibelleMois(t time.Time) string {
	return fmt.Sprintf("%s %d", moisCourts[t.Month()-1], t.Year())
}

// cleMois: clé triable "2024-01", convertie en libellé à la fin.
func cleMois(t time.Time) string {
	return t.Format("2006-01")
}

func libelleDepuisCle(cle string) string {
	t, err := time.Parse("2006-01", cle)
	if err != nil {
		return cle
	}
	return LibelleMois(t)
}

type FinanceMois struct {
	Mois     string  `json:"mois"`
	Revenus  float64 `json:"revenus"`
	Depenses float64 `json:"depenses"`
	Profit   float64 `json:"profit"`
}

// RevenusParMois: fusionne trois collections indépendantes (ventes payées,
// revenus hors vente, dépenses) dans une seule structure par mois.
// Le profit est calculé en dernière passe, une fois les trois sources
// intégrées — jamais incrémentalement.
func RevenusParMois(ventes []models.Vente, revenus []models.Revenu, depenses []models.Depense) []FinanceMois {
	mois := make(map[string]*FinanceMois)
	var cles []string

	obtenir := func(cle string) *FinanceMois {
		if fm, ok := mois[cle]; ok {
			return fm
		}
		fm := &FinanceMois{Mois: cle}
		mois[cle] = fm
		cles = append(cles, cle)
		return fm
	}

	for _, v := range ventes {
		if v.Statut != models.VentePayee {
			continue
		}
		obtenir(cleMois(v.Date)).Revenus += v.MontantNet
	}
	for _, r := range revenus {
		obtenir(cleMois(r.Date)).Revenus += r.Montant
	}
	for _, d := range depenses {
		obtenir(cleMois(d.Date)).Depenses += d.Montant
	}

	sort.Strings(cles)

	res := make([]FinanceMois, 0, len(cles))
	for _, cle := range cles {
		fm := mois[cle]
		// dernière passe: profit = revenus - dépenses
		fm.Profit = fm.Revenus - fm.Depenses
		res = append(res, FinanceMois{
			Mois:     libelleDepuisCle(cle),
			Revenus:  fm.Revenus,
			Depenses: fm.Depenses,
			Profit:   fm.Profit,
		})
	}
	return res
}

type TopEntree struct {
	ID       uint    `json:"id"`
	Nom      string  `json:"nom"`
	Quantite int     `json:"quantite"`
	Total    float64 `json:"total"`
}

// TopProduits: lignes avec référence produit ET sans référence service.
// Une ligne portant les deux références (ou aucune) est exclue — comportement
// historique du tableau de bord, les lignes sont censées être exclusives.
func TopProduits(lignes []models.LigneVente, produits map[uint]models.Produit, n int) []TopEntree {
	var filtrees []models.LigneVente
	for _, l := range lignes {
		if l.ProduitID != nil && l.ServiceID == nil {
			filtrees = append(filtrees, l)
		}
	}

	groupes := Aggregate(filtrees,
		func(l models.LigneVente) string { return fmt.Sprint(*l.ProduitID) },
		map[string]Mesure[models.LigneVente]{
			"total":    func(l models.LigneVente) float64 { return l.Total },
			"quantite": func(l models.LigneVente) float64 { return float64(l.Quantite) },
		})

	entrees := make([]TopEntree, 0, groupes.Len())
	for _, g := range groupes.Entrees() {
		var id uint
		fmt.Sscan(g.Cle, &id)
		nom := LibelleInconnu
		if p, ok := produits[id]; ok {
			nom = p.Nom
		}
		entrees = append(entrees, TopEntree{
			ID:       id,
			Nom:      nom,
			Quantite: int(g.Sommes["quantite"]),
			Total:    g.Sommes["total"],
		})
	}
	return trierTop(entrees, n)
}

// TopServices: symétrique de TopProduits (référence service, pas de produit).
func TopServices(lignes []models.LigneVente, services map[uint]models.Service, n int) []TopEntree {
	var filtrees []models.LigneVente
	for _, l := range lignes {
		if l.ServiceID != nil && l.ProduitID == nil {
			filtrees = append(filtrees, l)
		}
	}

	groupes := Aggregate(filtrees,
		func(l models.LigneVente) string { return fmt.Sprint(*l.ServiceID) },
		map[string]Mesure[models.LigneVente]{
			"total":    func(l models.LigneVente) float64 { return l.Total },
			"quantite": func(l models.LigneVente) float64 { return float64(l.Quantite) },
		})

	entrees := make([]TopEntree, 0, groupes.Len())
	for _, g := range groupes.Entrees() {
		var id uint
		fmt.Sscan(g.Cle, &id)
		nom := LibelleInconnu
		if s, ok := services[id]; ok {
			nom = s.Nom
		}
		entrees = append(entrees, TopEntree{
			ID:       id,
			Nom:      nom,
			Quantite: int(g.Sommes["quantite"]),
			Total:    g.Sommes["total"],
		})
	}
	return trierTop(entrees, n)
}

// TopClients: chiffre d'affaires des ventes payées par client.
// Les ventes anonymes (sans client) ne comptent pas.
func TopClients(ventes []models.Vente, clients map[uint]models.Client, n int) []TopEntree {
	var filtrees []models.Vente
	for _, v := range ventes {
		if v.Statut == models.VentePayee && v.ClientID != nil {
			filtrees = append(filtrees, v)
		}
	}

	groupes := Aggregate(filtrees,
		func(v models.Vente) string { return fmt.Sprint(*v.ClientID) },
		map[string]Mesure[models.Vente]{
			"total": func(v models.Vente) float64 { return v.MontantNet },
		})

	entrees := make([]TopEntree, 0, groupes.Len())
	for _, g := range groupes.Entrees() {
		var id uint
		fmt.Sscan(g.Cle, &id)
		nom := LibelleInconnu
		if cl, ok := clients[id]; ok {
			nom = strings.TrimSpace(cl.Prenom + " " + cl.Nom)
		}
		entrees = append(entrees, TopEntree{
			ID:       id,
			Nom:      nom,
			Quantite: g.Nombre,
			Total:    g.Sommes["total"],
		})
	}
	return trierTop(entrees, n)
}

func trierTop(entrees []TopEntree, n int) []TopEntree {
	sort.SliceStable(entrees, func(i, j int) bool {
		return entrees[i].Total > entrees[j].Total
	})
	if n > 0 && len(entrees) > n {
		entrees = entrees[:n]
	}
	return entrees
}

type Repartition struct {
	Cle    string  `json:"cle"`
	Nombre int     `json:"nombre"`
	Total  float64 `json:"total"`
}

// RepartitionPaiement: ventes payées groupées par mode de paiement.
func RepartitionPaiement(ventes []models.Vente) []Repartition {
	var payees []models.Vente
	for _, v := range ventes {
		if v.Statut == models.VentePayee {
			payees = append(payees, v)
		}
	}
	groupes := Aggregate(payees,
		func(v models.Vente) string { return string(v.ModePaiement) },
		map[string]Mesure[models.Vente]{
			"total": func(v models.Vente) float64 { return v.MontantNet },
		})
	return versRepartition(groupes)
}

// RepartitionStatut: toutes les ventes groupées par statut.
func RepartitionStatut(ventes []models.Vente) []Repartition {
	groupes := Aggregate(ventes,
		func(v models.Vente) string { return string(v.Statut) },
		map[string]Mesure[models.Vente]{
			"total": func(v models.Vente) float64 { return v.MontantNet },
		})
	return versRepartition(groupes)
}

func versRepartition(groupes *Groupes) []Repartition {
	res := make([]Repartition, 0, groupes.Len())
	for _, g := range groupes.Entrees() {
		res = append(res, Repartition{Cle: g.Cle, Nombre: g.Nombre, Total: g.Sommes["total"]})
	}
	return res
}

type MargeProduit struct {
	ID        uint    `json:"id"`
	Nom       string  `json:"nom"`
	PrixVente float64 `json:"prix_vente"`
	PrixAchat float64 `json:"prix_achat"`
	Marge     float64 `json:"marge"`
	Stock     int     `json:"stock"`
}

type RapportProduits struct {
	ValeurStock float64        `json:"valeur_stock"` // somme stock × prix d'achat
	Marges      []MargeProduit `json:"marges"`
	StockBas    []MargeProduit `json:"stock_bas"`
}

// ComposerRapportProduits: valorisation du stock + marges par produit actif.
func ComposerRapportProduits(produits []models.Produit) RapportProduits {
	var rapport RapportProduits
	for _, p := range produits {
		if !p.IsActive {
			continue
		}
		rapport.ValeurStock += float64(p.Stock) * p.PrixAchat
		mp := MargeProduit{
			ID:        p.ID,
			Nom:       p.Nom,
			PrixVente: p.PrixVente,
			PrixAchat: p.PrixAchat,
			Marge:     p.PrixVente - p.PrixAchat,
			Stock:     p.Stock,
		}
		rapport.Marges = append(rapport.Marges, mp)
		if p.Stock <= p.SeuilAlerte {
			rapport.StockBas = append(rapport.StockBas, mp)
		}
	}
	sort.SliceStable(rapport.Marges, func(i, j int) bool {
		return rapport.Marges[i].Marge > rapport.Marges[j].Marge
	})
	return rapport
}
