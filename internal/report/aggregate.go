package report

import "math"

// Agrégation générique en mémoire: un seul passage linéaire sur les
// enregistrements déjà chargés. Les clés gardent leur ordre de première
// apparition; aucun tri n'est fait ici (c'est le rôle du composeur).

type Groupe struct {
	Cle    string
	Nombre int
	Sommes map[string]float64
}

type Groupes struct {
	parCle map[string]*Groupe
	ordre  []*Groupe
}

// Mesure: extrait la valeur numérique d'un enregistrement pour une somme nommée.
type Mesure[R any] func(R) float64

func Aggregate[R any](records []R, cle func(R) string, mesures map[string]Mesure[R]) *Groupes {
	g := &Groupes{parCle: make(map[string]*Groupe)}

	for _, rec := range records {
		k := cle(rec)
		grp, ok := g.parCle[k]
		if !ok {
			grp = &Groupe{Cle: k, Sommes: make(map[string]float64)}
			g.parCle[k] = grp
			g.ordre = append(g.ordre, grp)
		}

		grp.Nombre++
		for nom, mesure := range mesures {
			v := mesure(rec)
			// une valeur absente ou corrompue ne doit jamais propager un NaN
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			grp.Sommes[nom] += v
		}
	}

	return g
}

// Entrees: groupes dans l'ordre de première apparition des clés.
func (g *Groupes) Entrees() []*Groupe {
	return g.ordre
}

func (g *Groupes) Get(cle string) *Groupe {
	return g.parCle[cle]
}

func (g *Groupes) Somme(cle, mesure string) float64 {
	if grp, ok := g.parCle[cle]; ok {
		return grp.Sommes[mesure]
	}
	return 0
}

func (g *Groupes) Len() int {
	return len(g.ordre)
}
