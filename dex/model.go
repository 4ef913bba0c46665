package dex

import (
	"encoding/json"
	"slices"
)

// Stats holds the six canonical base stat categories. A category the
// upstream record does not report is 0, never absent.
type Stats struct {
	HP  int `json:"hp" msgpack:"hp"`
	Atk int `json:"atk" msgpack:"atk"`
	Def int `json:"def" msgpack:"def"`
	SpA int `json:"spa" msgpack:"spa"`
	SpD int `json:"spd" msgpack:"spd"`
	Spe int `json:"spe" msgpack:"spe"`
}

// Creature is the normalized output unit shared by every data source.
// Locations, EvolvesTo and EvoMethod are carried in the schema but never
// populated here; resolving them needs additional upstream calls that are
// out of scope.
type Creature struct {
	ID        int      `json:"id" msgpack:"id"`
	Name      string   `json:"name" msgpack:"name"`
	Types     []string `json:"types" msgpack:"types"`
	Abilities []string `json:"abilities" msgpack:"abilities"`
	Stats     Stats    `json:"stats" msgpack:"stats"`
	Locations []string `json:"locations" msgpack:"locations"`
	EvolvesTo *string  `json:"evolves_to" msgpack:"evolves_to"`
	EvoMethod *string  `json:"evo_method" msgpack:"evo_method"`
}

// GenerationResult is the cached and returned aggregate for one generation.
// It is immutable once assembled; callers must treat it as read-only.
type GenerationResult struct {
	Title string     `json:"title" msgpack:"title"`
	Items []Creature `json:"items" msgpack:"items"`
}

// clone returns a deep copy. Results handed to callers are always clones so
// that mutating one can never reach the cached entry or another caller's
// result through a shared backing array.
func (r *GenerationResult) clone() *GenerationResult {
	items := make([]Creature, len(r.Items))
	for i := range r.Items {
		items[i] = r.Items[i].clone()
	}
	return &GenerationResult{Title: r.Title, Items: items}
}

func (c Creature) clone() Creature {
	c.Types = slices.Clone(c.Types)
	c.Abilities = slices.Clone(c.Abilities)
	c.Locations = slices.Clone(c.Locations)
	if c.EvolvesTo != nil {
		v := *c.EvolvesTo
		c.EvolvesTo = &v
	}
	if c.EvoMethod != nil {
		v := *c.EvoMethod
		c.EvoMethod = &v
	}
	return c
}

// ItemRef points at one item's detail record. It only exists while a fetch
// pipeline is running and is never persisted.
type ItemRef struct {
	Name string
	URL  string
}

// rawListing is the upstream paginated listing shape.
type rawListing struct {
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

// rawDetail is the upstream per-item detail shape. Only the fields the
// normalizer reads are declared.
type rawDetail struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Stats []rawStat `json:"stats"`
}

type rawStat struct {
	BaseStat int `json:"base_stat"`
	Stat     struct {
		Name string `json:"name"`
	} `json:"stat"`
}

// normalize maps one raw detail record into the shared schema. Type and
// ability order is preserved as upstream reports it.
func normalize(raw rawDetail) Creature {
	types := make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		types = append(types, t.Type.Name)
	}
	abilities := make([]string, 0, len(raw.Abilities))
	for _, a := range raw.Abilities {
		abilities = append(abilities, a.Ability.Name)
	}
	return Creature{
		ID:        raw.ID,
		Name:      raw.Name,
		Types:     types,
		Abilities: abilities,
		Stats:     normalizeStats(raw.Stats),
		Locations: []string{},
	}
}

// normalizeStats finds each canonical category in the upstream stat list by
// name. A category with no matching entry stays 0.
func normalizeStats(entries []rawStat) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Stat.Name {
		case "hp":
			s.HP = e.BaseStat
		case "attack":
			s.Atk = e.BaseStat
		case "defense":
			s.Def = e.BaseStat
		case "special-attack":
			s.SpA = e.BaseStat
		case "special-defense":
			s.SpD = e.BaseStat
		case "speed":
			s.Spe = e.BaseStat
		}
	}
	return s
}

// decodeDetail parses and normalizes one detail body.
func decodeDetail(body []byte) (Creature, error) {
	var raw rawDetail
	if err := json.Unmarshal(body, &raw); err != nil {
		return Creature{}, err
	}
	return normalize(raw), nil
}
