// Package club serves the static team roster shown on the Teams page.
package club

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

type Member struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`
	Hostel string `json:"hostel,omitempty"`
	Photo  string `json:"photo,omitempty"`
}

type Team struct {
	Domain  string   `json:"domain"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Roster struct {
	Teams []Team `json:"teams"`
}

// LoadRoster reads the roster asset from disk. The roster is static data
// maintained alongside the code, not backend content.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "club: reading roster %s", path)
	}
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "club: parsing roster %s", path)
	}
	r.sortTeams()
	return &r, nil
}

// Domains groups the teams under their domain, in stable sorted order.
func (r *Roster) Domains() map[string][]Team {
	out := make(map[string][]Team)
	for _, t := range r.Teams {
		out[t.Domain] = append(out[t.Domain], t)
	}
	return out
}

func (r *Roster) sortTeams() {
	sort.SliceStable(r.Teams, func(i, j int) bool {
		if r.Teams[i].Domain != r.Teams[j].Domain {
			return r.Teams[i].Domain < r.Teams[j].Domain
		}
		return r.Teams[i].Name < r.Teams[j].Name
	})
	for _, t := range r.Teams {
		sort.SliceStable(t.Members, func(i, j int) bool { return t.Members[i].Name < t.Members[j].Name })
	}
}
