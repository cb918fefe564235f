package domain

import "sort"

// Venue describes one DEX program monitored by the scanner.
type Venue struct {
	ProgramID string // base58 program address
	Name      string // human-readable venue name
}

// VenueTable maps program IDs to venues. It is passed explicitly into the
// extractor rather than held as process-wide state so tests can supply
// synthetic tables.
type VenueTable map[string]Venue

// NewVenueTable builds a table from a list of venues.
func NewVenueTable(venues []Venue) VenueTable {
	t := make(VenueTable, len(venues))
	for _, v := range venues {
		t[v.ProgramID] = v
	}
	return t
}

// Lookup returns the venue for a program ID.
func (t VenueTable) Lookup(programID string) (Venue, bool) {
	v, ok := t[programID]
	return v, ok
}

// Venues returns all venues in the table, sorted by name for deterministic
// iteration.
func (t VenueTable) Venues() []Venue {
	venues := make([]Venue, 0, len(t))
	for _, v := range t {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].Name < venues[j].Name })
	return venues
}

// ProgramIDs returns all program IDs in the table, in unspecified order.
func (t VenueTable) ProgramIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	return ids
}
