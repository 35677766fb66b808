package dedup

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/model"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Hamilton (Touring)":              "hamilton",
		"  Taylor Swift | The Eras Tour ": "taylor swift the eras tour",
		"AC/DC: Power-Up!":                "acdc powerup",
		"(Postponed)":                     "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDedupeKeepsPricedRecord(t *testing.T) {
	priced := &model.CanonicalEvent{
		ID: "sg_1", Name: "Hamilton (Touring)", Venue: "Majestic Theatre",
		Date: day(2026, 3, 15, 19), PriceLow: model.Float64Ptr(120), PriceHigh: model.Float64Ptr(300),
		Source: "seatgeek",
	}
	unpriced := &model.CanonicalEvent{
		ID: "eb_1", Name: "Hamilton", Venue: "Majestic Theatre",
		Date: day(2026, 3, 15, 19), Source: "eventbrite",
	}

	kept, dropped := New(nil).Dedupe([]*model.CanonicalEvent{unpriced, priced})
	if len(kept) != 1 || dropped != 1 {
		t.Fatalf("kept %d dropped %d, want 1/1", len(kept), dropped)
	}
	if kept[0].ID != "sg_1" {
		t.Errorf("kept %s, want the priced record", kept[0].ID)
	}
}

func TestCrossDayNeverMerges(t *testing.T) {
	a := &model.CanonicalEvent{ID: "tm_1", Name: "Hamilton", Venue: "Majestic Theatre", Date: day(2026, 3, 15, 19)}
	b := &model.CanonicalEvent{ID: "tm_2", Name: "Hamilton", Venue: "Majestic Theatre", Date: day(2026, 3, 16, 19)}
	if New(nil).AreDuplicates(a, b) {
		t.Fatal("events on different days must not merge")
	}
}

func TestAreDuplicates(t *testing.T) {
	d := New(nil)
	date := day(2026, 7, 4, 20)
	tests := []struct {
		name         string
		nameA, nameB string
		venA, venB   string
		want         bool
	}{
		{"same venue substring", "Coldplay", "Coldplay: Music of the Spheres", "Soldier Field", "Soldier Field", true},
		{"similar venue names", "Coldplay Live", "Coldplay Tour", "Soldier Field Stadium", "Soldier Field", true},
		{"unknown venues need near-identical names", "Coldplay", "Coldplay: Music of the Spheres", model.UnknownVenue, model.UnknownVenue, false},
		{"unknown venues identical names", "Coldplay!", "coldplay", model.UnknownVenue, "", true},
		{"different venues different acts", "Coldplay", "Metallica", "Soldier Field", "Wrigley Field", false},
		{"empty names never substring match", "(TBA)", "Coldplay", "Soldier Field", "Soldier Field", false},
		{"non-latin names at different venues", "周杰伦演唱会", "ミュージカル", "Soldier Field", "Majestic Theatre", false},
		{"non-latin names at same venue", "周杰伦演唱会", "ミュージカル", "Soldier Field", "Soldier Field", false},
		{"parenthetical-only names", "(Rescheduled)", "(TBA)", model.UnknownVenue, model.UnknownVenue, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &model.CanonicalEvent{Name: tt.nameA, Venue: tt.venA, Date: date}
			b := &model.CanonicalEvent{Name: tt.nameB, Venue: tt.venB, Date: date}
			if got := d.AreDuplicates(a, b); got != tt.want {
				t.Errorf("AreDuplicates = %v, want %v", got, tt.want)
			}
			if got := d.AreDuplicates(b, a); got != tt.want {
				t.Errorf("AreDuplicates (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupeKeepsEventsWithEmptyNormalizedNames(t *testing.T) {
	date := day(2026, 3, 15, 20)
	events := []*model.CanonicalEvent{
		{ID: "tm_1", Name: "周杰伦演唱会", Venue: "Soldier Field", Date: date},
		{ID: "sg_2", Name: "ミュージカル", Venue: "Majestic Theatre", Date: date},
	}
	kept, dropped := New(nil).Dedupe(events)
	if len(kept) != 2 || dropped != 0 {
		t.Fatalf("kept=%d dropped=%d, want 2/0", len(kept), dropped)
	}
}

func TestDedupePermutationInvariant(t *testing.T) {
	date := day(2026, 5, 2, 20)
	events := []*model.CanonicalEvent{
		{ID: "tm_a", Name: "Wicked", Venue: "Gershwin Theatre", Date: date, Source: "ticketmaster", PriceLow: model.Float64Ptr(99)},
		{ID: "sg_a", Name: "Wicked", Venue: "Gershwin Theatre", Date: date, Source: "seatgeek", PriceLow: model.Float64Ptr(89)},
		{ID: "eb_a", Name: "Wicked (Broadway)", Venue: "Gershwin Theatre", Date: date, Source: "eventbrite"},
		{ID: "tm_b", Name: "Wicked", Venue: "Gershwin Theatre", Date: date.Add(24 * time.Hour), Source: "ticketmaster"},
		{ID: "eb_b", Name: "Wicked", Venue: "Gershwin Theatre", Date: date.Add(24 * time.Hour), Source: "eventbrite"},
		{ID: "sg_c", Name: "Knicks vs Celtics", Venue: "Madison Square Garden", Date: date, Source: "seatgeek"},
	}

	d := New(nil)
	want := keptIDs(d, events)
	if len(want) != 3 {
		t.Fatalf("kept %v, want 3 representatives", want)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]*model.CanonicalEvent(nil), events...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := keptIDs(d, shuffled)
		if len(got) != len(want) {
			t.Fatalf("permutation %d kept %v, want %v", i, got, want)
		}
		for j := range got {
			if got[j] != want[j] {
				t.Fatalf("permutation %d kept %v, want %v", i, got, want)
			}
		}
	}
}

func TestRankOrder(t *testing.T) {
	events := []*model.CanonicalEvent{
		{ID: "eb_1", Source: "eventbrite"},
		{ID: "tm_1", Source: "ticketmaster (Est.)"},
		{ID: "sg_2", Source: "seatgeek"},
		{ID: "sg_1", Source: "seatgeek"},
		{ID: "eb_2", Source: "eventbrite", PriceLow: model.Float64Ptr(10)},
	}
	ranked := Rank(events)
	want := []string{"eb_2", "sg_1", "sg_2", "tm_1", "eb_1"}
	for i, e := range ranked {
		if e.ID != want[i] {
			t.Fatalf("rank[%d] = %s, want %s", i, e.ID, want[i])
		}
	}
	if events[0].ID != "eb_1" {
		t.Error("Rank must not reorder its input")
	}
}

func TestSequenceRatio(t *testing.T) {
	r := SequenceRatio{}
	if got := r.Ratio("abcd", "abcd"); got != 1 {
		t.Errorf("identical ratio = %v", got)
	}
	if got := r.Ratio("abcd", "bcde"); got != 0.75 {
		t.Errorf("Ratio(abcd, bcde) = %v, want 0.75", got)
	}
	if got := r.Ratio("abc", ""); got != 0 {
		t.Errorf("Ratio with empty = %v, want 0", got)
	}
}

func keptIDs(d *Deduper, events []*model.CanonicalEvent) []string {
	kept, _ := d.Dedupe(events)
	ids := make([]string, 0, len(kept))
	for _, e := range kept {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}
