package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"butterfly-survey/internal/model"
)

// Name substrings marking regionally notable checklist entries.
var notableSubstrings = []string{"chitral", "chitrali"}

// SummarizeChecklist runs every Stage-3 aggregation over the cleaned
// table. Like Stage 2, these are independent read-only passes with no
// feedback into the observation table.
func SummarizeChecklist(obs []model.Observation) model.ChecklistSummary {
	checklist := BuildChecklist(obs)
	return model.ChecklistSummary{
		Checklist: checklist,
		Phenology: BuildPhenology(obs),
		Families:  SummarizeFamilies(obs),
		Notable:   NotableEntries(checklist),
	}
}

// BuildChecklist reduces observations to one row per species using the
// earliest observation as the representative record. A date tie is
// broken by input row order, so identical input reproduces an identical
// checklist. IDs are dense 1..N in {Family, ScientificName} sort order
// and drive the deterministic photo filename.
func BuildChecklist(obs []model.Observation) []model.ChecklistEntry {
	first := make(map[string]model.Observation)
	counts := make(map[string]int)

	for _, o := range obs {
		counts[o.ScientificName]++
		cur, ok := first[o.ScientificName]
		if !ok || o.Date.Before(cur.Date) || (o.Date.Equal(cur.Date) && o.Row < cur.Row) {
			first[o.ScientificName] = o
		}
	}

	entries := make([]model.ChecklistEntry, 0, len(first))
	for name, o := range first {
		entries = append(entries, model.ChecklistEntry{
			ScientificName: name,
			EnglishName:    o.EnglishName,
			Family:         o.Family,
			FirstDate:      o.Date,
			Latitude:       o.Latitude,
			Longitude:      o.Longitude,
			Elevation:      o.Elevation,
			Observations:   counts[name],
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Family != entries[j].Family {
			return entries[i].Family < entries[j].Family
		}
		return entries[i].ScientificName < entries[j].ScientificName
	})
	for i := range entries {
		entries[i].ID = i + 1
		entries[i].PhotoFile = fmt.Sprintf("species_%02d.jpg", i+1)
	}
	return entries
}

// BuildPhenology computes first/last active month and the count of
// distinct recorded months per species, sorted by scientific name.
func BuildPhenology(obs []model.Observation) []model.Phenology {
	type acc struct {
		english string
		months  map[int]bool
	}
	groups := make(map[string]*acc)

	for _, o := range obs {
		g, ok := groups[o.ScientificName]
		if !ok {
			g = &acc{english: o.EnglishName, months: make(map[int]bool)}
			groups[o.ScientificName] = g
		}
		g.months[o.Month] = true
	}

	results := make([]model.Phenology, 0, len(groups))
	for name, g := range groups {
		p := model.Phenology{
			ScientificName: name,
			EnglishName:    g.english,
			MonthsActive:   len(g.months),
		}
		for m := range g.months {
			if p.FirstMonth == 0 || m < p.FirstMonth {
				p.FirstMonth = m
			}
			if m > p.LastMonth {
				p.LastMonth = m
			}
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ScientificName < results[j].ScientificName
	})
	return results
}

// SummarizeFamilies computes species and observation counts per family
// with percentages of total species. A family absent from the table
// simply does not appear; zero totals yield zero percentages, not a
// division crash.
func SummarizeFamilies(obs []model.Observation) []model.FamilySummary {
	species := make(map[string]map[string]bool)
	counts := make(map[string]int)

	for _, o := range obs {
		if species[o.Family] == nil {
			species[o.Family] = make(map[string]bool)
		}
		species[o.Family][o.ScientificName] = true
		counts[o.Family]++
	}

	totalSpecies := 0
	for _, s := range species {
		totalSpecies += len(s)
	}

	results := make([]model.FamilySummary, 0, len(species))
	for family, s := range species {
		f := model.FamilySummary{
			Family:       family,
			Species:      len(s),
			Observations: counts[family],
		}
		if totalSpecies > 0 {
			f.PercentSpecies = float64(len(s)) / float64(totalSpecies) * 100
		}
		results = append(results, f)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Species != results[j].Species {
			return results[i].Species > results[j].Species
		}
		return results[i].Family < results[j].Family
	})
	return results
}

// NotableEntries filters the checklist for regionally notable names
// (case-insensitive substring match on scientific or English name).
func NotableEntries(checklist []model.ChecklistEntry) []model.ChecklistEntry {
	var notable []model.ChecklistEntry
	for _, e := range checklist {
		sci := strings.ToLower(e.ScientificName)
		eng := strings.ToLower(e.EnglishName)
		for _, sub := range notableSubstrings {
			if strings.Contains(sci, sub) || strings.Contains(eng, sub) {
				notable = append(notable, e)
				break
			}
		}
	}
	return notable
}
