package services

import (
	"sort"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// NameCount is one row of a tag or location frequency breakdown.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// VisibleStats is the derived statistics of the currently visible item
// subset. It is a pure function of (items, category, filters) and is
// recomputed in full on every relevant change; it carries no history.
type VisibleStats struct {
	Count     int         `json:"count"`
	Cost      float64     `json:"cost"`
	Tags      []NameCount `json:"tags"`
	Locations []NameCount `json:"locations"`
}

// ComputeVisibleStats scans the full item collection and accumulates count,
// cost sum, and tag/location frequency maps over the items passing the
// category and search filters. The tag and location lists are sorted by
// descending count; ties are broken by ascending name.
func ComputeVisibleStats(items []models.Item, category Category, filters []Filter) VisibleStats {
	stats := VisibleStats{
		Tags:      []NameCount{},
		Locations: []NameCount{},
	}

	tagCounts := newCounter()
	locationCounts := newCounter()

	for i := range items {
		if !Visible(&items[i], category, filters) {
			continue
		}
		stats.Count++
		stats.Cost += items[i].Cost
		for _, t := range items[i].Tags {
			tagCounts.add(t.Name)
		}
		for _, l := range items[i].Locations {
			locationCounts.add(l.Name)
		}
	}

	stats.Tags = tagCounts.sorted()
	stats.Locations = locationCounts.sorted()
	return stats
}

// counter accumulates name frequencies while remembering first-encounter
// order, so that conversion to a sorted list is deterministic.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) sorted() []NameCount {
	rows := make([]NameCount, 0, len(c.order))
	for _, name := range c.order {
		rows = append(rows, NameCount{Name: name, Count: c.counts[name]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// NameMetric is one row of the inventory report: how many items carry the
// name and what those items cost in total.
type NameMetric struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// InventoryReport is the whole-collection statistics shown on the stats
// page: counts and cost sums split by category, plus per-tag and
// per-location breakdowns over all items regardless of category.
type InventoryReport struct {
	ActiveCount   int          `json:"active_count"`
	ActiveCost    float64      `json:"active_cost"`
	ArchivedCount int          `json:"archived_count"`
	ArchivedCost  float64      `json:"archived_cost"`
	Tags          []NameMetric `json:"tags"`
	Locations     []NameMetric `json:"locations"`
}

// ComputeInventoryReport aggregates the full item collection against the
// user's reference tag and location sets. Reference names with no items are
// included as zero rows so the report always covers the whole vocabulary.
// Rows are sorted by descending count, ties by ascending name.
func ComputeInventoryReport(items []models.Item, tags []models.Tag, locations []models.Location) InventoryReport {
	report := InventoryReport{
		Tags:      []NameMetric{},
		Locations: []NameMetric{},
	}

	tagRows := make(map[string]*NameMetric, len(tags))
	tagOrder := make([]string, 0, len(tags))
	for _, t := range tags {
		tagRows[t.Name] = &NameMetric{Name: t.Name}
		tagOrder = append(tagOrder, t.Name)
	}
	locationRows := make(map[string]*NameMetric, len(locations))
	locationOrder := make([]string, 0, len(locations))
	for _, l := range locations {
		locationRows[l.Name] = &NameMetric{Name: l.Name}
		locationOrder = append(locationOrder, l.Name)
	}

	for i := range items {
		item := &items[i]
		if item.IsActive {
			report.ActiveCount++
			report.ActiveCost += item.Cost
		} else {
			report.ArchivedCount++
			report.ArchivedCost += item.Cost
		}
		for _, t := range item.Tags {
			row, ok := tagRows[t.Name]
			if !ok {
				row = &NameMetric{Name: t.Name}
				tagRows[t.Name] = row
				tagOrder = append(tagOrder, t.Name)
			}
			row.Count++
			row.Cost += item.Cost
		}
		for _, l := range item.Locations {
			row, ok := locationRows[l.Name]
			if !ok {
				row = &NameMetric{Name: l.Name}
				locationRows[l.Name] = row
				locationOrder = append(locationOrder, l.Name)
			}
			row.Count++
			row.Cost += item.Cost
		}
	}

	for _, name := range tagOrder {
		report.Tags = append(report.Tags, *tagRows[name])
	}
	for _, name := range locationOrder {
		report.Locations = append(report.Locations, *locationRows[name])
	}
	sortMetrics(report.Tags)
	sortMetrics(report.Locations)
	return report
}

func sortMetrics(rows []NameMetric) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
}
