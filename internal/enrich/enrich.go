// Package enrich derives human-readable fields on fetched audit log
// entries: event-type labels, component info parsed out of descriptions,
// and the analytics event codes each entry should populate.
//
// Each pass mutates only its own target fields and preserves the length
// and order of the collection, so the passes can run in any order.
package enrich

import "github.com/crimson-sun/loglift/internal/model"

// LabelEventTypes replaces each entry's numeric event-type code with its
// descriptive label. Unknown codes become "Unknown Event Type: N".
func LabelEventTypes(entries []model.LogEntry) []model.LogEntry {
	for i := range entries {
		entries[i].EventType = labelForEventType(entries[i].EventType)
	}
	return entries
}

// ExtractComponents parses component id/name/owner out of each entry's
// description. Entries whose description doesn't match get empty strings.
func ExtractComponents(entries []model.LogEntry) []model.LogEntry {
	for i := range entries {
		c := extractComponent(entries[i].EventDescription)
		entries[i].ComponentID = c.id
		entries[i].ComponentName = c.name
		entries[i].ComponentOwner = c.owner
	}
	return entries
}

// MapEvents assigns each entry the analytics event codes whose phrases
// appear in its description. Entries matching nothing keep an empty set.
func MapEvents(entries []model.LogEntry) []model.LogEntry {
	for i := range entries {
		entries[i].Events = eventsForDescription(entries[i].EventDescription)
	}
	return entries
}

// Apply runs all three enrichment passes.
func Apply(entries []model.LogEntry) []model.LogEntry {
	entries = LabelEventTypes(entries)
	entries = ExtractComponents(entries)
	entries = MapEvents(entries)
	return entries
}
