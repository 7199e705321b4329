package enrich

import "strings"

// analyticsEvent binds one of the report suite's 32 fixed event slots to
// the description phrase that populates it. The slice order is the slot
// order, which keeps matching deterministic.
type analyticsEvent struct {
	Code   string
	Phrase string
}

// analyticsEvents is the fixed description-to-event mapping for the usage
// report suite. Phrases are matched case-insensitively as substrings of
// the event description; one description can hit several slots.
var analyticsEvents = []analyticsEvent{
	{"event1", "project created"},
	{"event2", "project viewed"},
	{"event3", "project updated"},
	{"event4", "project deleted"},
	{"event5", "sharing project"},
	{"event6", "segment created"},
	{"event7", "segment updated"},
	{"event8", "segment deleted"},
	{"event9", "sharing segment"},
	{"event10", "calculated metric created"},
	{"event11", "calculated metric updated"},
	{"event12", "calculated metric deleted"},
	{"event13", "sharing calculated metric"},
	{"event14", "date range created"},
	{"event15", "date range updated"},
	{"event16", "date range deleted"},
	{"event17", "sharing date range"},
	{"event18", "virtual report suite created"},
	{"event19", "virtual report suite updated"},
	{"event20", "virtual report suite deleted"},
	{"event21", "alert created"},
	{"event22", "alert updated"},
	{"event23", "alert deleted"},
	{"event24", "sharing alert"},
	{"event25", "delivered alert"},
	{"event26", "classification"},
	{"event27", "viewed permissions"},
	{"event28", "viewed company"},
	{"event29", "viewed logs"},
	{"event30", "successful login"},
	{"event31", "login failed"},
	{"event32", "api operation"},
}

// eventsForDescription returns every event code whose phrase appears in the
// description. An empty result is expected for most entries, not an error.
func eventsForDescription(description string) []string {
	lower := strings.ToLower(description)
	var codes []string
	for _, ev := range analyticsEvents {
		if strings.Contains(lower, ev.Phrase) {
			codes = append(codes, ev.Code)
		}
	}
	return codes
}
