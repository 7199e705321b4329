package loglift

import "github.com/crimson-sun/loglift/internal/model"

// Entry is one enriched usage audit log entry.
type Entry struct {
	DateCreated      string
	EventType        string
	EventDescription string
	Login            string
	IPAddress        string
	RSID             string

	// Derived by enrichment.
	ComponentID    string
	ComponentName  string
	ComponentOwner string
	Events         []string
}

// Filters are optional server-side query constraints. Empty fields are
// omitted from the request.
type Filters struct {
	Login     string
	IP        string
	RSID      string
	EventType string
	Event     string
}

func entryFromModel(e model.LogEntry) Entry {
	return Entry{
		DateCreated:      e.DateCreated,
		EventType:        e.EventType,
		EventDescription: e.EventDescription,
		Login:            e.Login,
		IPAddress:        e.IPAddress,
		RSID:             e.RSID,
		ComponentID:      e.ComponentID,
		ComponentName:    e.ComponentName,
		ComponentOwner:   e.ComponentOwner,
		Events:           e.Events,
	}
}

func entriesFromModel(entries []model.LogEntry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = entryFromModel(e)
	}
	return out
}
