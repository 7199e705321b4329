package model

// LogEntry is one usage/admin audit log record as returned by the vendor's
// auditlogs endpoint, plus the fields the enrichment passes derive from it.
//
// EventType arrives as a numeric code (encoded as a string) and is replaced
// in place by a human-readable label during enrichment. The component fields
// and Events are empty until enrichment runs; they stay empty when the
// description doesn't match anything, never a placeholder like "None".
type LogEntry struct {
	DateCreated      string `json:"dateCreated"`
	EventType        string `json:"eventType"`
	EventDescription string `json:"eventDescription"`
	Login            string `json:"login"`
	IPAddress        string `json:"ipAddress"`
	RSID             string `json:"rsid"`

	// Derived by enrichment.
	ComponentID    string   `json:"componentId"`
	ComponentName  string   `json:"componentName"`
	ComponentOwner string   `json:"componentOwner"`
	Events         []string `json:"events,omitempty"`
}
