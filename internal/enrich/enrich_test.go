package enrich

import (
	"reflect"
	"testing"

	"github.com/crimson-sun/loglift/internal/model"
)

func TestLabelForEventType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", "No Category"},
		{"1", "Login failed"},
		{"2", "Login successful"},
		{"23", "Workspace Project"},
		{"30", "Excel Data Block Request"},
		{"31", "Excel Login Failure"},
		{"61", "Api Method"},
		{"29", "Unknown Event Type: 29"}, // gap in the vendor's table
		{"999", "Unknown Event Type: 999"},
		{"", "Unknown Event Type"},
		{"Login successful", "Login successful"}, // pass is idempotent
	}
	for _, tt := range tests {
		if got := labelForEventType(tt.raw); got != tt.want {
			t.Errorf("labelForEventType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestExtractComponent_KnownFormats(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        component
	}{
		{
			"full form with owner",
			"Segment updated Name=Paid Traffic Id=s300000022_abc123 Owner=jane@example.com",
			component{id: "s300000022_abc123", name: "Paid Traffic", owner: "jane@example.com"},
		},
		{
			"no owner",
			"Project created Name=Q1 Dashboard Id=wsp_9f8e7d",
			component{id: "wsp_9f8e7d", name: "Q1 Dashboard"},
		},
		{
			"name with equals-free punctuation",
			"Calculated metric deleted Name=Revenue / Visit Id=cm_001 Owner=ops",
			component{id: "cm_001", name: "Revenue / Visit", owner: "ops"},
		},
		{
			"no component info at all",
			"Successful login from 192.0.2.10",
			component{},
		},
		{
			"empty description",
			"",
			component{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractComponent(tt.description)
			if got != tt.want {
				t.Fatalf("extractComponent(%q) = %+v, want %+v", tt.description, got, tt.want)
			}
		})
	}
}

func TestEventsForDescription(t *testing.T) {
	tests := []struct {
		description string
		want        []string
	}{
		{"Successful login from 192.0.2.10", []string{"event30"}},
		{"LOGIN FAILED for admin", []string{"event31"}},
		{"Project created Name=X Id=Y", []string{"event1"}},
		{"Sharing segment with group", []string{"event9"}},
		{"Report suite settings changed", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := eventsForDescription(tt.description)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("eventsForDescription(%q) = %v, want %v", tt.description, got, tt.want)
		}
	}
}

func TestEventsForDescription_MultipleMatches(t *testing.T) {
	got := eventsForDescription("Classification upload after successful login")
	want := []string{"event26", "event30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected multiple codes %v, got %v", want, got)
	}
}

func TestEventTable_LoginSlots(t *testing.T) {
	// The report-suite contract fixes event30/event31 to the login phrases.
	byCode := map[string]string{}
	for _, ev := range analyticsEvents {
		byCode[ev.Code] = ev.Phrase
	}
	if byCode["event30"] != "successful login" {
		t.Fatalf("event30 = %q, want 'successful login'", byCode["event30"])
	}
	if byCode["event31"] != "login failed" {
		t.Fatalf("event31 = %q, want 'login failed'", byCode["event31"])
	}
	if len(analyticsEvents) != 32 {
		t.Fatalf("expected 32 event slots, got %d", len(analyticsEvents))
	}
}

func sampleEntries() []model.LogEntry {
	return []model.LogEntry{
		{DateCreated: "2022-02-01T10:00:00Z", EventType: "2", EventDescription: "Successful login from 192.0.2.10", Login: "alice@example.com"},
		{DateCreated: "2022-02-01T11:00:00Z", EventType: "24", EventDescription: "Segment updated Name=Paid Traffic Id=s1_abc Owner=bob", Login: "bob@example.com"},
		{DateCreated: "2022-02-01T12:00:00Z", EventType: "999", EventDescription: "something new", Login: "carol@example.com"},
	}
}

func TestApply_LengthAndOrderPreserved(t *testing.T) {
	for _, entries := range [][]model.LogEntry{nil, {}, sampleEntries()} {
		in := make([]model.LogEntry, len(entries))
		copy(in, entries)

		out := Apply(entries)
		if len(out) != len(in) {
			t.Fatalf("length changed: %d -> %d", len(in), len(out))
		}
		for i := range out {
			if out[i].DateCreated != in[i].DateCreated || out[i].Login != in[i].Login {
				t.Fatalf("entry %d identity changed: %+v vs %+v", i, out[i], in[i])
			}
		}
	}
}

func TestApply_DerivedFields(t *testing.T) {
	out := Apply(sampleEntries())

	if out[0].EventType != "Login successful" {
		t.Fatalf("unexpected label: %q", out[0].EventType)
	}
	if !reflect.DeepEqual(out[0].Events, []string{"event30"}) {
		t.Fatalf("unexpected events: %v", out[0].Events)
	}
	if out[0].ComponentID != "" || out[0].ComponentName != "" || out[0].ComponentOwner != "" {
		t.Fatalf("expected empty component fields, got %+v", out[0])
	}

	if out[1].ComponentID != "s1_abc" || out[1].ComponentName != "Paid Traffic" || out[1].ComponentOwner != "bob" {
		t.Fatalf("unexpected component fields: %+v", out[1])
	}
	if !reflect.DeepEqual(out[1].Events, []string{"event7"}) {
		t.Fatalf("unexpected events: %v", out[1].Events)
	}

	if out[2].EventType != "Unknown Event Type: 999" {
		t.Fatalf("unknown code must be flagged, got %q", out[2].EventType)
	}
	if len(out[2].Events) != 0 {
		t.Fatalf("expected empty event set, got %v", out[2].Events)
	}
}

func TestPasses_OrderInsensitive(t *testing.T) {
	a := sampleEntries()
	a = LabelEventTypes(a)
	a = ExtractComponents(a)
	a = MapEvents(a)

	b := sampleEntries()
	b = MapEvents(b)
	b = LabelEventTypes(b)
	b = ExtractComponents(b)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("pass order changed the result:\n%+v\nvs\n%+v", a, b)
	}
}
