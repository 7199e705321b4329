package enrich

import (
	"regexp"
	"strings"
)

// Audit descriptions embed component info as "Name=<name> Id=<id> Owner=<owner>";
// Owner is not always present. The named groups are the parsing contract —
// if the vendor drifts the description format, only this pattern changes.
var componentPattern = regexp.MustCompile(`Name=(?P<name>.*?)\sId=(?P<id>\S+)(?:\sOwner=(?P<owner>.*))?`)

var (
	nameIdx  = componentPattern.SubexpIndex("name")
	idIdx    = componentPattern.SubexpIndex("id")
	ownerIdx = componentPattern.SubexpIndex("owner")
)

// component holds the fields extracted from one description.
// All fields are empty when the description doesn't match.
type component struct {
	id    string
	name  string
	owner string
}

// extractComponent parses component info out of an event description.
// No match yields empty fields — never a "None" placeholder.
func extractComponent(description string) component {
	m := componentPattern.FindStringSubmatch(description)
	if m == nil {
		return component{}
	}
	return component{
		id:    strings.TrimSpace(m[idIdx]),
		name:  strings.TrimSpace(m[nameIdx]),
		owner: strings.TrimSpace(m[ownerIdx]),
	}
}
