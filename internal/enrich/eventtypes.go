package enrich

import (
	"fmt"
	"strconv"
	"strings"
)

// eventTypeLabels maps the vendor's numeric audit event-type codes to
// descriptive labels. The table is fixed by the vendor's documentation;
// additions belong here, never derived at runtime.
var eventTypeLabels = map[int]string{
	0:  "No Category",
	1:  "Login failed",
	2:  "Login successful",
	3:  "Admin Action",
	4:  "Security setting change",
	5:  "Report viewed",
	6:  "Report downloaded",
	7:  "Alert sent",
	8:  "User Action",
	9:  "Tool viewed",
	10: "Adobe Action",
	11: "Password Recovery",
	12: "BookMarks",
	13: "Dashboards",
	14: "Alerts",
	15: "Calendar Events",
	16: "Targets",
	17: "Report Settings",
	18: "Scheduled Reports",
	19: "Exclude By IP",
	20: "Name Pages",
	21: "Classifications",
	22: "Data Sources",
	23: "Workspace Project",
	24: "Segment",
	25: "Calculated Metric",
	26: "Date Range",
	27: "Virtual Report Suite",
	28: "Contribution Analysis",
	30: "Excel Data Block Request",
	31: "Excel Login Failure",
	32: "Excel Login Success",
	41: "Mobile Login Failure",
	42: "Mobile Login Success",
	61: "Api Method",
}

// labelForEventType converts a numeric event-type code (as delivered on the
// wire) to its label. Unknown codes are flagged, not dropped, so they stay
// visible downstream.
func labelForEventType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown Event Type"
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		// Already a label (pass is idempotent) or garbage; keep as-is.
		return raw
	}
	if label, ok := eventTypeLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Unknown Event Type: %d", code)
}
