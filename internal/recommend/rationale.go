package recommend

import (
	"strings"

	"github.com/alexanderramin/haven/internal/domain"
)

const (
	rationaleSafety   = "Your safety comes first. These resources can connect you with someone who can help right now."
	rationaleModerate = "These recommendations focus on immediate relief techniques to help you feel steadier right now."
	rationaleDefault  = "A balanced selection to support your overall wellbeing."

	rationaleMaxAreas = 3
)

// Rationale explains a recommendation list from its crisis level and the
// leading focus areas.
func Rationale(level domain.RiskLevel, focusAreas []string) string {
	switch {
	case level.RequiresImmediateAction():
		return rationaleSafety
	case level == domain.RiskModerate:
		return rationaleModerate
	case len(focusAreas) == 0:
		return rationaleDefault
	}
	areas := focusAreas
	if len(areas) > rationaleMaxAreas {
		areas = areas[:rationaleMaxAreas]
	}
	return "Selected to support your focus on " + joinAreas(areas) + "."
}

func joinAreas(areas []string) string {
	if len(areas) == 1 {
		return areas[0]
	}
	return strings.Join(areas[:len(areas)-1], ", ") + " and " + areas[len(areas)-1]
}
