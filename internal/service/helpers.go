package service

import (
	"fmt"

	"github.com/alexanderramin/goalplan/internal/domain"
	"github.com/alexanderramin/goalplan/internal/scheduler"
)

func userTurn(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleUser, Content: text}
}

func assistantTurn(text string) domain.Turn {
	return domain.Turn{Role: domain.RoleAssistant, Content: text}
}

// PlanWarnings describes the ways a built plan degraded from what was asked.
func PlanWarnings(p scheduler.Plan) []string {
	var warnings []string
	if p.UsedFallback {
		warnings = append(warnings, fmt.Sprintf("no preferred days were set; scheduled on %s", p.Days))
	}
	if n := p.Shortfall(); n > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"only %d of %d requested sessions fit on %s before %s",
			len(p.Slots), p.Requested, p.Days, p.Target.Format(domain.DateLayout)))
	}
	return warnings
}
