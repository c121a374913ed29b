package service

import (
	"strings"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/pricing/domain"
)

// GroupByTechnology buckets rate plans by their technology tag, preserving
// catalog encounter order for both groups and plans. Untagged plans fall into
// the "Other" group.
func GroupByTechnology(plans []catalogdomain.RatePlan) []domain.TechnologyGroup {
	groups := make([]domain.TechnologyGroup, 0, len(plans))
	index := make(map[string]int, len(plans))

	for _, plan := range plans {
		key := plan.TechnologyGroup()
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, domain.TechnologyGroup{Technology: key})
		}
		groups[pos].Plans = append(groups[pos].Plans, plan)
	}

	return groups
}

// SelectPlans returns the plans of the requested technology. Expired plans are
// excluded unless includeExpired is set; the caller may still present them as
// disabled entries from the grouped view.
func SelectPlans(groups []domain.TechnologyGroup, technology string, includeExpired bool) []catalogdomain.RatePlan {
	technology = strings.TrimSpace(technology)
	if technology == "" {
		technology = catalogdomain.TechnologyOther
	}

	for _, group := range groups {
		if !strings.EqualFold(group.Technology, technology) {
			continue
		}
		if includeExpired {
			return group.Plans
		}
		selected := make([]catalogdomain.RatePlan, 0, len(group.Plans))
		for _, plan := range group.Plans {
			if plan.Status == catalogdomain.RatePlanExpired {
				continue
			}
			selected = append(selected, plan)
		}
		return selected
	}

	return nil
}

// DefaultSelection returns the first plan of the first technology group, the
// initial state a configuration session starts from.
func DefaultSelection(groups []domain.TechnologyGroup, includeExpired bool) (string, *catalogdomain.RatePlan) {
	for _, group := range groups {
		plans := SelectPlans(groups, group.Technology, includeExpired)
		if len(plans) == 0 {
			continue
		}
		plan := plans[0]
		return group.Technology, &plan
	}
	return "", nil
}
