package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(id int64, technology string, status catalogdomain.RatePlanStatus) catalogdomain.RatePlan {
	return catalogdomain.RatePlan{
		ID:         snowflake.ID(id),
		Name:       technology + " Plan",
		Technology: technology,
		Status:     status,
	}
}

func TestGroupByTechnology_PreservesEncounterOrder(t *testing.T) {
	plans := []catalogdomain.RatePlan{
		plan(1, "SAP", catalogdomain.RatePlanActive),
		plan(2, "Oracle", catalogdomain.RatePlanActive),
		plan(3, "SAP", catalogdomain.RatePlanActive),
		plan(4, "", catalogdomain.RatePlanActive),
		plan(5, "Workday", catalogdomain.RatePlanActive),
	}

	groups := GroupByTechnology(plans)

	require.Len(t, groups, 4)
	assert.Equal(t, "SAP", groups[0].Technology)
	assert.Equal(t, "Oracle", groups[1].Technology)
	assert.Equal(t, "Other", groups[2].Technology)
	assert.Equal(t, "Workday", groups[3].Technology)

	require.Len(t, groups[0].Plans, 2)
	assert.Equal(t, snowflake.ID(1), groups[0].Plans[0].ID)
	assert.Equal(t, snowflake.ID(3), groups[0].Plans[1].ID)
}

func TestGroupByTechnology_Empty(t *testing.T) {
	assert.Empty(t, GroupByTechnology(nil))
}

func TestSelectPlans_FiltersExpired(t *testing.T) {
	groups := GroupByTechnology([]catalogdomain.RatePlan{
		plan(1, "SAP", catalogdomain.RatePlanActive),
		plan(2, "SAP", catalogdomain.RatePlanExpired),
		plan(3, "SAP", catalogdomain.RatePlanActive),
	})

	selected := SelectPlans(groups, "SAP", false)
	require.Len(t, selected, 2)
	assert.Equal(t, snowflake.ID(1), selected[0].ID)
	assert.Equal(t, snowflake.ID(3), selected[1].ID)

	all := SelectPlans(groups, "SAP", true)
	assert.Len(t, all, 3)
}

func TestSelectPlans_CaseInsensitiveAndOtherFallback(t *testing.T) {
	groups := GroupByTechnology([]catalogdomain.RatePlan{
		plan(1, "SAP", catalogdomain.RatePlanActive),
		plan(2, "", catalogdomain.RatePlanActive),
	})

	assert.Len(t, SelectPlans(groups, "sap", false), 1)

	untagged := SelectPlans(groups, "", false)
	require.Len(t, untagged, 1)
	assert.Equal(t, snowflake.ID(2), untagged[0].ID)

	assert.Nil(t, SelectPlans(groups, "Mainframe", false))
}

func TestDefaultSelection(t *testing.T) {
	groups := GroupByTechnology([]catalogdomain.RatePlan{
		plan(1, "SAP", catalogdomain.RatePlanExpired),
		plan(2, "Oracle", catalogdomain.RatePlanActive),
	})

	// The first group is all expired; the default skips to the next one.
	technology, selected := DefaultSelection(groups, false)
	require.NotNil(t, selected)
	assert.Equal(t, "Oracle", technology)
	assert.Equal(t, snowflake.ID(2), selected.ID)

	technology, selected = DefaultSelection(groups, true)
	require.NotNil(t, selected)
	assert.Equal(t, "SAP", technology)
	assert.Equal(t, snowflake.ID(1), selected.ID)
}

func TestDefaultSelection_NothingSelectable(t *testing.T) {
	groups := GroupByTechnology([]catalogdomain.RatePlan{
		plan(1, "SAP", catalogdomain.RatePlanExpired),
	})

	technology, selected := DefaultSelection(groups, false)
	assert.Empty(t, technology)
	assert.Nil(t, selected)
}
