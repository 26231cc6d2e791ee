package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk/chamados/internal/domain"
)

func TestBuildListQueryNoFilter(t *testing.T) {
	query, args := buildListQuery(TicketFilter{})

	assert.Contains(t, query, "JOIN accounts req ON req.id = t.requester_id")
	assert.Contains(t, query, "LEFT JOIN accounts tech ON tech.id = t.technician_id")
	assert.True(t, strings.HasSuffix(query, "ORDER BY t.created_at DESC"))
	assert.Empty(t, args)
}

func TestBuildListQueryAllFilters(t *testing.T) {
	requesterID := int64(3)
	search := "  Relatório  "
	status := domain.StatusBlocked
	priority := domain.PriorityHigh
	technicianID := int64(9)

	query, args := buildListQuery(TicketFilter{
		RequesterID:  &requesterID,
		TitleSearch:  &search,
		Status:       &status,
		Priority:     &priority,
		TechnicianID: &technicianID,
	})

	assert.Contains(t, query, "t.requester_id=$1")
	assert.Contains(t, query, "LOWER(t.title) LIKE $2")
	assert.Contains(t, query, "t.status=$3")
	assert.Contains(t, query, "t.priority=$4")
	assert.Contains(t, query, "t.technician_id=$5")
	assert.Equal(t, []any{requesterID, "%relatório%", status, priority, technicianID}, args)
}

func TestBuildListQueryUnassignedWinsOverTechnician(t *testing.T) {
	technicianID := int64(9)

	query, args := buildListQuery(TicketFilter{
		Unassigned:   true,
		TechnicianID: &technicianID,
	})

	assert.Contains(t, query, "t.technician_id IS NULL")
	assert.NotContains(t, query, "t.technician_id=$")
	assert.Empty(t, args)
}

func TestBuildListQueryBlankSearchIgnored(t *testing.T) {
	search := "   "

	query, args := buildListQuery(TicketFilter{TitleSearch: &search})

	assert.NotContains(t, query, "LIKE")
	assert.Empty(t, args)
}
