package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabels(t *testing.T) {
	tests := []struct {
		status TicketStatus
		label  string
	}{
		{StatusOpen, "Aberto"},
		{StatusInProgress, "Em andamento"},
		{StatusBlocked, "Com Bloqueio"},
		{StatusValidation, "Aguardando Validação"},
		{StatusMigrating, "Em migração"},
		{StatusDone, "Concluído"},
		{StatusDocsPending, "Documentação Pendente"},
	}
	for _, tt := range tests {
		assert.True(t, tt.status.Valid(), string(tt.status))
		assert.Equal(t, tt.label, tt.status.Label())
	}
	assert.Len(t, AllStatuses, len(tests))
}

func TestStatusInvalid(t *testing.T) {
	assert.False(t, TicketStatus("FECHADO").Valid())
	assert.Equal(t, "FECHADO", TicketStatus("FECHADO").Label())
}

func TestCategoryLabels(t *testing.T) {
	for _, category := range AllCategories {
		assert.True(t, category.Valid())
		assert.NotEmpty(t, category.Label())
	}
	assert.Equal(t, "Bug / Erro", CategoryBug.Label())
	assert.False(t, TicketCategory("OUTRA").Valid())
}

func TestPriorityLabels(t *testing.T) {
	for _, priority := range AllPriorities {
		assert.True(t, priority.Valid())
		assert.NotEmpty(t, priority.Label())
	}
	assert.False(t, TicketPriority("MAXIMA").Valid())
}

func TestRoleValidAndLabel(t *testing.T) {
	assert.True(t, RoleTechnician.Valid())
	assert.True(t, RoleRequester.Valid())
	assert.False(t, Role("GERENTE").Valid())

	assert.Equal(t, "Técnico", RoleTechnician.Label())
	assert.Equal(t, "Funcional", RoleRequester.Label())
}

func TestProfileIsTechnician(t *testing.T) {
	assert.True(t, (&Profile{Role: RoleTechnician}).IsTechnician())
	assert.False(t, (&Profile{Role: RoleRequester}).IsTechnician())
}

func TestAttachmentFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{10, "10.0 bytes"},
		{1023, "1023.0 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}
	for _, tt := range tests {
		attachment := &Attachment{SizeBytes: tt.bytes}
		assert.Equal(t, tt.want, attachment.FormatSize())
	}
}
