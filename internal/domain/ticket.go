package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusOpen        TicketStatus = "ABERTO"
	StatusInProgress  TicketStatus = "EM_ANDAMENTO"
	StatusBlocked     TicketStatus = "BLOQUEADO"
	StatusValidation  TicketStatus = "VALIDACAO"
	StatusMigrating   TicketStatus = "MIGRACAO"
	StatusDone        TicketStatus = "CONCLUIDO"
	StatusDocsPending TicketStatus = "DOC_PENDENTE"
)

var statusLabels = map[TicketStatus]string{
	StatusOpen:        "Aberto",
	StatusInProgress:  "Em andamento",
	StatusBlocked:     "Com Bloqueio",
	StatusValidation:  "Aguardando Validação",
	StatusMigrating:   "Em migração",
	StatusDone:        "Concluído",
	StatusDocsPending: "Documentação Pendente",
}

// AllStatuses lists statuses in display order for form selects.
var AllStatuses = []TicketStatus{
	StatusOpen,
	StatusInProgress,
	StatusBlocked,
	StatusValidation,
	StatusMigrating,
	StatusDone,
	StatusDocsPending,
}

func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display name of the status.
func (s TicketStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// TicketCategory enumerates the kind of work a ticket asks for.
type TicketCategory string

const (
	CategoryBug        TicketCategory = "BUG"
	CategoryNewFeature TicketCategory = "NOVA_IMPLEMENTACAO"
	CategoryChange     TicketCategory = "ALTERACAO"
	CategoryRefactor   TicketCategory = "REFATORACAO"
	CategoryDevOps     TicketCategory = "DEVOPS"
)

var categoryLabels = map[TicketCategory]string{
	CategoryBug:        "Bug / Erro",
	CategoryNewFeature: "Nova Implementação",
	CategoryChange:     "Alteração",
	CategoryRefactor:   "Refatoração",
	CategoryDevOps:     "DevOps / Infra",
}

// AllCategories lists categories in display order for form selects.
var AllCategories = []TicketCategory{
	CategoryBug,
	CategoryNewFeature,
	CategoryChange,
	CategoryRefactor,
	CategoryDevOps,
}

func (c TicketCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name of the category.
func (c TicketCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "BAIXA"
	PriorityMedium TicketPriority = "MEDIA"
	PriorityHigh   TicketPriority = "ALTA"
	PriorityUrgent TicketPriority = "URGENTE"
)

var priorityLabels = map[TicketPriority]string{
	PriorityLow:    "Baixa",
	PriorityMedium: "Média",
	PriorityHigh:   "Alta",
	PriorityUrgent: "Urgente",
}

// AllPriorities lists priorities in display order for form selects.
var AllPriorities = []TicketPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

func (p TicketPriority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Label returns the display name of the priority.
func (p TicketPriority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// Ticket is the central helpdesk entity ("chamado"). A ticket always
// belongs to the requester that opened it and optionally carries an
// assigned technician.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Category     TicketCategory
	Status       TicketStatus
	Priority     TicketPriority
	RequesterID  int64
	TechnicianID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
