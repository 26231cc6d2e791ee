package dto

import "github.com/helpdesk/chamados/internal/domain"

// Option is one entry of a template select control.
type Option struct {
	Value string
	Label string
}

// StatusOptions returns every ticket status as select options.
func StatusOptions() []Option {
	options := make([]Option, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		options = append(options, Option{Value: string(status), Label: status.Label()})
	}
	return options
}

// CategoryOptions returns every ticket category as select options.
func CategoryOptions() []Option {
	options := make([]Option, 0, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		options = append(options, Option{Value: string(category), Label: category.Label()})
	}
	return options
}

// PriorityOptions returns every ticket priority as select options.
func PriorityOptions() []Option {
	options := make([]Option, 0, len(domain.AllPriorities))
	for _, priority := range domain.AllPriorities {
		options = append(options, Option{Value: string(priority), Label: priority.Label()})
	}
	return options
}

// RoleOptions returns the account types offered on registration.
func RoleOptions() []Option {
	return []Option{
		{Value: string(domain.RoleRequester), Label: domain.RoleRequester.Label()},
		{Value: string(domain.RoleTechnician), Label: domain.RoleTechnician.Label()},
	}
}
