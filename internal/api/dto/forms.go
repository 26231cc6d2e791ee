package dto

// LoginForm is the credential form posted to /login.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm is the account creation form posted to /cadastro.
type RegisterForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Role            string `form:"tipo"`
}

// CreateTicketForm is the ticket creation form posted to /criar. File
// uploads travel separately in the multipart part named "anexos".
type CreateTicketForm struct {
	Title       string `form:"titulo"`
	Description string `form:"descricao"`
	Category    string `form:"categoria"`
	Priority    string `form:"prioridade"`
}

// UpdateTicketForm is the detail page form posted to /detalhes/:id.
// The technician field is handled outside the struct because absence
// and empty string mean different things there.
type UpdateTicketForm struct {
	Title       string `form:"titulo"`
	Description string `form:"descricao"`
	Category    string `form:"categoria"`
	Priority    string `form:"prioridade"`
	Status      string `form:"status"`
}
