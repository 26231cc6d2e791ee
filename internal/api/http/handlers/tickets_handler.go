package handlers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk/chamados/internal/api/dto"
	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/flash"
	"github.com/helpdesk/chamados/internal/service"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

// TicketsHandler serves the dashboard, ticket form and detail pages.
type TicketsHandler struct {
	tickets *service.TicketService
	flashes *flash.Store
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, flashes *flash.Store, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, flashes: flashes, logger: logger}
}

// Dashboard handles GET /dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	filter := service.ListFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		Priority:     c.Query("prioridade"),
		RequesterID:  c.Query("solicitante"),
		TechnicianID: c.Query("tecnico"),
	}

	data, err := h.tickets.List(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}

	return c.Render("dashboard", fiber.Map{
		"Flashes":      h.flashes.PopAll(c),
		"Principal":    principal,
		"IsTechnician": principal.Profile.IsTechnician(),
		"Tickets":      data.Tickets,
		"Requesters":   data.Requesters,
		"Technicians":  data.Technicians,
		"Statuses":     dto.StatusOptions(),
		"Priorities":   dto.PriorityOptions(),
		"Filter":       filter,
	}, "layouts/main")
}

// ShowCreate handles GET /criar.
func (h *TicketsHandler) ShowCreate(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return c.Render("criar", fiber.Map{
		"Flashes":    h.flashes.PopAll(c),
		"Principal":  principal,
		"Categories": dto.CategoryOptions(),
		"Priorities": dto.PriorityOptions(),
	}, "layouts/main")
}

// Create handles POST /criar.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	var form dto.CreateTicketForm
	if err := c.BodyParser(&form); err != nil {
		h.flashes.Error(c, "Formulário inválido.")
		return c.Redirect("/criar", fiber.StatusSeeOther)
	}

	uploads, cleanup, err := h.collectUploads(c, "anexos")
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = h.tickets.Create(c.UserContext(), principal, service.CreateTicketInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Priority:    form.Priority,
	}, uploads)
	if err != nil {
		domainErr := errorutil.ToDomainError(err)
		if domainErr.Code == errorutil.CodeValidation || domainErr.Code == errorutil.CodeForbidden {
			h.flashes.Error(c, domainErr.Message)
			return c.Redirect("/criar", fiber.StatusSeeOther)
		}
		return err
	}

	h.flashes.Success(c, "Chamado criado com sucesso!")
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Detail handles GET /detalhes/:id.
func (h *TicketsHandler) Detail(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	detail, err := h.tickets.GetDetail(c.UserContext(), principal, int64(ticketID))
	if err != nil {
		return h.redirectOnTicketError(c, err, "/dashboard")
	}

	technicianValue := ""
	if detail.Ticket.TechnicianID != nil {
		technicianValue = strconv.FormatInt(*detail.Ticket.TechnicianID, 10)
	}

	return c.Render("detalhes", fiber.Map{
		"Flashes":        h.flashes.PopAll(c),
		"Principal":      principal,
		"IsTechnician":   principal.Profile.IsTechnician(),
		"Ticket":         detail.Ticket,
		"RequesterName":  detail.RequesterName,
		"TechnicianName": detail.TechnicianName,
		"History":        detail.History,
		"Attachments":    detail.Attachments,
		"Technicians":    detail.Technicians,
		"Statuses":       dto.StatusOptions(),
		"Categories":     dto.CategoryOptions(),
		"Priorities":     dto.PriorityOptions(),
		"TechnicianValue": technicianValue,
		"CanEditFields":   detail.Ticket.Status == domain.StatusOpen,
	}, "layouts/main")
}

// Update handles POST /detalhes/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	ticketID, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	detailPath := fmt.Sprintf("/detalhes/%d", ticketID)

	var form dto.UpdateTicketForm
	if err := c.BodyParser(&form); err != nil {
		h.flashes.Error(c, "Formulário inválido.")
		return c.Redirect(detailPath, fiber.StatusSeeOther)
	}

	input := service.UpdateTicketInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Priority:    form.Priority,
		Status:      form.Status,
		Technician:  h.technicianField(c),
	}

	uploads, cleanup, err := h.collectUploads(c, "novos_anexos")
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = h.tickets.Update(c.UserContext(), principal, int64(ticketID), input, uploads)
	if err != nil {
		domainErr := errorutil.ToDomainError(err)
		switch domainErr.Code {
		case errorutil.CodeForbidden:
			h.flashes.Error(c, domainErr.Message)
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		case errorutil.CodeValidation:
			h.flashes.Error(c, domainErr.Message)
			return c.Redirect(detailPath, fiber.StatusSeeOther)
		case errorutil.CodeNotFound:
			return h.redirectOnTicketError(c, err, "/dashboard")
		}
		return err
	}

	h.flashes.Success(c, "Chamado atualizado com sucesso!")
	return c.Redirect(detailPath, fiber.StatusSeeOther)
}

// DeleteAttachment handles POST /deletar-anexo/:chamadoID/:anexoID.
func (h *TicketsHandler) DeleteAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	ticketID, err := c.ParamsInt("chamadoID")
	if err != nil {
		return fiber.ErrNotFound
	}
	attachmentID, err := c.ParamsInt("anexoID")
	if err != nil {
		return fiber.ErrNotFound
	}
	detailPath := fmt.Sprintf("/detalhes/%d", ticketID)

	result, err := h.tickets.DeleteAttachment(c.UserContext(), principal, int64(ticketID), int64(attachmentID))
	if err != nil {
		domainErr := errorutil.ToDomainError(err)
		switch domainErr.Code {
		case errorutil.CodeForbidden:
			h.flashes.Error(c, domainErr.Message)
			return c.Redirect(detailPath, fiber.StatusSeeOther)
		case errorutil.CodeNotFound:
			h.flashes.Error(c, "Anexo não encontrado.")
			return c.Redirect(detailPath, fiber.StatusSeeOther)
		}
		return err
	}

	if result.StorageErr != nil {
		h.flashes.Warning(c, fmt.Sprintf("Anexo removido do sistema, mas arquivo físico não pode ser deletado: %v", result.StorageErr))
	}
	h.flashes.Success(c, fmt.Sprintf("Anexo \"%s\" deletado com sucesso!", result.OriginalName))
	return c.Redirect(detailPath, fiber.StatusSeeOther)
}

// technicianField reads the tecnico form value, keeping the distinction
// between an absent field (requester form) and an empty selection
// (clear assignment).
func (h *TicketsHandler) technicianField(c *fiber.Ctx) *string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	values, present := form.Value["tecnico"]
	if !present {
		return nil
	}
	value := ""
	if len(values) > 0 {
		value = values[0]
	}
	return &value
}

// collectUploads opens every uploaded file under the given multipart
// field. The returned cleanup closes the readers and must run after
// the service call consumed them.
func (h *TicketsHandler) collectUploads(c *fiber.Ctx, field string) ([]service.UploadInput, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, noop, nil
	}

	var (
		uploads []service.UploadInput
		closers []io.Closer
	)
	cleanup := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}
	for _, header := range form.File[field] {
		file, err := header.Open()
		if err != nil {
			cleanup()
			return nil, noop, errorutil.NewInternalError(err)
		}
		closers = append(closers, file)
		uploads = append(uploads, service.UploadInput{
			Filename: header.Filename,
			Content:  file,
		})
	}
	return uploads, cleanup, nil
}

func (h *TicketsHandler) redirectOnTicketError(c *fiber.Ctx, err error, fallback string) error {
	domainErr := errorutil.ToDomainError(err)
	switch domainErr.Code {
	case errorutil.CodeForbidden:
		h.flashes.Error(c, domainErr.Message)
		return c.Redirect(fallback, fiber.StatusSeeOther)
	case errorutil.CodeNotFound:
		h.flashes.Error(c, "Chamado não encontrado.")
		return c.Redirect(fallback, fiber.StatusSeeOther)
	}
	return err
}
