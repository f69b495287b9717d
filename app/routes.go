package app

import (
	"errors"
	"net/http"

	"github.com/km-arc/go-modular/app/contracts"
	"github.com/km-arc/go-modular/app/models"
	"github.com/km-arc/go-modular/app/services"
	"github.com/km-arc/go-modular/framework/container"
	gohttp "github.com/km-arc/go-modular/framework/http"
	"github.com/km-arc/go-modular/framework/http/validation"
	"github.com/km-arc/go-modular/framework/routing"
)

// Routes mounts the ticket API. The ticket service is resolved per request,
// so the routes answer 503 when the module is not active.
func Routes(r *routing.Router, c *container.Container) error {
	h := &ticketHandler{c: c.Root()}
	r.Prefix("/tickets", func(r *routing.Router) {
		r.Get("/", h.list)
		r.Post("/", h.open)
		r.Get("/{id}", h.show)
		r.Post("/{id}/close", h.close)
	})
	return nil
}

type ticketHandler struct {
	c *container.Container
}

func (h *ticketHandler) service(w http.ResponseWriter) (contracts.TicketService, bool) {
	svc, err := container.Get[contracts.TicketService](h.c)
	switch {
	case errors.Is(err, container.ErrNoBinding) && !h.c.Bound(container.Key[contracts.TicketService]()):
		gohttp.NewResponse(w).ServiceUnavailable("ticket service is not enabled")
		return nil, false
	case err != nil:
		gohttp.NewResponse(w).Error(http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return svc, true
}

func (h *ticketHandler) list(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w)
	if !ok {
		return
	}
	tickets, err := svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	gohttp.NewResponse(w).Success(tickets)
}

func (h *ticketHandler) open(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w)
	if !ok {
		return
	}
	var in models.NewTicket
	if err := gohttp.Bind(r, &in); err != nil {
		gohttp.NewResponse(w).Error(http.StatusBadRequest, err.Error())
		return
	}
	t, err := svc.Open(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	gohttp.NewResponse(w).Created(t)
}

func (h *ticketHandler) show(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w)
	if !ok {
		return
	}
	t, err := svc.Get(r.Context(), routing.Param(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	gohttp.NewResponse(w).Success(t)
}

func (h *ticketHandler) close(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w)
	if !ok {
		return
	}
	t, err := svc.Close(r.Context(), routing.Param(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	gohttp.NewResponse(w).Success(t)
}

func writeError(w http.ResponseWriter, err error) {
	res := gohttp.NewResponse(w)
	var bag *validation.Errors
	switch {
	case errors.As(err, &bag):
		res.ValidationError(bag)
	case errors.Is(err, models.ErrInvalidTicket):
		res.Error(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrTicketNotFound):
		res.NotFound(err.Error())
	case errors.Is(err, services.ErrTicketClosed):
		res.Error(http.StatusConflict, err.Error())
	default:
		res.Error(http.StatusInternalServerError, err.Error())
	}
}
