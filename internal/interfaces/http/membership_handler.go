package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/query"
	"github.com/jhoicas/gncci-portal/internal/domain"
)

// ReceiptRenderer genera el PDF de un recibo de pago.
type ReceiptRenderer interface {
	Render(ctx context.Context, r dto.ReceiptData) ([]byte, error)
}

// MembershipHandler membresías, pagos y recibos.
type MembershipHandler struct {
	receipts ReceiptRenderer
}

// NewMembershipHandler construye el handler. Sin renderer el recibo responde 503.
func NewMembershipHandler(receipts ReceiptRenderer) *MembershipHandler {
	return &MembershipHandler{receipts: receipts}
}

// Get godoc
// @Summary      Membresía con su historial de pagos
// @Tags         memberships
// @Produce      json
// @Param        id   path  string  true  "ID de la membresía"
// @Success      200  {object}  dto.MembershipDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/memberships/{id} [get]
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	uc := GetSession(c).Portal.Memberships
	ms := uc.Get(c.UserContext(), id)
	if ms.Status == query.Failed {
		return writeError(c, ms.Err)
	}
	if ms.Data == nil {
		return writeError(c, domain.ErrNotFound)
	}
	pays := uc.Payments(c.UserContext(), id)
	if pays.Status == query.Failed {
		return writeError(c, pays.Err)
	}
	return c.JSON(dto.MembershipDetailsResponse{Membership: ms.Data, Payments: dto.NewList(pays.Data).Items})
}

// Update cambia estado, fechas o cuota (admin).
// PATCH /api/admin/memberships/:id
func (h *MembershipHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMembershipRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Memberships.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar un pago manual
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la membresía"
// @Param        body  body  dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  entity.PaymentRecord
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/memberships/{id}/payments [post]
func (h *MembershipHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := GetSession(c).Portal.Memberships.RecordPayment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de un pago
// @Tags         memberships
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/receipt [get]
func (h *MembershipHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return writeError(c, domain.ErrMissingConfig)
	}
	data, err := GetSession(c).Portal.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.receipts.Render(c.UserContext(), data)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="receipt-`+data.Payment.ID+`.pdf"`)
	return c.Send(pdf)
}
