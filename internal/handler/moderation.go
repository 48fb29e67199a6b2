package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/middleware"
	"github.com/ravelor/dealer-inventory/internal/moderation"
	"github.com/ravelor/dealer-inventory/internal/repository"
)

// pendingPath is where every moderation outcome redirects.
const pendingPath = "/inv/pending"

// ModerationHandler exposes the pending-review workflow. Routes using it
// sit behind the admin role gate.
type ModerationHandler struct {
	Workflow *moderation.Service
	Notices  *flash.Store
}

func NewModerationHandler(workflow *moderation.Service, notices *flash.Store) *ModerationHandler {
	if workflow == nil {
		panic("nil workflow passed to NewModerationHandler")
	}
	return &ModerationHandler{Workflow: workflow, Notices: notices}
}

// Pending lists the records awaiting review, both slices ordered ascending
// by id.
func (h *ModerationHandler) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	items, classes, err := h.Workflow.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":           "Pending Approval",
		"inventory":       items,
		"classifications": classes,
		"notices":         h.Notices.Pop(c),
	})
}

// decision validates the :action path parameter against the closed action
// set. Unknown actions bounce back to the pending view with a notice and
// change no state.
func (h *ModerationHandler) decision(c echo.Context) (moderation.Decision, bool) {
	d, err := moderation.ParseDecision(c.Param("action"))
	if err != nil {
		h.Notices.Add(c, "Invalid action.")
		return "", false
	}
	return d, true
}

// ResolveInventory approves or rejects one pending vehicle.
func (h *ModerationHandler) ResolveInventory(c echo.Context) error {
	d, ok := h.decision(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, pendingPath)
	}
	var req struct {
		InvID uint64 `json:"inv_id" form:"inv_id"`
	}
	if err := c.Bind(&req); err != nil || req.InvID == 0 {
		h.Notices.Add(c, "Sorry, the approval failed.")
		return c.Redirect(http.StatusSeeOther, pendingPath)
	}
	ident, _ := middleware.IdentityFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item, err := h.Workflow.ResolveInventory(ctx, req.InvID, ident.AccountID, d)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Notices.Add(c, "Sorry, the approval failed.")
			return c.Redirect(http.StatusSeeOther, pendingPath)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Notices.Add(c, fmt.Sprintf("The inventory %s %s was %s.", item.Make, item.Model, pastTense(d)))
	return c.Redirect(http.StatusSeeOther, pendingPath)
}

// ResolveClassification approves or rejects one pending classification.
func (h *ModerationHandler) ResolveClassification(c echo.Context) error {
	d, ok := h.decision(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, pendingPath)
	}
	var req struct {
		ClassificationID uint64 `json:"classification_id" form:"classification_id"`
	}
	if err := c.Bind(&req); err != nil || req.ClassificationID == 0 {
		h.Notices.Add(c, "Sorry, the approval failed.")
		return c.Redirect(http.StatusSeeOther, pendingPath)
	}
	ident, _ := middleware.IdentityFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Workflow.ResolveClassification(ctx, req.ClassificationID, ident.AccountID, d)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Notices.Add(c, "Sorry, the approval failed.")
			return c.Redirect(http.StatusSeeOther, pendingPath)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Notices.Add(c, fmt.Sprintf("The classification %s was %s.", cl.Name, pastTense(d)))
	return c.Redirect(http.StatusSeeOther, pendingPath)
}

func pastTense(d moderation.Decision) string {
	if d == moderation.DecisionApprove {
		return "approved"
	}
	return "rejected"
}
