package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/model"
	"github.com/ravelor/dealer-inventory/internal/repository"
)

// InventoryHandler bundles the repositories behind browsing and vehicle
// management endpoints.
type InventoryHandler struct {
	Inventory       *repository.InventoryRepo
	Classifications *repository.ClassificationRepo
	Notices         *flash.Store
}

func NewInventoryHandler(inv *repository.InventoryRepo, cl *repository.ClassificationRepo, notices *flash.Store) *InventoryHandler {
	if inv == nil || cl == nil {
		panic("nil repository passed to NewInventoryHandler")
	}
	return &InventoryHandler{Inventory: inv, Classifications: cl, Notices: notices}
}

type inventoryReq struct {
	ID               uint64 `json:"inv_id" form:"inv_id"`
	ClassificationID uint64 `json:"classification_id" form:"classification_id"`
	Make             string `json:"inv_make" form:"inv_make"`
	Model            string `json:"inv_model" form:"inv_model"`
	Year             uint16 `json:"inv_year" form:"inv_year"`
	Description      string `json:"inv_description" form:"inv_description"`
	Image            string `json:"inv_image" form:"inv_image"`
	Thumbnail        string `json:"inv_thumbnail" form:"inv_thumbnail"`
	PriceCents       uint64 `json:"inv_price" form:"inv_price"`
	Miles            uint32 `json:"inv_miles" form:"inv_miles"`
	Color            string `json:"inv_color" form:"inv_color"`
}

func (req *inventoryReq) validate() []string {
	var errs []string
	if req.ClassificationID == 0 {
		errs = append(errs, "Please choose a classification.")
	}
	if len(req.Make) < 3 {
		errs = append(errs, "Please provide a make.")
	}
	if len(req.Model) < 3 {
		errs = append(errs, "Please provide a model.")
	}
	if req.Year < 1900 || req.Year > uint16(time.Now().Year()+1) {
		errs = append(errs, "Please provide a valid year.")
	}
	if req.Description == "" {
		errs = append(errs, "Please provide a description.")
	}
	if req.PriceCents == 0 {
		errs = append(errs, "Please provide a price.")
	}
	if req.Color == "" {
		errs = append(errs, "Please provide a color.")
	}
	return errs
}

func (req *inventoryReq) item() model.InventoryItem {
	return model.InventoryItem{
		ID:               req.ID,
		ClassificationID: req.ClassificationID,
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Description:      req.Description,
		Image:            req.Image,
		Thumbnail:        req.Thumbnail,
		PriceCents:       req.PriceCents,
		Miles:            req.Miles,
		Color:            req.Color,
	}
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ListClassifications returns all approved classifications. Public, cached.
func (h *InventoryHandler) ListClassifications(c echo.Context) error {
	ctx := c.Request().Context()
	classes, err := h.Classifications.ListApproved(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": classes})
}

// ListByClassification returns the approved vehicles of one classification.
// Public, cached.
func (h *InventoryHandler) ListByClassification(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "classificationId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cl, err := h.Classifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Inventory.ListByClassification(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title": cl.Name + " vehicles",
		"items": items,
	})
}

// Detail returns one approved vehicle. Pending records stay invisible on
// this path. Public, cached.
func (h *InventoryHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "invId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	item, err := h.Inventory.GetApproved(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title": fmt.Sprintf("%d %s %s", item.Year, item.Make, item.Model),
		"item":  item,
	})
}

// Management delivers the vehicle management page data for staff.
func (h *InventoryHandler) Management(c echo.Context) error {
	ctx := c.Request().Context()
	classes, err := h.Classifications.ListApproved(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":           "Vehicle Management",
		"classifications": classes,
		"notices":         h.Notices.Pop(c),
	})
}

// Create adds a vehicle in the pending state; it becomes publicly visible
// only after an admin approves it.
func (h *InventoryHandler) Create(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Classifications.GetByID(ctx, req.ClassificationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Please choose a classification."}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	item := req.item()
	if err := h.Inventory.Create(ctx, &item); err != nil {
		h.Notices.Add(c, "Sorry, the creation failed.")
		return c.Redirect(http.StatusSeeOther, "/inv/")
	}
	h.Notices.Add(c, fmt.Sprintf("The %s %s was successfully added and awaits approval.", item.Make, item.Model))
	return c.Redirect(http.StatusSeeOther, "/inv/")
}

// Update rewrites the editable fields of an existing vehicle.
func (h *InventoryHandler) Update(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item := req.item()
	if err := h.Inventory.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Notices.Add(c, "Sorry, the update failed.")
			return c.Redirect(http.StatusSeeOther, "/inv/")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Notices.Add(c, fmt.Sprintf("The %s %s was successfully updated.", item.Make, item.Model))
	return c.Redirect(http.StatusSeeOther, "/inv/")
}

// Delete removes a vehicle outright.
func (h *InventoryHandler) Delete(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Inventory.Delete(ctx, req.ID); err != nil {
		h.Notices.Add(c, "Sorry, the delete failed.")
		return c.Redirect(http.StatusSeeOther, "/inv/")
	}
	h.Notices.Add(c, fmt.Sprintf("The %s %s was successfully deleted.", req.Make, req.Model))
	return c.Redirect(http.StatusSeeOther, "/inv/")
}

// CreateClassification adds a classification in the pending state.
func (h *InventoryHandler) CreateClassification(c echo.Context) error {
	var req struct {
		Name string `json:"classification_name" form:"classification_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validClassificationName(req.Name) {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Classification name must be a single alphanumeric word."}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Classifications.Create(ctx, req.Name)
	if err != nil {
		h.Notices.Add(c, "Sorry, the creation failed.")
		return c.Redirect(http.StatusSeeOther, "/inv/")
	}
	h.Notices.Add(c, fmt.Sprintf("The %s classification was successfully added and awaits approval.", cl.Name))
	return c.Redirect(http.StatusSeeOther, "/inv/")
}
