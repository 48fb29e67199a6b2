// Package moderation implements the pending-review workflow: listing
// records awaiting approval and resolving them. Route middleware restricts
// every caller of this package to the admin role.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ravelor/dealer-inventory/internal/model"
	"github.com/ravelor/dealer-inventory/internal/queue"
)

// Decision is the closed set of moderation actions. Raw strings from the
// request path go through ParseDecision before reaching the service.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ErrUnknownDecision is returned by ParseDecision for any action outside
// the closed set. Handlers report it as an invalid action and change no
// state.
var ErrUnknownDecision = errors.New("unknown moderation action")

// ParseDecision validates a raw action string against the allowed set.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApprove:
		return DecisionApprove, nil
	case DecisionReject:
		return DecisionReject, nil
	}
	return "", ErrUnknownDecision
}

// ClassificationStore is the slice of the persistence layer the workflow
// needs for classifications. SetApproval must report ErrNotFound-style
// failure for missing ids (repository.ErrNotFound satisfies this).
type ClassificationStore interface {
	ListPending(ctx context.Context) ([]model.Classification, error)
	SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.Classification, error)
}

// InventoryStore is the slice of the persistence layer the workflow needs
// for vehicles.
type InventoryStore interface {
	ListPending(ctx context.Context) ([]model.InventoryItem, error)
	SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.InventoryItem, error)
}

// PublishFunc delivers a moderation event to the broker. Publishing is best
// effort; the service logs failures and moves on.
type PublishFunc func(ctx context.Context, ev queue.ModerationDecidedEvent) error

// Service transitions inventory and classification records between pending
// and resolved states.
type Service struct {
	classifications ClassificationStore
	inventory       InventoryStore
	publish         PublishFunc // may be nil
}

// NewService wires the workflow to its stores and the optional event
// publisher.
func NewService(cl ClassificationStore, inv InventoryStore, publish PublishFunc) *Service {
	if cl == nil || inv == nil {
		panic("nil store passed to moderation.NewService")
	}
	return &Service{classifications: cl, inventory: inv, publish: publish}
}

// ListPending returns the records awaiting review, each slice ordered
// ascending by id. The sort is applied here even though the queries order
// their results, so the display contract does not depend on the store.
func (s *Service) ListPending(ctx context.Context) ([]model.InventoryItem, []model.Classification, error) {
	items, err := s.inventory.ListPending(ctx)
	if err != nil {
		return nil, nil, err
	}
	classes, err := s.classifications.ListPending(ctx)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return items, classes, nil
}

// ResolveInventory applies a decision to one vehicle. Approve marks it
// approved and records the approver; Reject deletes it and returns the
// prior snapshot for messaging. Missing ids surface the store's not-found
// error unchanged.
func (s *Service) ResolveInventory(ctx context.Context, invID, approverID uint64, d Decision) (model.InventoryItem, error) {
	item, err := s.inventory.SetApproval(ctx, invID, approverID, d == DecisionApprove)
	if err != nil {
		return model.InventoryItem{}, err
	}
	s.emit(ctx, queue.KindInventory, item.ID, fmt.Sprintf("%s %s", item.Make, item.Model), approverID, d)
	return item, nil
}

// ResolveClassification applies a decision to one classification.
func (s *Service) ResolveClassification(ctx context.Context, classificationID, approverID uint64, d Decision) (model.Classification, error) {
	cl, err := s.classifications.SetApproval(ctx, classificationID, approverID, d == DecisionApprove)
	if err != nil {
		return model.Classification{}, err
	}
	s.emit(ctx, queue.KindClassification, cl.ID, cl.Name, approverID, d)
	return cl, nil
}

func (s *Service) emit(ctx context.Context, kind string, id uint64, label string, approverID uint64, d Decision) {
	if s.publish == nil {
		return
	}
	ev := queue.ModerationDecidedEvent{
		Kind:       kind,
		RecordID:   id,
		Label:      label,
		Decision:   string(d),
		ApproverID: approverID,
		DecidedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("moderation: publish event failed: %v", err)
	}
}
