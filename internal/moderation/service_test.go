package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/ravelor/dealer-inventory/internal/model"
	"github.com/ravelor/dealer-inventory/internal/queue"
	"github.com/ravelor/dealer-inventory/internal/repository"
)

// In-memory stores with the same SetApproval contract as the repositories.

type fakeInventoryStore struct {
	items []model.InventoryItem
}

func (f *fakeInventoryStore) ListPending(ctx context.Context) ([]model.InventoryItem, error) {
	out := []model.InventoryItem{}
	for _, it := range f.items {
		if !it.Approved {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventoryStore) SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.InventoryItem, error) {
	for i, it := range f.items {
		if it.ID != id {
			continue
		}
		if !approve {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return it, nil
		}
		it.Approved = true
		it.ApproverID = &approverID
		f.items[i] = it
		return it, nil
	}
	return model.InventoryItem{}, repository.ErrNotFound
}

type fakeClassificationStore struct {
	classes []model.Classification
}

func (f *fakeClassificationStore) ListPending(ctx context.Context) ([]model.Classification, error) {
	out := []model.Classification{}
	for _, cl := range f.classes {
		if !cl.Approved {
			out = append(out, cl)
		}
	}
	return out, nil
}

func (f *fakeClassificationStore) SetApproval(ctx context.Context, id, approverID uint64, approve bool) (model.Classification, error) {
	for i, cl := range f.classes {
		if cl.ID != id {
			continue
		}
		if !approve {
			f.classes = append(f.classes[:i], f.classes[i+1:]...)
			return cl, nil
		}
		cl.Approved = true
		cl.ApproverID = &approverID
		f.classes[i] = cl
		return cl, nil
	}
	return model.Classification{}, repository.ErrNotFound
}

func vehicle(id uint64) model.InventoryItem {
	return model.InventoryItem{ID: id, ClassificationID: 1, Make: "Ford", Model: "Mustang", Year: 2019}
}

func newTestService(inv *fakeInventoryStore, cl *fakeClassificationStore, events *[]queue.ModerationDecidedEvent) *Service {
	publish := func(ctx context.Context, ev queue.ModerationDecidedEvent) error {
		if events != nil {
			*events = append(*events, ev)
		}
		return nil
	}
	return NewService(cl, inv, publish)
}

func TestParseDecision(t *testing.T) {
	if d, err := ParseDecision("approve"); err != nil || d != DecisionApprove {
		t.Fatalf("approve: got %v %v", d, err)
	}
	if d, err := ParseDecision("reject"); err != nil || d != DecisionReject {
		t.Fatalf("reject: got %v %v", d, err)
	}
	for _, raw := range []string{"", "Approve", "delete", "yes"} {
		if _, err := ParseDecision(raw); !errors.Is(err, ErrUnknownDecision) {
			t.Fatalf("%q: want ErrUnknownDecision, got %v", raw, err)
		}
	}
}

func TestApproveRecordsApproverAndLeavesPending(t *testing.T) {
	inv := &fakeInventoryStore{items: []model.InventoryItem{vehicle(1), vehicle(2)}}
	cl := &fakeClassificationStore{}
	var events []queue.ModerationDecidedEvent
	svc := newTestService(inv, cl, &events)

	item, err := svc.ResolveInventory(context.Background(), 1, 99, DecisionApprove)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !item.Approved || item.ApproverID == nil || *item.ApproverID != 99 {
		t.Fatalf("approval not recorded: %+v", item)
	}

	pending, _, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	for _, it := range pending {
		if it.ID == 1 {
			t.Fatal("approved item still listed as pending")
		}
	}
	if len(events) != 1 || events[0].Decision != "approve" || events[0].Kind != queue.KindInventory {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRejectDeletesAndSecondResolveIsNotFound(t *testing.T) {
	inv := &fakeInventoryStore{items: []model.InventoryItem{vehicle(5)}}
	svc := newTestService(inv, &fakeClassificationStore{}, nil)

	snapshot, err := svc.ResolveInventory(context.Background(), 5, 7, DecisionReject)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if snapshot.Make != "Ford" {
		t.Fatalf("prior snapshot not returned: %+v", snapshot)
	}

	if _, err := svc.ResolveInventory(context.Background(), 5, 7, DecisionReject); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second reject: want ErrNotFound, got %v", err)
	}
	if _, err := svc.ResolveInventory(context.Background(), 5, 7, DecisionApprove); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("approve after reject: want ErrNotFound, got %v", err)
	}
}

func TestResolveClassification(t *testing.T) {
	cl := &fakeClassificationStore{classes: []model.Classification{{ID: 3, Name: "Trucks"}}}
	var events []queue.ModerationDecidedEvent
	svc := newTestService(&fakeInventoryStore{}, cl, &events)

	got, err := svc.ResolveClassification(context.Background(), 3, 11, DecisionApprove)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Approved || got.ApproverID == nil || *got.ApproverID != 11 {
		t.Fatalf("approval not recorded: %+v", got)
	}
	if len(events) != 1 || events[0].Kind != queue.KindClassification || events[0].Label != "Trucks" {
		t.Fatalf("unexpected events: %+v", events)
	}

	if _, err := svc.ResolveClassification(context.Background(), 404, 11, DecisionApprove); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing id: want ErrNotFound, got %v", err)
	}
}

func TestListPendingOrderedAscending(t *testing.T) {
	inv := &fakeInventoryStore{items: []model.InventoryItem{vehicle(3), vehicle(1), vehicle(2)}}
	cl := &fakeClassificationStore{classes: []model.Classification{
		{ID: 9, Name: "Vans"}, {ID: 4, Name: "Coupes"}, {ID: 7, Name: "Sedans"},
	}}
	svc := newTestService(inv, cl, nil)

	items, classes, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatalf("inventory not ascending: %v then %v", items[i-1].ID, items[i].ID)
		}
	}
	for i := 1; i < len(classes); i++ {
		if classes[i-1].ID >= classes[i].ID {
			t.Fatalf("classifications not ascending: %v then %v", classes[i-1].ID, classes[i].ID)
		}
	}
}

func TestPublisherFailureDoesNotFailResolution(t *testing.T) {
	inv := &fakeInventoryStore{items: []model.InventoryItem{vehicle(1)}}
	svc := NewService(&fakeClassificationStore{}, inv, func(ctx context.Context, ev queue.ModerationDecidedEvent) error {
		return errors.New("broker down")
	})
	if _, err := svc.ResolveInventory(context.Background(), 1, 2, DecisionApprove); err != nil {
		t.Fatalf("resolution must not fail on publish error: %v", err)
	}
}
