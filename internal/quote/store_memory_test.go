package quote

import (
	"context"
	"testing"
	"time"
)

func TestMemStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	q1 := Quote{ID: "q1", Client: "Acme", Total: 25, CreatedAt: time.Now().UTC(),
		Items: []LineItem{{ID: "i1", ProductID: "p1", Quantity: 2, Price: 10, Subtotal: 20}}}
	q2 := Quote{ID: "q2", Client: "Globex", Total: 5, CreatedAt: time.Now().UTC(),
		Items: []LineItem{{ID: "i2", ProductID: "p2", Quantity: 1, Price: 5, Subtotal: 5}}}

	for _, q := range []Quote{q1, q2} {
		if err := s.Create(ctx, q); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "q1" || got[1].ID != "q2" {
		t.Fatalf("list order wrong: %+v", got)
	}

	q, found, err := s.Get(ctx, "q1")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if q.Client != "Acme" || len(q.Items) != 1 {
		t.Errorf("get returned %+v", q)
	}

	_, found, err = s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Errorf("get of unknown id reported found")
	}

	found, err = s.Delete(ctx, "q1")
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}

	_, found, err = s.Get(ctx, "q1")
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if found {
		t.Errorf("deleted quote still found")
	}

	found, err = s.Delete(ctx, "q1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if found {
		t.Errorf("second delete reported found")
	}
}
