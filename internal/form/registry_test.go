package form

import "testing"

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	tpl := builderTemplate()
	tpl.OwnerID = "owner-1"
	reg.Upsert(tpl)

	if reg.Get("tpl-1") == nil {
		t.Fatal("expected template after Upsert")
	}
	if reg.GetPublished("tpl-1") != nil {
		t.Error("expected nil for unpublished template")
	}

	published := builderTemplate()
	published.Published = true
	reg.Upsert(published)
	if reg.GetPublished("tpl-1") == nil {
		t.Error("expected published template")
	}

	if got := reg.ByOwner("owner-1"); len(got) != 0 {
		// The published replacement carries no owner id.
		t.Errorf("ByOwner(owner-1) = %d templates, want 0", len(got))
	}

	reg.Remove("tpl-1")
	if reg.Get("tpl-1") != nil {
		t.Error("expected nil after Remove")
	}

	reg.Load([]*Template{tpl})
	if reg.Get("tpl-1") == nil {
		t.Error("expected template after Load")
	}
}
