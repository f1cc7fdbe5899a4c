package model

import (
	"testing"
)

func TestPage_Last(t *testing.T) {
	tests := []struct {
		name string
		page Page
		size int
		want bool
	}{
		{name: "first of three", page: Page{Page: 1, Total: 250}, size: 100, want: false},
		{name: "exact boundary", page: Page{Page: 2, Total: 200}, size: 100, want: true},
		{name: "past end", page: Page{Page: 3, Total: 250}, size: 100, want: true},
		{name: "empty", page: Page{Page: 1, Total: 0}, size: 100, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Last(tt.size); got != tt.want {
				t.Errorf("Last() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListOptions_WithDefaults(t *testing.T) {
	got := ListOptions{}.WithDefaults()
	if got.Page != 1 || got.Size != DefaultPageSize {
		t.Fatalf("unexpected defaults %+v", got)
	}
	kept := ListOptions{Page: 3, Size: 10, Search: "x"}.WithDefaults()
	if kept.Page != 3 || kept.Size != 10 || kept.Search != "x" {
		t.Fatalf("explicit values overwritten: %+v", kept)
	}
}

func TestResourceFilter_WithDefaults(t *testing.T) {
	f := ResourceFilter{ContainerID: "sol"}.WithDefaults()
	if f.ResourceType != ResourceDataset || f.Permission != PermissionCanEdit {
		t.Fatalf("unexpected defaults %+v", f)
	}
	f = ResourceFilter{ContainerID: "sol", ResourceType: ResourceInsight, Permission: PermissionCanView}.WithDefaults()
	if f.ResourceType != ResourceInsight || f.Permission != PermissionCanView {
		t.Fatalf("explicit values overwritten: %+v", f)
	}
}

func TestGrant(t *testing.T) {
	u := Grant("ds-1", "grp-1", RoleViewer)
	if u.ResourceID != "ds-1" || len(u.Assignments) != 1 {
		t.Fatalf("unexpected update %+v", u)
	}
	if u.Assignments[0] != (RoleAssignment{ID: "grp-1", Role: RoleViewer}) {
		t.Fatalf("unexpected assignment %+v", u.Assignments[0])
	}
	if u.Unassignments == nil || len(u.Unassignments) != 0 {
		t.Fatalf("unassignments must be an empty list, got %#v", u.Unassignments)
	}
}

func TestItemIDs(t *testing.T) {
	ids, err := ItemIDs([]any{"a", map[string]any{"id": "b", "name": "B"}})
	if err != nil {
		t.Fatalf("ItemIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids %v", ids)
	}

	if _, err := ItemIDs([]any{map[string]any{"name": "no id"}}); err == nil {
		t.Fatalf("expected error for object without id")
	}
	if _, err := ItemIDs([]any{42}); err == nil {
		t.Fatalf("expected error for unexpected item type")
	}
}
