package gui

import (
	"context"
	"strconv"
	"testing"

	"fyne.io/fyne/v2/test"

	"deskbench/tasks"
)

func TestTaskViewAddToggleDelete(t *testing.T) {
	test.NewTempApp(t)
	store := openStore(t)
	v := newTaskView(store)

	test.Type(v.input, "Buy milk")
	test.Tap(v.add)
	if len(v.all) != 1 || v.all[0].Text != "Buy milk" {
		t.Fatalf("all = %+v", v.all)
	}
	if v.input.Text != "" {
		t.Errorf("input not cleared: %q", v.input.Text)
	}

	v.toggle(v.all[0].ID)
	if !v.all[0].Completed {
		t.Error("toggle did not complete the task")
	}
	if v.summary.Text != "1 tasks, 0 active, 1 done" {
		t.Errorf("summary = %q", v.summary.Text)
	}

	v.remove(v.all[0].ID)
	if len(v.all) != 0 {
		t.Errorf("all after delete = %+v", v.all)
	}
}

func TestTaskViewRejectsBlank(t *testing.T) {
	test.NewTempApp(t)
	v := newTaskView(openStore(t))

	test.Tap(v.add)
	if len(v.all) != 0 {
		t.Fatalf("blank task added: %+v", v.all)
	}
	if v.status.Text == "" {
		t.Error("no status for blank task")
	}
}

func TestTaskViewFilterSearchPaging(t *testing.T) {
	test.NewTempApp(t)
	store := openStore(t)
	ctx := context.Background()
	for i := 1; i <= 30; i++ {
		if _, err := store.Create(ctx, "item "+strconv.Itoa(i), i%2 == 0); err != nil {
			t.Fatal(err)
		}
	}
	v := newTaskView(store)

	if v.pages != 2 || len(v.visible) != tasks.PerPage {
		t.Fatalf("pages=%d visible=%d", v.pages, len(v.visible))
	}
	if !v.prev.Disabled() || v.next.Disabled() {
		t.Error("paging buttons in wrong state on first page")
	}
	test.Tap(v.next)
	if v.page != 2 || len(v.visible) != 5 {
		t.Fatalf("page=%d visible=%d", v.page, len(v.visible))
	}
	if v.pageLabel.Text != "2 / 2" {
		t.Errorf("pageLabel = %q", v.pageLabel.Text)
	}

	v.setFilter(tasks.FilterCompleted)
	if v.page != 1 || len(v.visible) != 15 {
		t.Fatalf("completed: page=%d visible=%d", v.page, len(v.visible))
	}

	v.setFilter(tasks.FilterAll)
	test.Type(v.search, "item 1")
	// item 1, item 10..19
	if len(v.visible) != 11 {
		t.Errorf("search visible = %d", len(v.visible))
	}
}
