package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskbench/log"
	"deskbench/tasks"
)

const storeTimeout = 2 * time.Second

type taskView struct {
	store tasks.Store

	all     []tasks.Task
	visible []tasks.Task
	query   string
	filter  tasks.Filter
	page    int
	pages   int

	search    *widget.Entry
	filterSel *widget.RadioGroup
	input     *widget.Entry
	add       *widget.Button
	list      *widget.List
	prev      *widget.Button
	next      *widget.Button
	pageLabel *widget.Label
	summary   *widget.Label
	status    *widget.Label
}

func newTaskView(store tasks.Store) *taskView {
	v := &taskView{store: store, page: 1, pages: 1}

	v.search = widget.NewEntry()
	v.search.SetPlaceHolder("Search tasks")
	v.search.OnChanged = v.setQuery

	labels := []string{tasks.FilterAll.String(), tasks.FilterActive.String(), tasks.FilterCompleted.String()}
	v.filterSel = widget.NewRadioGroup(labels, func(s string) { v.setFilter(tasks.ParseFilter(s)) })
	v.filterSel.Horizontal = true
	v.filterSel.Required = true
	v.filterSel.Selected = tasks.FilterAll.String()

	v.input = widget.NewEntry()
	v.input.SetPlaceHolder("What needs doing?")
	v.input.OnSubmitted = func(string) { v.addTask() }
	v.add = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), v.addTask)

	v.list = widget.NewList(
		func() int { return len(v.visible) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil,
				widget.NewCheck("", nil),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
				widget.NewLabel(""))
		},
		v.updateItem,
	)

	v.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { v.setPage(v.page - 1) })
	v.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { v.setPage(v.page + 1) })
	v.pageLabel = widget.NewLabel("")
	v.summary = widget.NewLabel("")
	v.status = widget.NewLabel("")

	v.reload()
	return v
}

func (v *taskView) content() fyne.CanvasObject {
	top := container.NewVBox(
		v.search,
		v.filterSel,
		container.NewBorder(nil, nil, nil, v.add, v.input),
	)
	bottom := container.NewBorder(nil, nil, v.summary,
		container.NewHBox(v.prev, v.pageLabel, v.next), v.status)
	return container.NewBorder(top, bottom, nil, nil, v.list)
}

func (v *taskView) updateItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(v.visible) {
		return
	}
	t := v.visible[id]
	row := obj.(*fyne.Container)
	var (
		check *widget.Check
		del   *widget.Button
		label *widget.Label
	)
	for _, o := range row.Objects {
		switch w := o.(type) {
		case *widget.Check:
			check = w
		case *widget.Button:
			del = w
		case *widget.Label:
			label = w
		}
	}
	check.OnChanged = nil
	check.SetChecked(t.Completed)
	check.OnChanged = func(bool) { v.toggle(t.ID) }
	del.OnTapped = func() { v.remove(t.ID) }
	label.SetText(t.Text)
	if t.Completed {
		label.Importance = widget.LowImportance
	} else {
		label.Importance = widget.MediumImportance
	}
	label.Refresh()
}

func (v *taskView) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func (v *taskView) reload() {
	ctx, cancel := v.ctx()
	defer cancel()
	all, err := v.store.List(ctx)
	if err != nil {
		v.fail("load tasks", err)
		return
	}
	v.all = all
	v.apply()
}

// apply recomputes the visible page from all, query and filter.
func (v *taskView) apply() {
	matched := tasks.Apply(tasks.Search(v.all, v.query), v.filter)
	v.visible, v.pages = tasks.Paginate(matched, v.page, tasks.PerPage)
	v.page = min(max(v.page, 1), v.pages)

	sum := tasks.Summarize(v.all)
	v.summary.SetText(fmt.Sprintf("%d tasks, %d active, %d done", sum.Total, sum.Active, sum.Completed))
	v.pageLabel.SetText(fmt.Sprintf("%d / %d", v.page, v.pages))
	if v.page <= 1 {
		v.prev.Disable()
	} else {
		v.prev.Enable()
	}
	if v.page >= v.pages {
		v.next.Disable()
	} else {
		v.next.Enable()
	}
	v.list.Refresh()
}

func (v *taskView) setQuery(q string) {
	v.query = q
	v.page = 1
	v.apply()
}

func (v *taskView) setFilter(f tasks.Filter) {
	v.filter = f
	v.page = 1
	v.apply()
}

func (v *taskView) setPage(p int) {
	v.page = p
	v.apply()
}

func (v *taskView) addTask() {
	ctx, cancel := v.ctx()
	defer cancel()
	if _, err := v.store.Create(ctx, v.input.Text, false); err != nil {
		v.fail("add task", err)
		return
	}
	v.input.SetText("")
	v.status.SetText("")
	v.page = 1
	v.reload()
}

func (v *taskView) toggle(id int64) {
	ctx, cancel := v.ctx()
	defer cancel()
	if _, err := v.store.Toggle(ctx, id); err != nil {
		v.fail("toggle task", err)
		return
	}
	v.reload()
}

func (v *taskView) remove(id int64) {
	ctx, cancel := v.ctx()
	defer cancel()
	if err := v.store.Delete(ctx, id); err != nil {
		v.fail("delete task", err)
		return
	}
	v.reload()
}

func (v *taskView) fail(op string, err error) {
	log.Warnf("%s: %v", op, err)
	v.status.SetText(fmt.Sprintf("%s: %v", op, err))
}

func newEmptyView() fyne.CanvasObject {
	return container.NewCenter(widget.NewLabel("Loading tasks..."))
}
