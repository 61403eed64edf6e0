package tasks

import "strings"

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

const PerPage = 25

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// ParseFilter maps a filter label back to its value; unknown labels mean All.
func ParseFilter(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return FilterActive
	case "completed":
		return FilterCompleted
	default:
		return FilterAll
	}
}

func Apply(list []Task, f Filter) []Task {
	if f == FilterAll {
		return list
	}
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if t.Completed == (f == FilterCompleted) {
			out = append(out, t)
		}
	}
	return out
}

// Search keeps tasks whose text contains query, ignoring case. A blank query
// keeps everything.
func Search(list []Task, query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Text), q) {
			out = append(out, t)
		}
	}
	return out
}

// Paginate returns the 1-based page of list and the page count. Out of range
// pages are clamped; an empty list has one empty page.
func Paginate(list []Task, page, perPage int) ([]Task, int) {
	if perPage <= 0 {
		perPage = PerPage
	}
	pages := max((len(list)+perPage-1)/perPage, 1)
	page = min(max(page, 1), pages)
	start := (page - 1) * perPage
	end := min(start+perPage, len(list))
	return list[start:end], pages
}

type Summary struct {
	Total     int
	Completed int
	Active    int
}

func Summarize(list []Task) Summary {
	s := Summary{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}
