package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/smarttask/domain"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// formatTask renders one line: id, check box, priority, title, due, tags.
func formatTask(t domain.Task) string {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-6s %s", shortID(t.ID), box, t.Priority, t.Title)
	if t.Due != nil {
		b.WriteString("  (due " + formatDue(t.Due) + ")")
	}
	if len(t.Tags) > 0 {
		b.WriteString("  " + formatTags(t.Tags))
	}
	if n := len(t.Subtasks); n > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Done {
				done++
			}
		}
		fmt.Fprintf(&b, "  [%d/%d]", done, n)
	}
	return b.String()
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Local().Format("Mon Jan 2 15:04")
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = "#" + tag
	}
	return strings.Join(out, " ")
}
