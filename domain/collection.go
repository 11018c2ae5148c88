package domain

import "strings"

// Collection is an immutable-by-convention version of the task list. Every
// method returns a new value and leaves the receiver untouched.
type Collection []Task

// Clone deep-copies every task.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, t := range c {
		out[i] = t.Clone()
	}
	return out
}

// Find returns the task with the given id.
func (c Collection) Find(id string) (Task, bool) {
	for _, t := range c {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return Task{}, false
}

// Resolve finds a task by full id or by a unique id prefix.
func (c Collection) Resolve(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, ErrTaskNotFound
	}
	if t, ok := c.Find(ref); ok {
		return t, nil
	}
	var match *Task
	for i := range c {
		if strings.HasPrefix(c[i].ID, ref) {
			if match != nil {
				return Task{}, ErrAmbiguousID
			}
			match = &c[i]
		}
	}
	if match == nil {
		return Task{}, ErrTaskNotFound
	}
	return match.Clone(), nil
}

// Append adds a task at the end.
func (c Collection) Append(t Task) Collection {
	out := c.Clone()
	return append(out, t.Clone())
}

// Replace rewrites the task with the given id as a whole record.
func (c Collection) Replace(id string, fn func(Task) Task) (Collection, Task, error) {
	out := c.Clone()
	for i := range out {
		if out[i].ID == id {
			updated := fn(out[i].Clone())
			updated.ID = out[i].ID
			updated.CreatedAt = out[i].CreatedAt
			out[i] = updated
			return out, updated.Clone(), nil
		}
	}
	return c, Task{}, ErrTaskNotFound
}

// Remove deletes the task with the given id.
func (c Collection) Remove(id string) (Collection, error) {
	out := make(Collection, 0, len(c))
	found := false
	for _, t := range c {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t.Clone())
	}
	if !found {
		return c, ErrTaskNotFound
	}
	return out, nil
}

// ToggleDone flips the completion flag.
func ToggleDone(t Task) Task {
	out := t.Clone()
	out.Done = !out.Done
	return out
}

// ToggleSubtask flips one subtask's flag.
func ToggleSubtask(t Task, subtaskID string) (Task, error) {
	out := t.Clone()
	for i := range out.Subtasks {
		if out.Subtasks[i].ID == subtaskID {
			out.Subtasks[i].Done = !out.Subtasks[i].Done
			return out, nil
		}
	}
	return t, ErrSubtaskNotFound
}
