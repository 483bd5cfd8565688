package sda

// Undoing and redoing works with actions (an action is a group of
// changes). An action is represented by any changes made between the
// outermost BeginUndoTask and its matching EndUndoTask. A change made
// outside any task is an action by itself.

type change struct {
	undo func()
	redo func()
}

type action struct {
	undoLabel, redoLabel string
	changes              []change
}

type history struct {
	actions []*action // stack of all completed actions
	head    int       // index for the next action to add
	current *action   // action for the current task
	depth   int       // nesting of BeginUndoTask
	replay  bool      // true while undoing or redoing
}

// record applies a change by running redo and logs it for undo.
func (c *Cache) record(undo, redo func()) {
	h := &c.history
	if h.replay {
		redo()
		return
	}
	if h.depth == 0 {
		c.BeginUndoTask("", "")
		defer c.EndUndoTask()
	}
	redo()
	h.current.changes = append(h.current.changes, change{undo: undo, redo: redo})
}

// BeginUndoTask implements DataAccess. Tasks nest; only the outermost
// task's labels are kept.
func (c *Cache) BeginUndoTask(undo, redo string) {
	h := &c.history
	h.depth++
	if h.depth == 1 {
		h.current = &action{undoLabel: undo, redoLabel: redo}
	}
}

// EndUndoTask implements DataAccess.
func (c *Cache) EndUndoTask() {
	h := &c.history
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if len(h.current.changes) > 0 {
		h.actions = append(h.actions[:h.head], h.current)
		h.head++
	}
	h.current = nil
	c.taskEnded()
}

// InUndoTask implements DataAccess.
func (c *Cache) InUndoTask() bool {
	return c.history.depth > 0
}

// CanUndo reports whether there is an action to undo.
func (c *Cache) CanUndo() bool {
	return c.history.head > 0 && c.history.depth == 0
}

// CanRedo reports whether there is an action to redo.
func (c *Cache) CanRedo() bool {
	return c.history.head < len(c.history.actions) && c.history.depth == 0
}

// UndoLabel returns the label of the action Undo would revert.
func (c *Cache) UndoLabel() string {
	if !c.CanUndo() {
		return ""
	}
	return c.history.actions[c.history.head-1].undoLabel
}

// Undo reverts the most recent action. It returns false if there is
// nothing to undo or a task is open.
func (c *Cache) Undo() bool {
	if !c.CanUndo() {
		return false
	}
	h := &c.history
	h.head--
	a := h.actions[h.head]
	h.replay = true
	for i := len(a.changes) - 1; i >= 0; i-- {
		a.changes[i].undo()
	}
	h.replay = false
	c.taskEnded()
	return true
}

// Redo reapplies the most recently undone action.
func (c *Cache) Redo() bool {
	if !c.CanRedo() {
		return false
	}
	h := &c.history
	a := h.actions[h.head]
	h.head++
	h.replay = true
	for _, ch := range a.changes {
		ch.redo()
	}
	h.replay = false
	c.taskEnded()
	return true
}

// TaskScope provides a convenient way to group changes using defer:
//
//	defer sda.Task(da, "Typing").End()
type TaskScope struct {
	da     DataAccess
	active bool
}

// Task starts an undo task on da labelled label.
func Task(da DataAccess, label string) *TaskScope {
	da.BeginUndoTask("Undo "+label, "Redo "+label)
	return &TaskScope{da: da, active: true}
}

// End ends the task. Safe to call multiple times; only the first call
// has effect.
func (t *TaskScope) End() {
	if t.active {
		t.da.EndUndoTask()
		t.active = false
	}
}
