package projection

import "github.com/sandeepkv93/tasklist/internal/model"

// EditSession is the transient state of the edit dialog: which task is being
// edited and the text typed so far. At most one is open at a time.
type EditSession struct {
	active bool
	taskID int64
	text   string
}

// Open snapshots t. It refuses while another session is open.
func (e *EditSession) Open(t model.Task) bool {
	if e.active {
		return false
	}
	e.active = true
	e.taskID = t.ID
	e.text = t.Text
	return true
}

func (e *EditSession) Active() bool { return e.active }

func (e *EditSession) TaskID() int64 { return e.taskID }

func (e *EditSession) Text() string { return e.text }

func (e *EditSession) SetText(text string) {
	if e.active {
		e.text = text
	}
}

// Commit closes the session and returns what should be written back.
func (e *EditSession) Commit() (id int64, text string, ok bool) {
	if !e.active {
		return 0, "", false
	}
	id, text = e.taskID, e.text
	*e = EditSession{}
	return id, text, true
}

func (e *EditSession) Cancel() {
	*e = EditSession{}
}
