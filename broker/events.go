package broker

type EventType string

const (
	// Event types in the form <resource>.<action>
	NoteCreated EventType = "note.created"
	NoteUpdated EventType = "note.updated"
	NoteDeleted EventType = "note.deleted"

	TodoCreated       EventType = "todo.created"
	TodoUpdated       EventType = "todo.updated"
	TodoDeleted       EventType = "todo.deleted"
	TodoStatusChanged EventType = "todo.status_changed"

	UserCreated EventType = "user.created"
)
