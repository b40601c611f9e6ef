package broker

const (
	UserEventsSubject  = "smartapp.user_events"
	NoteEventsSubject  = "smartapp.note_events"
	TodoEventsSubject  = "smartapp.todo_events"
	OtherEventsSubject = "smartapp.events"
)

// SubjectForEntity maps an outbox entity name to the subject it is published on.
func SubjectForEntity(entity string) string {
	switch entity {
	case "user":
		return UserEventsSubject
	case "note":
		return NoteEventsSubject
	case "todo":
		return TodoEventsSubject
	default:
		return OtherEventsSubject
	}
}
