package model

import "time"

// Collection names in the document store.
const (
	CollectionArticles  = "articles"
	CollectionReminders = "reminder_templates"
	CollectionScreening = "screening_schedules"
	CollectionSteps     = "self_exam_steps"
	CollectionWarnings  = "warning_signs"
	CollectionSettings  = "settings"
	CollectionUsers     = "users"
)

// Record is implemented by every document stored in a collection.
// Records are flat documents identified by an opaque string id.
type Record interface {
	GetID() string
	SetID(id string)
}

// RecordPtr constrains a type parameter to a pointer to T that implements Record,
// so generic stores can allocate a T and still assign its id.
type RecordPtr[T any] interface {
	*T
	Record
}

// Stamped is implemented by records that carry a server-assigned creation time.
type Stamped interface {
	StampCreated(t time.Time)
}

// Upload folders for media.
const (
	FolderArticles = "articles"
	FolderSelfExam = "self-exam"
	FolderWarnings = "warnings"
)

// UploadFolders lists the folders media may be uploaded to.
var UploadFolders = []string{FolderArticles, FolderSelfExam, FolderWarnings}

// EditorSchemas lists the record editors in dashboard navigation order.
func EditorSchemas() []Schema {
	return []Schema{ArticleSchema, ReminderSchema, ScreeningSchema, SelfExamSchema, WarningSchema}
}

// SchemaFor returns the editor schema served under resource.
func SchemaFor(resource string) (Schema, bool) {
	for _, s := range EditorSchemas() {
		if s.Resource == resource {
			return s, true
		}
	}
	return Schema{}, false
}
