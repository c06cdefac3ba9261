package model

// ReminderTemplate is an admin-managed reminder message. It is not rendered publicly.
type ReminderTemplate struct {
	ID                  string `json:"id" bson:"_id" firestore:"-"`
	TitleAr             string `json:"title_ar" bson:"title_ar" firestore:"title_ar" validate:"required"`
	MessageAr           string `json:"message_ar" bson:"message_ar" firestore:"message_ar" validate:"required"`
	DefaultIntervalDays int    `json:"default_interval_days" bson:"default_interval_days" firestore:"default_interval_days" validate:"gt=0"`
	IsActive            bool   `json:"is_active" bson:"is_active" firestore:"is_active"`
}

func (r *ReminderTemplate) GetID() string   { return r.ID }
func (r *ReminderTemplate) SetID(id string) { r.ID = id }

var ReminderSchema = Schema{
	Collection: CollectionReminders,
	Resource:   "reminders",
	Title:      "قوالب التذكير",
	Noun:       "القالب",
	Plural:     "قوالب التذكير",
	SortBy:     "title_ar",
	Fields: []Field{
		{Name: "title_ar", Label: "العنوان", Kind: KindText, Required: true, Listed: true},
		{Name: "message_ar", Label: "نص الرسالة", Kind: KindTextArea, Required: true},
		{Name: "default_interval_days", Label: "الفترة الافتراضية (أيام)", Kind: KindInt, Required: true, Listed: true, Default: 30},
		{Name: "is_active", Label: "مفعل", Kind: KindBool, Listed: true, Default: true},
	},
}
