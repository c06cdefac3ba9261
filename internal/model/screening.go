package model

const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// ScreeningSchedule recommends an exam type from a starting age.
type ScreeningSchedule struct {
	ID              string `json:"id" bson:"_id" firestore:"-"`
	Gender          string `json:"gender" bson:"gender" firestore:"gender" validate:"required,oneof=female male"`
	ExamType        string `json:"exam_type" bson:"exam_type" firestore:"exam_type" validate:"required,oneof=self clinical mammogram"`
	StartAge        int    `json:"start_age" bson:"start_age" firestore:"start_age" validate:"min=0"`
	FrequencyTextAr string `json:"frequency_text_ar" bson:"frequency_text_ar" firestore:"frequency_text_ar" validate:"required"`
	NotesAr         string `json:"notes_ar" bson:"notes_ar" firestore:"notes_ar"`
}

func (s *ScreeningSchedule) GetID() string   { return s.ID }
func (s *ScreeningSchedule) SetID(id string) { s.ID = id }

var ScreeningSchema = Schema{
	Collection: CollectionScreening,
	Resource:   "screening",
	Title:      "جداول الفحص الدوري",
	Noun:       "الموعد",
	Plural:     "مواعيد الكشف",
	SortBy:     "start_age",
	Fields: []Field{
		{Name: "gender", Label: "الجنس", Kind: KindEnum, Required: true, Listed: true, Default: GenderFemale,
			Options: []Option{{Value: GenderFemale, Label: "أنثى"}, {Value: GenderMale, Label: "ذكر"}}},
		{Name: "exam_type", Label: "نوع الفحص", Kind: KindEnum, Required: true, Listed: true, Default: "self",
			Options: []Option{
				{Value: "self", Label: "فحص ذاتي"},
				{Value: "clinical", Label: "فحص سريري"},
				{Value: "mammogram", Label: "تصوير الثدي الشعاعي (ماموجرام)"},
			}},
		{Name: "start_age", Label: "العمر عند البدء", Kind: KindInt, Required: true, Listed: true, Default: 20},
		{Name: "frequency_text_ar", Label: "التكرار", Kind: KindText, Required: true, Listed: true},
		{Name: "notes_ar", Label: "ملاحظات", Kind: KindTextArea},
	},
}
