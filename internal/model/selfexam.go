package model

// SelfExamStep is one step of the self-examination guide, shown in StepNumber order.
type SelfExamStep struct {
	ID            string `json:"id" bson:"_id" firestore:"-"`
	StepNumber    int    `json:"step_number" bson:"step_number" firestore:"step_number" validate:"gt=0"`
	TitleAr       string `json:"title_ar" bson:"title_ar" firestore:"title_ar" validate:"required"`
	DescriptionAr string `json:"description_ar" bson:"description_ar" firestore:"description_ar" validate:"required"`
	ImageURL      string `json:"image_url" bson:"image_url" firestore:"image_url" validate:"omitempty,url"`
	VideoURL      string `json:"video_url" bson:"video_url" firestore:"video_url" validate:"omitempty,url"`
}

func (s *SelfExamStep) GetID() string   { return s.ID }
func (s *SelfExamStep) SetID(id string) { s.ID = id }

var SelfExamSchema = Schema{
	Collection: CollectionSteps,
	Resource:   "self-exam",
	Title:      "خطوات الفحص الذاتي",
	Noun:       "الخطوة",
	Plural:     "خطوات الفحص",
	SortBy:     "step_number",
	Sequence:   "step_number",
	Fields: []Field{
		{Name: "step_number", Label: "رقم الخطوة", Kind: KindInt, Required: true, Listed: true},
		{Name: "title_ar", Label: "العنوان", Kind: KindText, Required: true, Listed: true},
		{Name: "description_ar", Label: "الوصف", Kind: KindTextArea, Required: true},
		{Name: "image_url", Label: "رابط الصورة", Kind: KindURL, UploadFolder: FolderSelfExam},
		{Name: "video_url", Label: "رابط الفيديو", Kind: KindURL},
	},
}
