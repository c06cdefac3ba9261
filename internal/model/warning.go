package model

const (
	CategoryNormal   = "normal"
	CategoryAbnormal = "abnormal"
)

// WarningSign describes a normal change or an abnormal sign that needs a doctor's visit.
type WarningSign struct {
	ID            string `json:"id" bson:"_id" firestore:"-"`
	TitleAr       string `json:"title_ar" bson:"title_ar" firestore:"title_ar" validate:"required"`
	DescriptionAr string `json:"description_ar" bson:"description_ar" firestore:"description_ar" validate:"required"`
	Category      string `json:"category" bson:"category" firestore:"category" validate:"required,oneof=normal abnormal"`
	ImageURL      string `json:"image_url" bson:"image_url" firestore:"image_url" validate:"omitempty,url"`
}

func (w *WarningSign) GetID() string   { return w.ID }
func (w *WarningSign) SetID(id string) { w.ID = id }

var WarningSchema = Schema{
	Collection: CollectionWarnings,
	Resource:   "warnings",
	Title:      "العلامات التحذيرية",
	Noun:       "العلامة",
	Plural:     "العلامات التحذيرية",
	Fields: []Field{
		{Name: "title_ar", Label: "العنوان", Kind: KindText, Required: true, Listed: true},
		{Name: "description_ar", Label: "الوصف", Kind: KindTextArea, Required: true},
		{Name: "category", Label: "التصنيف", Kind: KindEnum, Required: true, Listed: true, Default: CategoryNormal,
			Options: []Option{
				{Value: CategoryNormal, Label: "تغيرات طبيعية"},
				{Value: CategoryAbnormal, Label: "علامات تستدعي مراجعة الطبيب"},
			}},
		{Name: "image_url", Label: "رابط الصورة", Kind: KindURL, UploadFolder: FolderWarnings},
	},
}
