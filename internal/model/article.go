package model

import "time"

// Media kinds of an article.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Article is an awareness article. Only published articles are shown publicly,
// ordered by DisplayOrder.
type Article struct {
	ID           string    `json:"id" bson:"_id" firestore:"-"`
	TitleAr      string    `json:"title_ar" bson:"title_ar" firestore:"title_ar" validate:"required"`
	BodyAr       string    `json:"body_ar" bson:"body_ar" firestore:"body_ar" validate:"required"`
	MediaURL     string    `json:"media_url" bson:"media_url" firestore:"media_url" validate:"omitempty,url"`
	MediaType    string    `json:"media_type" bson:"media_type" firestore:"media_type" validate:"required,oneof=image video"`
	IsPublished  bool      `json:"is_published" bson:"is_published" firestore:"is_published"`
	DisplayOrder int       `json:"display_order" bson:"display_order" firestore:"display_order" validate:"min=0"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" firestore:"created_at"`
}

func (a *Article) GetID() string            { return a.ID }
func (a *Article) SetID(id string)          { a.ID = id }
func (a *Article) StampCreated(t time.Time) { a.CreatedAt = t }

// ArticleSchema describes the article editor.
var ArticleSchema = Schema{
	Collection: CollectionArticles,
	Resource:   "articles",
	Title:      "إدارة المقالات",
	Noun:       "المقال",
	Plural:     "المقالات",
	SortBy:     "display_order",
	Sequence:   "display_order",
	Fields: []Field{
		{Name: "title_ar", Label: "العنوان", Kind: KindText, Required: true, Listed: true},
		{Name: "body_ar", Label: "المحتوى", Kind: KindTextArea, Required: true},
		{Name: "media_type", Label: "نوع الوسائط", Kind: KindEnum, Required: true, Listed: true, Default: MediaImage,
			Options: []Option{{Value: MediaImage, Label: "صورة"}, {Value: MediaVideo, Label: "فيديو"}}},
		{Name: "media_url", Label: "رابط الوسائط", Kind: KindURL, UploadFolder: FolderArticles},
		{Name: "display_order", Label: "ترتيب العرض", Kind: KindInt, Required: true, Listed: true},
		{Name: "is_published", Label: "منشور", Kind: KindBool, Listed: true, Default: true},
	},
}
