package model

import "time"

// SettingsID is the fixed id of the single settings document.
const SettingsID = "general"

// SiteSettings holds site-wide legal and contact text. Exactly one instance exists.
type SiteSettings struct {
	ID                string    `json:"id" bson:"_id" firestore:"-"`
	PrivacyPolicyAr   string    `json:"privacy_policy_ar" bson:"privacy_policy_ar" firestore:"privacy_policy_ar"`
	TermsConditionsAr string    `json:"terms_conditions_ar" bson:"terms_conditions_ar" firestore:"terms_conditions_ar"`
	AboutUsAr         string    `json:"about_us_ar" bson:"about_us_ar" firestore:"about_us_ar"`
	ContactEmail      string    `json:"contact_email" bson:"contact_email" firestore:"contact_email" validate:"omitempty,email"`
	ContactPhone      string    `json:"contact_phone" bson:"contact_phone" firestore:"contact_phone"`
	LastUpdated       time.Time `json:"last_updated" bson:"last_updated" firestore:"last_updated"`
}

func (s *SiteSettings) GetID() string   { return s.ID }
func (s *SiteSettings) SetID(id string) { s.ID = id }

var SettingsSchema = Schema{
	Collection: CollectionSettings,
	Resource:   "settings",
	Title:      "إعدادات الموقع",
	Noun:       "الإعدادات",
	Plural:     "الإعدادات",
	Fields: []Field{
		{Name: "privacy_policy_ar", Label: "سياسة الخصوصية", Kind: KindTextArea},
		{Name: "terms_conditions_ar", Label: "الشروط والأحكام", Kind: KindTextArea},
		{Name: "about_us_ar", Label: "من نحن", Kind: KindTextArea},
		{Name: "contact_email", Label: "البريد الإلكتروني للتواصل", Kind: KindEmail},
		{Name: "contact_phone", Label: "رقم الهاتف", Kind: KindText},
	},
}
