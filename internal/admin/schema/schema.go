// Package schema declares which fields the admin can edit, how each is
// presented and what it defaults to. The server stores values only.
package schema

type Kind string

const (
	Text     Kind = "text"
	Textarea Kind = "textarea"
	Number   Kind = "number"
	Rating   Kind = "rating"
	Bool     Kind = "bool"
	Choice   Kind = "choice"
	Image    Kind = "image"
)

type Option struct {
	Value string
	Label string
}

type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	Default  any
	Options  []Option
}

// Section is an ordered group of content fields.
type Section struct {
	Key    string
	Title  string
	Fields []Field
}

func (s Section) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Sections lists the editable content in display order.
var Sections = []Section{
	{
		Key:   "hero",
		Title: "القسم الرئيسي",
		Fields: []Field{
			{Key: "title", Label: "العنوان الرئيسي", Kind: Text},
			{Key: "subtitle", Label: "العنوان الفرعي", Kind: Text},
			{Key: "cta_text", Label: "نص زر الدعوة", Kind: Text},
			{Key: "stats_experience", Label: "سنوات الخبرة", Kind: Text},
			{Key: "stats_clients", Label: "عدد العملاء", Kind: Text},
			{Key: "stats_shipments", Label: "عدد الشحنات", Kind: Text},
		},
	},
	{
		Key:   "about",
		Title: "من نحن",
		Fields: []Field{
			{Key: "title", Label: "عنوان من نحن", Kind: Text},
			{Key: "description", Label: "وصف من نحن", Kind: Textarea},
			{Key: "experience_years", Label: "سنوات الخبرة", Kind: Text},
		},
	},
	{
		Key:   "contact",
		Title: "معلومات التواصل",
		Fields: []Field{
			{Key: "address", Label: "العنوان", Kind: Text},
			{Key: "phone", Label: "رقم الهاتف", Kind: Text},
			{Key: "email", Label: "البريد الإلكتروني", Kind: Text},
			{Key: "working_hours", Label: "ساعات العمل", Kind: Text},
		},
	},
}

func SectionByKey(key string) (Section, bool) {
	for _, s := range Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}
