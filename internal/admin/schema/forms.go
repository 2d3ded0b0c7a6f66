package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Form describes the create/edit modal of one resource.
type Form struct {
	Entity string
	Fields []Field
}

func (f Form) Field(key string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Key == key {
			return fd, true
		}
	}
	return Field{}, false
}

// ImageField returns the key of the upload-capable field, if the form has one.
func (f Form) ImageField() (string, bool) {
	for _, fd := range f.Fields {
		if fd.Kind == Image {
			return fd.Key, true
		}
	}
	return "", false
}

// Defaults returns a blank draft.
func (f Form) Defaults() map[string]any {
	draft := make(map[string]any, len(f.Fields))
	for _, fd := range f.Fields {
		draft[fd.Key] = fd.zero()
	}
	return draft
}

// Missing reports required fields that are empty in draft.
func (f Form) Missing(draft map[string]any) map[string]string {
	var errs map[string]string
	for _, fd := range f.Fields {
		if !fd.Required {
			continue
		}
		v := draft[fd.Key]
		if s, ok := v.(string); ok {
			if strings.TrimSpace(s) != "" {
				continue
			}
		} else if v != nil {
			continue
		}
		if errs == nil {
			errs = map[string]string{}
		}
		errs[fd.Key] = fd.Label + " مطلوب"
	}
	return errs
}

func (fd Field) zero() any {
	if fd.Default != nil {
		return fd.Default
	}
	switch fd.Kind {
	case Number, Rating:
		return 0
	case Bool:
		return false
	}
	return ""
}

// Coerce converts an input value to the field's Go type: string for
// textual kinds, int for number and rating, bool for bool.
func (fd Field) Coerce(v any) (any, error) {
	switch fd.Kind {
	case Number, Rating:
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fd.Key, err)
		}
		if fd.Kind == Rating && (n < 1 || n > 5) {
			return nil, fmt.Errorf("%s: rating must be between 1 and 5", fd.Key)
		}
		return n, nil
	case Bool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fd.Key, err)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("%s: expected a boolean, got %T", fd.Key, v)
	case Choice:
		s := fmt.Sprint(v)
		for _, opt := range fd.Options {
			if opt.Value == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not one of the allowed options", fd.Key, s)
	}

	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

var ServiceIcons = []Option{
	{Value: "Wheat", Label: "قمح"},
	{Value: "Milk", Label: "حليب"},
	{Value: "Package", Label: "صندوق"},
	{Value: "Truck", Label: "شاحنة"},
	{Value: "Warehouse", Label: "مستودع"},
	{Value: "Lightbulb", Label: "فكرة"},
}

var ServiceColors = []Option{
	{Value: "from-amber-500 to-amber-600", Label: "ذهبي"},
	{Value: "from-blue-500 to-blue-600", Label: "أزرق"},
	{Value: "from-green-500 to-green-600", Label: "أخضر"},
	{Value: "from-orange-500 to-orange-600", Label: "برتقالي"},
	{Value: "from-purple-500 to-purple-600", Label: "بنفسجي"},
	{Value: "from-rose-500 to-rose-600", Label: "وردي"},
}

var NewsCategories = []Option{
	{Value: "أخبار الشركة", Label: "أخبار الشركة"},
	{Value: "إنجازات", Label: "إنجازات"},
	{Value: "شراكات", Label: "شراكات"},
	{Value: "فعاليات", Label: "فعاليات"},
}

var ServiceForm = Form{
	Entity: "service",
	Fields: []Field{
		{Key: "title", Label: "العنوان", Kind: Text, Required: true},
		{Key: "description", Label: "الوصف", Kind: Textarea, Required: true},
		{Key: "icon", Label: "الأيقونة", Kind: Choice, Default: "Wheat", Options: ServiceIcons},
		{Key: "color", Label: "اللون", Kind: Choice, Default: "from-green-500 to-green-600", Options: ServiceColors},
		{Key: "order_num", Label: "الترتيب", Kind: Number},
	},
}

var ProjectForm = Form{
	Entity: "project",
	Fields: []Field{
		{Key: "title", Label: "العنوان", Kind: Text, Required: true},
		{Key: "description", Label: "الوصف", Kind: Textarea, Required: true},
		{Key: "image", Label: "الصورة", Kind: Image},
		{Key: "location", Label: "الموقع", Kind: Text, Required: true},
		{Key: "date", Label: "التاريخ", Kind: Text, Required: true},
		{Key: "weight", Label: "الوزن (اختياري)", Kind: Text},
		{Key: "order_num", Label: "الترتيب", Kind: Number},
	},
}

var TestimonialForm = Form{
	Entity: "testimonial",
	Fields: []Field{
		{Key: "image", Label: "الصورة", Kind: Image},
		{Key: "name", Label: "الاسم", Kind: Text, Required: true},
		{Key: "position", Label: "المنصب", Kind: Text, Required: true},
		{Key: "rating", Label: "التقييم", Kind: Rating, Default: 5},
		{Key: "content", Label: "الرأي", Kind: Textarea, Required: true},
		{Key: "order_num", Label: "الترتيب", Kind: Number},
	},
}

var NewsForm = Form{
	Entity: "news",
	Fields: []Field{
		{Key: "image", Label: "الصورة", Kind: Image},
		{Key: "title", Label: "العنوان", Kind: Text, Required: true},
		{Key: "category", Label: "الفئة", Kind: Choice, Default: "أخبار الشركة", Options: NewsCategories},
		{Key: "excerpt", Label: "المقتطف", Kind: Textarea, Required: true},
		{Key: "content", Label: "المحتوى الكامل", Kind: Textarea, Required: true},
		{Key: "author", Label: "الكاتب", Kind: Text, Required: true},
		{Key: "date", Label: "التاريخ", Kind: Text, Required: true},
		{Key: "is_featured", Label: "خبر مميز (يظهر في المقدمة)", Kind: Bool},
	},
}

// MessageForm is read-only in the admin; it only names the displayed fields.
var MessageForm = Form{
	Entity: "message",
	Fields: []Field{
		{Key: "name", Label: "الاسم", Kind: Text},
		{Key: "email", Label: "البريد الإلكتروني", Kind: Text},
		{Key: "phone", Label: "رقم الهاتف", Kind: Text},
		{Key: "message", Label: "الرسالة", Kind: Textarea},
		{Key: "is_read", Label: "مقروءة", Kind: Bool},
	},
}
