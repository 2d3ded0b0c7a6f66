package database

import (
	"errors"
	"fmt"

	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

var defaultContent = []models.SiteContent{
	{Section: "hero", Key: "title", Value: "أفضل الحلول لاستيراد المواد الغذائية", Type: "text"},
	{Section: "hero", Key: "subtitle", Value: "نوفر منتجات غذائية عالية الجودة للمؤسسات والمتاجر المحلية", Type: "text"},
	{Section: "hero", Key: "cta_text", Value: "تواصل معنا", Type: "text"},
	{Section: "hero", Key: "stats_experience", Value: "15", Type: "text"},
	{Section: "hero", Key: "stats_clients", Value: "500", Type: "text"},
	{Section: "hero", Key: "stats_shipments", Value: "1000", Type: "text"},
	{Section: "about", Key: "title", Value: "شركة ليبية متخصصة في استيراد المواد الغذائية", Type: "text"},
	{Section: "about", Key: "description", Value: "نركز على الجودة والموثوقية في كل شحنة. نعمل مع شبكة عالمية من الموردين لنقدم لعملائنا الأفضل دائماً.", Type: "textarea"},
	{Section: "about", Key: "experience_years", Value: "15", Type: "text"},
	{Section: "contact", Key: "address", Value: "طرابلس، ليبيا - شارع الجمهورية", Type: "text"},
	{Section: "contact", Key: "phone", Value: "+218 91 234 5678", Type: "text"},
	{Section: "contact", Key: "email", Value: "info@foodcompany.ly", Type: "text"},
	{Section: "contact", Key: "working_hours", Value: "السبت - الخميس: 8ص - 5م", Type: "text"},
}

var defaultServices = []models.Service{
	{Title: "استيراد المواد الأساسية", Description: "نحن متخصصون في استيراد السلع الغذائية الأساسية مثل الدقيق، السكر، والزيوت النباتية بأعلى معايير الجودة العالمية.", Icon: "Wheat", Color: "from-yellow-400 to-yellow-600", OrderNum: 1},
	{Title: "منتجات الألبان والأجبان", Description: "توفير تشكيلة واسعة من أجود أنواع الألبان والأجبان المستوردة من أرقى المزارع العالمية.", Icon: "Milk", Color: "from-blue-400 to-blue-600", OrderNum: 2},
	{Title: "الاستيراد والتصدير المخصص", Description: "حلول مخصصة للشركات والمصانع الراغبة في استيراد مواد خام غذائية محددة.", Icon: "Package", Color: "from-orange-400 to-orange-600", OrderNum: 3},
	{Title: "حلول النقل اللوجستي", Description: "أسطول مجهز ونظام تتبع متكامل لضمان وصول الشحنات في وقتها وبحالته الممتازة.", Icon: "Truck", Color: "from-green-400 to-green-600", OrderNum: 4},
	{Title: "التخزين المبرد والجاف", Description: "مستودعات حديثة مجهزة بأحدث أنظمة التبريد والتحكم في الحرارة لضمان سلامة الأغذية.", Icon: "Warehouse", Color: "from-purple-400 to-purple-600", OrderNum: 5},
	{Title: "استشارات السوق الغذائي", Description: "دراسات سوقية وافية وتحليلات لمساعدة شركائنا على اتخاذ أفضل قرارات الشراء.", Icon: "Lightbulb", Color: "from-red-400 to-red-600", OrderNum: 6},
}

var defaultProjects = []models.Project{
	{Title: "شحنة الدقيق الكبرى 2024", Description: "تأمين 250,000 طن من أجود أنواع الدقيق لتلبية احتياجات السوق المحلي.", Image: "/project-2.jpg", Location: "طرابلس، بنغازي", Date: "يناير 2024", Weight: "250K Ton", OrderNum: 1},
	{Title: "تجهيز مستودعات طرابلس المركزية", Description: "تطوير وتجهيز أكبر مستودع مبرد في المنطقة الغربية بأحدث التقنيات.", Image: "/project-3.jpg", Location: "طرابلس - قصر بن غشير", Date: "مارس 2024", Weight: "M² 5000", OrderNum: 2},
	{Title: "اتفاقية توريد منتجات الألبان", Description: "توقيع اتفاقية حصرية مع كبار المنتجين الأوروبيين لتوريد أجود أنواع الأجبان.", Image: "/project-4.jpg", Location: "الخمس، مصراتة", Date: "مايو 2024", Weight: "150 Containers", OrderNum: 3},
}

var defaultTestimonials = []models.Testimonial{
	{Name: "محمد السويحلي", Position: "مدير سلسلة متاجر الغذاء", Content: "شراكتنا مع الشركة الليبية للغذاء ممتدة لأكثر من 5 سنوات، ونحن نعتبرهم الركيزة الأساسية في توفير المنتجات عالية الجودة لعملائنا.", Image: "/client-1.jpg", Rating: 5, OrderNum: 1},
	{Name: "سارة محمود", Position: "مديرة مشتريات مجموعة الفنادق", Content: "الالتزام بالمواعيد والجودة هو ما يميز هذه الشركة. لم يسبق وأن تأخرت أي شحنة طلبتها، والمنتجات دائماً طازجة.", Image: "/client-2.jpg", Rating: 5, OrderNum: 2},
	{Name: "عمر مختار", Position: "صاحب مصنع للمخبوزات", Content: "الدقيق الذي توفره الشركة هو الأفضل في السوق. الجودة مستقرة وهذا ما يساعدنا في الحفاظ على مستوى إنتاجنا.", Image: "/client-3.jpg", Rating: 5, OrderNum: 3},
}

var defaultNews = []models.NewsItem{
	{Title: "توسيع شبكة الموردين العالمية", Excerpt: "أعلنت الشركة اليوم عن توقيع اتفاقيات جديدة مع موردين رائدين في أمريكا اللاتينية لضمان استقرار إمدادات الحبوب.", Content: "وقعت الشركة الليبية للغذاء سلسلة من مذكرات التفاهم مع كبار منتجي الصويا والذرة في البرازيل والأرجنتين. تأتي هذه الخطوة في إطار خطة استراتيجية لتعزيز الأمن الغذائي وتنويع مصادر الاستيراد لضمان أفضل الأسعار والجودة للمستهلك الليبي.", Image: "/hero-bg.jpg", Category: "إنجازات", Author: "الإدارة العامة", Date: "2024-05-15", IsFeatured: true},
	{Title: "إطلاق تطبيق \"شريك الغذاء\" للموزعين", Excerpt: "نظام رقمي جديد يتيح للموزعين تتبع طلباتهم وشحناتهم بشكل لحظي وتسهيل التعاملات المالية.", Content: "في خطوة نحو التحول الرقمي، أطلقت الشركة تطبيقها الجديد المخصص لشركائها التجاريين والموزعين، والذي يهدف إلى تبسيط عملية الطلب وتوفير شفافية كاملة في سلسلة الإمداد.", Image: "/news-2.jpg", Category: "تكنولوجيا", Author: "قسم التطوير الرقمي", Date: "2024-05-10"},
	{Title: "الشركة تحصد جائزة الجودة العالمية", Excerpt: "تم منح شركتنا شهادة الأيزو العالمية في جودة الخدمات اللوجستية وتخزين المواد الغذائية.", Content: "بعد فحوصات دقيقة وتدقيق شامل، حصلت الشركة الليبية للغذاء على شهادة الجودة الدولية، مما يؤكد التزامنا بأعلى المعايير العالمية في التعامل مع المواد الغذائية وتخزينها.", Image: "/news-3.jpg", Category: "جوائز", Author: "مكتب الإعلام", Date: "2024-05-02"},
}

// Seed inserts the admin account, the default site content and the default
// list records. Content rows that already exist are left untouched and list
// tables are only filled while empty, so Seed is safe to run on every start.
func Seed(db *gorm.DB, admin AdminSeed) error {
	if err := seedAdmin(db, admin); err != nil {
		return err
	}

	content := make([]models.SiteContent, len(defaultContent))
	copy(content, defaultContent)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&content).Error; err != nil {
		return fmt.Errorf("failed to seed content: %w", err)
	}

	if err := seedIfEmpty(db, defaultServices); err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}
	if err := seedIfEmpty(db, defaultProjects); err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}
	if err := seedIfEmpty(db, defaultTestimonials); err != nil {
		return fmt.Errorf("failed to seed testimonials: %w", err)
	}
	if err := seedIfEmpty(db, defaultNews); err != nil {
		return fmt.Errorf("failed to seed news: %w", err)
	}

	return nil
}

func seedAdmin(db *gorm.DB, admin AdminSeed) error {
	var existing models.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func seedIfEmpty[T any](db *gorm.DB, rows []T) error {
	var count int64
	if err := db.Model(new(T)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	batch := make([]T, len(rows))
	copy(batch, rows)
	return db.Create(&batch).Error
}
