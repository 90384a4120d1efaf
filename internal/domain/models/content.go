package models

// SiteContent is the singleton configuration blob behind the public site,
// stored as the document "content" in the "site" collection. Sections are
// pointers so an absent section can be told apart from an empty one and
// replaced with its baked-in default.
type SiteContent struct {
	Contact *ContactSection `bson:"contact,omitempty" json:"contact,omitempty"`
	Hours   *HoursSection   `bson:"hours,omitempty" json:"hours,omitempty"`
	Footer  *FooterSection  `bson:"footer,omitempty" json:"footer,omitempty"`
	Images  *ImagesSection  `bson:"images,omitempty" json:"images,omitempty"`
}

// ContactSection holds the phone numbers and address shown on the site.
type ContactSection struct {
	PhoneMain      string `bson:"phoneMain" json:"phoneMain"`
	PhoneMobile    string `bson:"phoneMobile" json:"phoneMobile"`
	Email          string `bson:"email" json:"email"`
	Address        string `bson:"address" json:"address"`
	EmergencyText  string `bson:"emergencyText" json:"emergencyText"`
	EmergencyPhone string `bson:"emergencyPhone" json:"emergencyPhone"`
}

// HoursSection holds the free-form working hours text.
type HoursSection struct {
	WorkingHoursText string `bson:"workingHoursText" json:"workingHoursText"`
}

// FooterSection holds the footer description and newline-separated links.
type FooterSection struct {
	Description string `bson:"description" json:"description"`
	Links       string `bson:"links" json:"links"`
}

// GalleryImage is one uploaded gallery entry.
type GalleryImage struct {
	Name string `bson:"name" json:"name"`
	Data string `bson:"data" json:"data"`
}

// ImagesSection holds the hero image and gallery configuration. GalleryMode
// is "replace" or "add" and controls whether uploaded images replace the
// default gallery or extend it.
type ImagesSection struct {
	HeroImage     string         `bson:"heroImage" json:"heroImage"`
	GalleryMode   string         `bson:"galleryMode" json:"galleryMode"`
	GalleryImages []GalleryImage `bson:"galleryImages,omitempty" json:"galleryImages,omitempty"`
}

// DefaultSiteContent returns the baked-in fallback used when a section was
// never saved by the admin panel.
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Contact: &ContactSection{
			PhoneMain:      "۰۲۱-۱۲۳۴۵۶۷۸",
			PhoneMobile:    "۰۹۱۲۳۴۵۶۷۸۹",
			Email:          "info@maximahome.ir",
			Address:        "تهران، خیابان ولیعصر",
			EmergencyText:  "تماس اورژانسی در تمام ساعات شبانه‌روز",
			EmergencyPhone: "۰۹۱۲۳۴۵۶۷۸۹",
		},
		Hours: &HoursSection{
			WorkingHoursText: "شنبه تا پنجشنبه ۸ تا ۲۰",
		},
		Footer: &FooterSection{
			Description: "مکسیما هوم، مرکز تخصصی تعمیرات خودرو",
			Links:       "خدمات\nرزرو نوبت\nتماس با ما",
		},
		Images: &ImagesSection{
			GalleryMode: "replace",
		},
	}
}

// FillDefaults replaces every absent section with its default so callers
// always see a fully-populated document.
func (c *SiteContent) FillDefaults() {
	def := DefaultSiteContent()
	if c.Contact == nil {
		c.Contact = def.Contact
	}
	if c.Hours == nil {
		c.Hours = def.Hours
	}
	if c.Footer == nil {
		c.Footer = def.Footer
	}
	if c.Images == nil {
		c.Images = def.Images
	}
}
