package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// Message keys. The English text doubles as the key.
const (
	msgTitle     = "Highlighted Text from PDF"
	msgSource    = "Source file: %s"
	msgDate      = "Extraction date: %s"
	msgCount     = "Number of extracted texts: %d"
	msgEntry     = "[%d] Page %d - Method: %s"
	msgColor     = "Color: %s"
	msgAuthor    = "Author: %s"
	msgNote      = "Note: %s"
	msgNoResults = "No highlighted text found in this file."
	msgFound     = "Found %d highlighted text(s)!"
	msgStats     = "Matches by method (before removing duplicates):"
	msgStatsLine = "  %-24s %d"
	msgTotals    = "Total: %d, unique: %d"
)

// Supported lists the report languages
var Supported = []language.Tag{language.English, language.Arabic}

var (
	matcher  = language.NewMatcher(Supported)
	messages = newCatalog()
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	arabic := map[string]string{
		msgTitle:     "النصوص المظللة من ملف PDF",
		msgSource:    "الملف المصدر: %s",
		msgDate:      "تاريخ الاستخراج: %s",
		msgCount:     "عدد النصوص المستخرجة: %d",
		msgEntry:     "[%d] الصفحة %d - الطريقة: %s",
		msgColor:     "اللون: %s",
		msgAuthor:    "المؤلف: %s",
		msgNote:      "ملاحظة: %s",
		msgNoResults: "لم يتم العثور على نص مظلل في هذا الملف.",
		msgFound:     "تم العثور على %d نص مظلل!",
		msgStats:     "المطابقات حسب الطريقة (قبل إزالة التكرار):",
		msgStatsLine: "  %-24s %d",
		msgTotals:    "الإجمالي: %d، الفريد: %d",
	}
	for key, msg := range arabic {
		if err := b.SetString(language.Arabic, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}

// ParseLang matches a language name such as "ar" or "en-GB" against the
// supported languages. Unknown names give English.
func ParseLang(name string) language.Tag {
	_, index := language.MatchStrings(matcher, name)
	return Supported[index]
}

// IsRTL reports whether the language is written right to left
func IsRTL(lang language.Tag) bool {
	base, _ := lang.Base()
	switch base.String() {
	case "ar", "fa", "he", "ur":
		return true
	}
	return false
}

func printer(lang language.Tag) *message.Printer {
	if lang == language.Und {
		lang = language.English
	}
	return message.NewPrinter(lang, message.Catalog(messages))
}

// plain formats a count or page number without digit grouping
func plain(n int) number.Formatter {
	return number.Decimal(n, number.NoSeparator())
}
