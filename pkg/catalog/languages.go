package catalog

// Display labels for voices that fall outside the code table.
const (
	LabelUnknown = "Неизвестный"
	LabelCustom  = "Пользовательский"
)

// languageLabels maps provider language codes to the display labels shown in
// menus. Codes missing from the table resolve to LabelUnknown.
var languageLabels = map[string]string{
	"en": "Английский",
	"cz": "Чешский",
	"de": "Немецкий",
	"fr": "Французский",
	"es": "Испанский",
	"it": "Итальянский",
	"ru": "Русский",
	"zh": "Китайский",
	"ja": "Японский",
	"ko": "Корейский",
	"pt": "Португальский",
	"nl": "Нидерландский",
	"pl": "Польский",
	"sv": "Шведский",
	"tr": "Турецкий",
	"ar": "Арабский",
	"hi": "Хинди",
	"bn": "Бенгальский",
	"uk": "Украинский",
	"vi": "Вьетнамский",
	"el": "Греческий",
	"he": "Иврит",
	"hu": "Венгерский",
	"fi": "Финский",
	"da": "Датский",
	"no": "Норвежский",
	"ro": "Румынский",
	"bg": "Болгарский",
	"hr": "Хорватский",
	"sr": "Сербский",
	"sk": "Словацкий",
	"sl": "Словенский",
	"et": "Эстонский",
	"lv": "Латышский",
	"lt": "Литовский",
	"th": "Тайский",
	"id": "Индонезийский",
	"ms": "Малайский",
	"fa": "Персидский",
	"ur": "Урду",
	"ta": "Тамильский",
	"te": "Телугу",
	"ml": "Малаялам",
	"ka": "Грузинский",
	"hy": "Армянский",
	"az": "Азербайджанский",
	"kk": "Казахский",
	"uz": "Узбекский",
	"km": "Кхмерский",
	"my": "Бирманский",
	"mn": "Монгольский",
	"si": "Сингальский",
	"ne": "Непальский",
	"sq": "Албанский",
	"mk": "Македонский",
	"is": "Исландский",
	"ga": "Ирландский",
	"cy": "Валлийский",
	"eu": "Баскский",
	"ca": "Каталанский",
}

// LanguageLabel resolves a provider language code to its display label.
func LanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return LabelUnknown
}

// ClonedLanguageLabel resolves the language of a cloned voice: cloned voices
// usually carry no language code and land in the custom bucket.
func ClonedLanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return LabelCustom
}
