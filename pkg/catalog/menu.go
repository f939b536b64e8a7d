package catalog

import (
	"fmt"
	"sort"
)

// LanguagesPerPage bounds the language menu so it fits in one screen of
// inline buttons.
const LanguagesPerPage = 6

type Button struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// Menu is a transport-agnostic button grid. Rendering it (inline keyboard,
// terminal list, ...) is the channel's job.
type Menu struct {
	Rows [][]Button `json:"rows"`
}

// Languages returns the distinct language labels present in voices, sorted
// lexicographically.
func Languages(voices []Voice) []string {
	seen := make(map[string]struct{}, len(voices))
	var languages []string
	for _, v := range voices {
		if _, ok := seen[v.Language]; ok {
			continue
		}
		seen[v.Language] = struct{}{}
		languages = append(languages, v.Language)
	}
	sort.Strings(languages)
	return languages
}

// LanguageMenu builds page p of the language picker: one language per row,
// then a navigation row (previous iff p>0, inert page indicator, next iff p
// is not the last page), then cancel. Pages are 0-based.
func LanguageMenu(voices []Voice, page int) Menu {
	languages := Languages(voices)

	totalPages := (len(languages) + LanguagesPerPage - 1) / LanguagesPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * LanguagesPerPage
	end := start + LanguagesPerPage
	if end > len(languages) {
		end = len(languages)
	}

	var menu Menu
	for _, language := range languages[start:end] {
		menu.Rows = append(menu.Rows, []Button{{
			Label:   language,
			Payload: LangPayload(language),
		}})
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Label: "⬅️ Назад", Payload: PagePayload(page - 1)})
	}
	nav = append(nav, Button{
		Label:   fmt.Sprintf("%d/%d", page+1, totalPages),
		Payload: PayloadNoop,
	})
	if page < totalPages-1 {
		nav = append(nav, Button{Label: "Далее ➡️", Payload: PagePayload(page + 1)})
	}
	menu.Rows = append(menu.Rows, nav)

	menu.Rows = append(menu.Rows, []Button{{Label: "❌ Отмена", Payload: PayloadCancel}})
	return menu
}

// VoiceMenu reduces the voices of one language to a short picker: the first
// non-cloned male, the first non-cloned female, and every cloned voice, each
// on its own row, with a back affordance at the bottom.
func VoiceMenu(voices []Voice, language string) Menu {
	var menu Menu

	var male, female *Voice
	for i := range voices {
		v := &voices[i]
		if v.Language != language || v.IsCloned {
			continue
		}
		if male == nil && v.Gender == GenderMale {
			male = v
		}
		if female == nil && v.Gender == GenderFemale {
			female = v
		}
	}

	if male != nil {
		menu.Rows = append(menu.Rows, []Button{{
			Label:   "Male: " + male.Name,
			Payload: VoicePayload(male.VoiceID),
		}})
	}
	if female != nil {
		menu.Rows = append(menu.Rows, []Button{{
			Label:   "Female: " + female.Name,
			Payload: VoicePayload(female.VoiceID),
		}})
	}

	for _, v := range voices {
		if v.Language != language || !v.IsCloned {
			continue
		}
		menu.Rows = append(menu.Rows, []Button{{
			Label:   "Custom: " + v.Name,
			Payload: VoicePayload(v.VoiceID),
		}})
	}

	menu.Rows = append(menu.Rows, []Button{{Label: "Back", Payload: PayloadBack}})
	return menu
}

// CancelMenu is the single-button escape hatch shown while a flow waits for
// user input.
func CancelMenu() Menu {
	return Menu{Rows: [][]Button{{{Label: "Cancel", Payload: PayloadCancel}}}}
}
