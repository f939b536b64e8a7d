package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voicesWithLanguages(labels ...string) []Voice {
	voices := make([]Voice, 0, len(labels))
	for i, label := range labels {
		voices = append(voices, Voice{
			VoiceID:  fmt.Sprintf("v%d", i),
			Name:     fmt.Sprintf("Voice %d", i),
			Language: label,
			Gender:   GenderMale,
		})
	}
	return voices
}

func TestLanguagesDedupesAndSorts(t *testing.T) {
	voices := voicesWithLanguages("B", "A", "B", "C", "A")
	assert.Equal(t, []string{"A", "B", "C"}, Languages(voices))
}

func TestLanguageMenuSinglePage(t *testing.T) {
	voices := voicesWithLanguages("A", "B", "C")
	menu := LanguageMenu(voices, 0)

	// 3 language rows + nav row + cancel row
	require.Len(t, menu.Rows, 5)
	assert.Equal(t, "A", menu.Rows[0][0].Label)
	assert.Equal(t, "lang_A", menu.Rows[0][0].Payload)

	nav := menu.Rows[3]
	require.Len(t, nav, 1, "single page must have no navigation arrows")
	assert.Equal(t, "1/1", nav[0].Label)
	assert.Equal(t, PayloadNoop, nav[0].Payload)

	cancel := menu.Rows[4]
	assert.Equal(t, PayloadCancel, cancel[0].Payload)
}

func TestLanguageMenuFirstPageNav(t *testing.T) {
	labels := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		labels = append(labels, fmt.Sprintf("L%02d", i))
	}
	voices := voicesWithLanguages(labels...)

	menu := LanguageMenu(voices, 0)
	require.Len(t, menu.Rows, LanguagesPerPage+2)

	nav := menu.Rows[LanguagesPerPage]
	require.Len(t, nav, 2, "first page shows indicator and next only")
	assert.Equal(t, "1/3", nav[0].Label)
	assert.Equal(t, PagePayload(1), nav[1].Payload)
}

func TestLanguageMenuMiddlePageNav(t *testing.T) {
	labels := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		labels = append(labels, fmt.Sprintf("L%02d", i))
	}
	voices := voicesWithLanguages(labels...)

	menu := LanguageMenu(voices, 1)
	nav := menu.Rows[LanguagesPerPage]
	require.Len(t, nav, 3, "middle page shows both arrows")
	assert.Equal(t, PagePayload(0), nav[0].Payload)
	assert.Equal(t, "2/3", nav[1].Label)
	assert.Equal(t, PagePayload(2), nav[2].Payload)
}

func TestLanguageMenuLastPageNav(t *testing.T) {
	labels := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		labels = append(labels, fmt.Sprintf("L%02d", i))
	}
	voices := voicesWithLanguages(labels...)

	menu := LanguageMenu(voices, 2)
	// 2 leftover languages + nav + cancel
	require.Len(t, menu.Rows, 4)
	nav := menu.Rows[2]
	require.Len(t, nav, 2, "last page shows previous and indicator only")
	assert.Equal(t, PagePayload(1), nav[0].Payload)
	assert.Equal(t, "3/3", nav[1].Label)
}

func TestLanguageMenuClampsOutOfRangePages(t *testing.T) {
	voices := voicesWithLanguages("A", "B", "C")

	below := LanguageMenu(voices, -5)
	above := LanguageMenu(voices, 99)
	assert.Equal(t, LanguageMenu(voices, 0), below)
	assert.Equal(t, LanguageMenu(voices, 0), above)
}

func TestVoiceMenuPicksFirstPerGenderAndAllCloned(t *testing.T) {
	voices := []Voice{
		{VoiceID: "m1", Name: "Adam", Language: "Английский", Gender: GenderMale},
		{VoiceID: "m2", Name: "Brian", Language: "Английский", Gender: GenderMale},
		{VoiceID: "f1", Name: "Alice", Language: "Английский", Gender: GenderFemale},
		{VoiceID: "c1", Name: "Mine", Language: "Английский", Gender: GenderCustom, IsCloned: true},
		{VoiceID: "c2", Name: "Other", Language: "Английский", Gender: GenderCustom, IsCloned: true},
		{VoiceID: "x1", Name: "Hans", Language: "Немецкий", Gender: GenderMale},
	}

	menu := VoiceMenu(voices, "Английский")
	require.Len(t, menu.Rows, 5)

	assert.Equal(t, "Male: Adam", menu.Rows[0][0].Label)
	assert.Equal(t, VoicePayload("m1"), menu.Rows[0][0].Payload)
	assert.Equal(t, "Female: Alice", menu.Rows[1][0].Label)
	assert.Equal(t, "Custom: Mine", menu.Rows[2][0].Label)
	assert.Equal(t, "Custom: Other", menu.Rows[3][0].Label)
	assert.Equal(t, PayloadBack, menu.Rows[4][0].Payload)
}

func TestVoiceMenuMissingGenderRowsAreOmitted(t *testing.T) {
	voices := []Voice{
		{VoiceID: "f1", Name: "Alice", Language: "Немецкий", Gender: GenderFemale},
	}

	menu := VoiceMenu(voices, "Немецкий")
	require.Len(t, menu.Rows, 2)
	assert.Equal(t, "Female: Alice", menu.Rows[0][0].Label)
	assert.Equal(t, PayloadBack, menu.Rows[1][0].Payload)
}

func TestCancelMenu(t *testing.T) {
	menu := CancelMenu()
	require.Len(t, menu.Rows, 1)
	assert.Equal(t, PayloadCancel, menu.Rows[0][0].Payload)
}
