package bulk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestProjectStatus(t *testing.T) {
	tests := []struct {
		status  ImportStatus
		icon    Icon
		persian string
		english string
	}{
		{ImportStatusProcessing, IconProcessing, "در حال پردازش", "Processing"},
		{ImportStatusCompleted, IconCompleted, "تکمیل شده", "Completed"},
		{ImportStatusFailed, IconFailed, "ناموفق", "Failed"},
		{ImportStatus("queued"), IconUnknown, "نامشخص", "Unknown"},
		{ImportStatus(""), IconUnknown, "نامشخص", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			fa := ProjectStatus(tt.status, language.Persian)
			assert.Equal(t, tt.icon, fa.Icon)
			assert.Equal(t, tt.persian, fa.Label)

			en := ProjectStatus(tt.status, language.English)
			assert.Equal(t, tt.icon, en.Icon)
			assert.Equal(t, tt.english, en.Label)
		})
	}
}

func TestProjectStatus_Terminal(t *testing.T) {
	assert.False(t, ProjectStatus(ImportStatusProcessing, DefaultLanguage).Terminal)
	assert.True(t, ProjectStatus(ImportStatusCompleted, DefaultLanguage).Terminal)
	assert.True(t, ProjectStatus(ImportStatusFailed, DefaultLanguage).Terminal)
	assert.False(t, ProjectStatus("weird", DefaultLanguage).Terminal)
}

func TestProjectStatus_UnsupportedLanguageFallsBack(t *testing.T) {
	view := ProjectStatus(ImportStatusCompleted, language.Und)
	assert.Equal(t, "تکمیل شده", view.Label)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d       time.Duration
		persian string
		english string
	}{
		{0, "0 ثانیه", "0 seconds"},
		{45 * time.Second, "45 ثانیه", "45 seconds"},
		{59*time.Second + 900*time.Millisecond, "59 ثانیه", "59 seconds"},
		{60 * time.Second, "1 دقیقه", "1 minutes"},
		{59 * time.Minute, "59 دقیقه", "59 minutes"},
		{2*time.Hour + 5*time.Minute + 10*time.Second, "2 ساعت و 5 دقیقه", "2 hours and 5 minutes"},
		{-time.Second, "0 ثانیه", "0 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.persian, FormatDuration(tt.d, language.Persian))
			assert.Equal(t, tt.english, FormatDuration(tt.d, language.English))
		})
	}
}
