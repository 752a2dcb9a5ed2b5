package profile

import (
	"time"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
)

// DefaultTimeLimitSeconds is ten minutes.
const DefaultTimeLimitSeconds = 600

// Settings is a user's settings.json. The optional fields, when set,
// override the values of every lesson.
type Settings struct {
	TimeLimitInSeconds      int      `json:"timeLimitInSeconds"`
	ErrorsCoefficient       *float64 `json:"errorsCoefficient,omitempty"`
	TutorGloballyActive     *bool    `json:"isTutorGloballyActive,omitempty"`
	KeyboardGloballyVisible *bool    `json:"isKeyboardGloballyVisible,omitempty"`
	MinimumWPM              *float64 `json:"minimumWPM,omitempty"`
}

// DefaultSettings is written for a profile that has none yet.
func DefaultSettings() Settings {
	return Settings{TimeLimitInSeconds: DefaultTimeLimitSeconds}
}

// TimeLimit returns the exercise time limit.
func (s Settings) TimeLimit() time.Duration {
	if s.TimeLimitInSeconds <= 0 {
		return DefaultTimeLimitSeconds * time.Second
	}
	return time.Duration(s.TimeLimitInSeconds) * time.Second
}

// EffectiveTutor reports whether the tutor is shown for content.
func (s Settings) EffectiveTutor(content lesson.ExerciseContent) bool {
	if s.TutorGloballyActive != nil {
		return *s.TutorGloballyActive
	}
	return content.TutorEnabled
}

// EffectiveKeyboard reports whether the on-screen keyboard is shown.
func (s Settings) EffectiveKeyboard(content lesson.ExerciseContent) bool {
	if s.KeyboardGloballyVisible != nil {
		return *s.KeyboardGloballyVisible
	}
	return content.KeyboardVisible
}

// EffectiveMinimumWPM returns the words per minute needed to pass.
func (s Settings) EffectiveMinimumWPM(content lesson.ExerciseContent) float64 {
	if s.MinimumWPM != nil {
		return *s.MinimumWPM
	}
	return content.MinimumWordsPerMinute
}

// Apply returns content with every override in s applied.
func (s Settings) Apply(content lesson.ExerciseContent) lesson.ExerciseContent {
	content.TutorEnabled = s.EffectiveTutor(content)
	content.KeyboardVisible = s.EffectiveKeyboard(content)
	content.MinimumWordsPerMinute = s.EffectiveMinimumWPM(content)
	return content
}

// HasOverrides reports whether any lesson value is overridden.
func (s Settings) HasOverrides() bool {
	return s.TutorGloballyActive != nil || s.KeyboardGloballyVisible != nil || s.MinimumWPM != nil
}
