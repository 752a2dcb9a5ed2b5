// Package bridge serves the application over newline-delimited JSON frames,
// one frame per line. A front-end sends requests on named channels and
// receives replies carrying the same id. Events are pushed without an id.
package bridge

import (
	"errors"

	"github.com/goccy/go-json"

	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/profile"
)

// Channels understood by the server.
const (
	ChannelLoadProfileNames = "load-user-profiles-names"
	ChannelLoadUserData     = "load-user-data"
	ChannelSaveSettings     = "save-user-settings"
	ChannelSelectedUserName = "selected-user-name"
	ChannelMainView         = "is-on-main-view"
	ChannelWelcomeView      = "is-on-welcome-view"
	ChannelExercisePicked   = "exercise-picked"
	ChannelNextExercise     = "request-next-exercise"
	ChannelPrevExercise     = "request-previous-exercise"

	// EventLessonsChanged is pushed with the new main-view menu after the
	// lesson tree changed on disk.
	EventLessonsChanged = "lessons-changed"
)

// Error kinds carried in an error frame.
const (
	KindEndOfSequence     = "end_of_sequence"
	KindStartOfSequence   = "start_of_sequence"
	KindContentNotFound   = "content_not_found"
	KindInvalidPosition   = "invalid_position"
	KindNoProfileSelected = "no_profile_selected"
	KindBadRequest        = "bad_request"
	KindInternal          = "internal"
)

// Frame is one line on the wire.
type Frame struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *WireError      `json:"error,omitempty"`
}

// WireError is the error half of a reply.
type WireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *WireError) Error() string {
	return e.Kind + ": " + e.Message
}

// ExerciseRequest locates an exercise. LessonType accepts the category
// label, its English name or its folder name.
type ExerciseRequest struct {
	LessonType     lesson.Category `json:"lessonType"`
	LessonNumber   int             `json:"lessonNumber"`
	ExerciseNumber int             `json:"exerciseNumber"`
}

// Position converts the request to a navigator position.
func (r ExerciseRequest) Position() lesson.Position {
	return lesson.At(r.LessonType, r.LessonNumber, r.ExerciseNumber)
}

// SaveSettingsRequest is the payload of save-user-settings.
type SaveSettingsRequest struct {
	UserName string           `json:"userName"`
	Settings profile.Settings `json:"settings"`
}

// DeleteResult is the reply to selected-user-name.
type DeleteResult struct {
	Deleted  bool     `json:"deleted"`
	Profiles []string `json:"profiles"`
}

// errBadRequest marks payload decoding failures.
var errBadRequest = errors.New("bad request")

// kindOf maps an error to its wire kind.
func kindOf(err error) string {
	switch {
	case errors.Is(err, lesson.ErrEndOfSequence):
		return KindEndOfSequence
	case errors.Is(err, lesson.ErrStartOfSequence):
		return KindStartOfSequence
	case errors.Is(err, lesson.ErrContentNotFound):
		return KindContentNotFound
	case errors.Is(err, lesson.ErrInvalidPosition):
		return KindInvalidPosition
	case errors.Is(err, profile.ErrNoProfileSelected):
		return KindNoProfileSelected
	case errors.Is(err, errBadRequest), errors.Is(err, profile.ErrInvalidName):
		return KindBadRequest
	default:
		return KindInternal
	}
}

// errorFrame builds the reply for a failed request.
func errorFrame(req Frame, err error) Frame {
	return Frame{
		ID:      req.ID,
		Channel: req.Channel,
		Error:   &WireError{Kind: kindOf(err), Message: err.Error()},
	}
}
