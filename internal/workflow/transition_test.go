package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feldmaus/wabot/core/gateway"
)

func textEvent(text string) Event {
	return Event{Text: text, Timestamp: time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)}
}

// run feeds a sequence of text answers through Transition starting from the
// welcome state and returns the final state, form, and last effect batch.
func run(t *testing.T, answers ...string) (State, Form, []Effect) {
	t.Helper()
	st, form := StateWelcome, Form{}
	var effects []Effect
	for _, a := range answers {
		st, form, effects = Transition(st, form, textEvent(a))
	}
	return st, form, effects
}

func replyText(t *testing.T, effects []Effect) string {
	t.Helper()
	require.Len(t, effects, 1)
	r, ok := effects[0].(Reply)
	require.True(t, ok, "expected a Reply effect")
	return r.Text
}

func TestWelcomeClassification(t *testing.T) {
	cases := []struct {
		input  string
		intent Intent
	}{
		{"1", IntentModify},
		{"I want to modify something", IntentModify},
		{"2", IntentAdd},
		{"please ADD content", IntentAdd},
		{"3", IntentDelete},
		{"Delete this", IntentDelete},
	}
	for _, tc := range cases {
		st, form, effects := Transition(StateWelcome, Form{}, textEvent(tc.input))
		assert.Equal(t, StateSelectVersion, st, tc.input)
		assert.Equal(t, tc.intent, form.Intent, tc.input)
		assert.Contains(t, replyText(t, effects), "select the website version")
	}
}

func TestWelcomeUnknownInputRepromptsMenu(t *testing.T) {
	st, form, effects := Transition(StateWelcome, Form{}, textEvent("hello?"))
	assert.Equal(t, StateWelcome, st)
	assert.Equal(t, Form{}, form)
	assert.Contains(t, replyText(t, effects), "Please reply with 1, 2, or 3")
}

func TestSelectVersionInvalidIsIdempotent(t *testing.T) {
	form := Form{Intent: IntentModify}
	st := StateSelectVersion
	for i := 0; i < 5; i++ {
		var effects []Effect
		st, form, effects = Transition(st, form, textEvent("Z"))
		assert.Equal(t, StateSelectVersion, st)
		assert.Empty(t, form.Version)
		assert.Contains(t, replyText(t, effects), "valid version")
	}
}

func TestSelectVersionBranches(t *testing.T) {
	st, form, _ := Transition(StateSelectVersion, Form{Intent: IntentModify}, textEvent(" a "))
	assert.Equal(t, StateModifyPage, st)
	assert.Equal(t, VersionFR, form.Version)

	st, _, effects := Transition(StateSelectVersion, Form{Intent: IntentAdd}, textEvent("B"))
	assert.Equal(t, StateAddType, st)
	assert.Contains(t, replyText(t, effects), "article")

	st, _, effects = Transition(StateSelectVersion, Form{Intent: IntentDelete}, textEvent("c"))
	assert.Equal(t, StateDeleteContent, st)
	assert.Contains(t, replyText(t, effects), "delete")
}

func TestModifyBranchExampleScenario(t *testing.T) {
	st, form, effects := run(t, "1", "B", "Home", "Welcome text", "New welcome text")

	require.Equal(t, StateModifyConfirm, st)
	assert.Equal(t, VersionCH, form.Version)
	assert.Equal(t, "Home", form.Page)

	summary := replyText(t, effects)
	assert.Contains(t, summary, VersionCH)
	assert.Contains(t, summary, "Home")
	assert.Contains(t, summary, "Welcome text")
	assert.Contains(t, summary, "New welcome text")
	assert.NotContains(t, summary, "...")

	st, form, effects = Transition(st, form, textEvent("confirm"))
	assert.Equal(t, StateWelcome, st)
	assert.Equal(t, Form{}, form)

	require.Len(t, effects, 3)
	submit, ok := effects[0].(Submit)
	require.True(t, ok)
	assert.Equal(t, KindModification, submit.Kind)
	assert.Contains(t, submit.Body, "NEW MODIFICATION REQUEST")
	assert.Contains(t, submit.Body, "Welcome text")
	assert.Contains(t, submit.Body, "Submitted at")
	assert.Equal(t, "Home", submit.Snapshot.Page)

	reply, ok := effects[1].(Reply)
	require.True(t, ok)
	assert.Contains(t, reply.Text, "submitted successfully")

	_, ok = effects[2].(ScheduleMenu)
	assert.True(t, ok)
}

func TestModifySummaryTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 140)
	_, form, effects := run(t, "1", "A", "About", long, "short")

	summary := replyText(t, effects)
	assert.Contains(t, summary, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, summary, strings.Repeat("x", 101))
	// The untruncated value is what would be submitted.
	assert.Equal(t, long, form.OldContent)
}

func TestConfirmRejectsOtherInput(t *testing.T) {
	st, form, _ := run(t, "1", "A", "Home", "old", "new")
	st2, form2, effects := Transition(st, form, textEvent("maybe"))
	assert.Equal(t, st, st2)
	assert.Equal(t, form, form2)
	assert.Contains(t, replyText(t, effects), `"confirm" or "restart"`)
}

func TestRestartClearsCollectedData(t *testing.T) {
	for _, answers := range [][]string{
		{"1", "A", "Home", "old", "new"},
		{"2", "B", "job", "Engineer", "R&D", "Zurich", "Great offer"},
		{"3", "C", "old paragraph"},
	} {
		st, form, _ := run(t, answers...)
		st, form, effects := Transition(st, form, textEvent("restart"))
		assert.Equal(t, StateWelcome, st)
		assert.Equal(t, Form{}, form)
		assert.Contains(t, replyText(t, effects), "What would you like to do today?")
	}
}

func TestAddTypeInvalidIsIdempotent(t *testing.T) {
	form := Form{Intent: IntentAdd, Version: VersionFR}
	st := StateAddType
	for i := 0; i < 3; i++ {
		var effects []Effect
		st, form, effects = Transition(st, form, textEvent("newsletter"))
		assert.Equal(t, StateAddType, st)
		assert.Empty(t, form.ContentType)
		assert.Contains(t, replyText(t, effects), `"article"`)
	}
}

func TestArticlePathWithoutImage(t *testing.T) {
	st, form, effects := run(t,
		"2", "A", "article",
		"January 15, 2026", "Big Title", "An abstract", "Full content", "no",
	)
	require.Equal(t, StateAddConfirm, st)
	assert.Equal(t, contentTypeArticle, form.ContentType)
	assert.False(t, form.HasImage)

	summary := replyText(t, effects)
	assert.Contains(t, summary, "📷 *Image:* No")
	assert.Contains(t, summary, "Big Title")

	_, _, effects = Transition(st, form, textEvent("confirm"))
	submit := effects[0].(Submit)
	assert.Equal(t, KindAddArticle, submit.Kind)
	assert.Nil(t, submit.Media)
	assert.Contains(t, submit.Body, "NEW ARTICLE REQUEST")
	assert.Contains(t, submit.Body, "📷 *Has Image:* No")
}

func TestArticleImageYesThenMedia(t *testing.T) {
	st, form, effects := run(t,
		"2", "B", "blog post",
		"date", "title", "abstract", "content", "yes",
	)
	require.Equal(t, StateAddArticleImage, st)
	assert.Contains(t, replyText(t, effects), "send the image")

	media := &gateway.Media{Data: []byte{0xff, 0xd8}, MimeType: "image/jpeg"}
	st, form, effects = Transition(st, form, Event{HasMedia: true, Media: media, Timestamp: time.Now()})
	require.Equal(t, StateAddConfirm, st)
	assert.True(t, form.HasImage)
	assert.Contains(t, replyText(t, effects), "📷 *Image:* Yes (attached)")

	_, _, effects = Transition(st, form, textEvent("confirm"))
	submit := effects[0].(Submit)
	assert.Equal(t, media, submit.Media)
}

func TestArticleImageTextOnlyReprompts(t *testing.T) {
	form := Form{Intent: IntentAdd, Version: VersionAE, ContentType: contentTypeArticle}
	st := StateAddArticleImage
	for i := 0; i < 3; i++ {
		var effects []Effect
		st, form, effects = Transition(st, form, textEvent("here is my image"))
		assert.Equal(t, StateAddArticleImage, st)
		assert.False(t, form.HasImage)
		assert.Contains(t, replyText(t, effects), `"skip"`)
	}
}

func TestArticleImageSkip(t *testing.T) {
	form := Form{Intent: IntentAdd, Version: VersionAE, ContentType: contentTypeArticle}
	st, form, effects := Transition(StateAddArticleImage, form, textEvent(" SKIP "))
	assert.Equal(t, StateAddConfirm, st)
	assert.False(t, form.HasImage)
	assert.Contains(t, replyText(t, effects), "📷 *Image:* No")
}

func TestImageAskInvalidIsIdempotent(t *testing.T) {
	form := Form{Intent: IntentAdd, Version: VersionFR, ContentType: contentTypeArticle}
	st := StateAddArticleImageAsk
	for i := 0; i < 3; i++ {
		var effects []Effect
		st, form, effects = Transition(st, form, textEvent("maybe"))
		assert.Equal(t, StateAddArticleImageAsk, st)
		assert.Contains(t, replyText(t, effects), `"yes" or "no"`)
	}
}

func TestJobPath(t *testing.T) {
	offer := strings.Repeat("o", 180)
	st, form, effects := run(t,
		"2", "C", "job",
		"Backend Engineer", "Engineering", "Dubai", offer,
	)
	require.Equal(t, StateAddConfirm, st)
	assert.Equal(t, contentTypeJob, form.ContentType)

	summary := replyText(t, effects)
	assert.Contains(t, summary, "Backend Engineer")
	assert.Contains(t, summary, strings.Repeat("o", 150)+"...")

	_, _, effects = Transition(st, form, textEvent("please confirm"))
	submit := effects[0].(Submit)
	assert.Equal(t, KindAddJob, submit.Kind)
	assert.Contains(t, submit.Body, "NEW JOB OPENING REQUEST")
	assert.Contains(t, submit.Body, offer)
}

func TestDeletePath(t *testing.T) {
	target := strings.Repeat("d", 250)
	st, form, effects := run(t, "3", "A", target)
	require.Equal(t, StateDeleteConfirm, st)

	summary := replyText(t, effects)
	assert.Contains(t, summary, strings.Repeat("d", 200)+"...")

	_, _, effects = Transition(st, form, textEvent("confirm"))
	submit := effects[0].(Submit)
	assert.Equal(t, KindDelete, submit.Kind)
	assert.Contains(t, submit.Body, "DELETE REQUEST")
	assert.Contains(t, submit.Body, target)
}

func TestFieldsStoredVerbatim(t *testing.T) {
	// Field collection accepts anything, including empty and whitespace text.
	_, form, _ := run(t, "1", "A", "  Home  ", "", "new")
	assert.Equal(t, "  Home  ", form.Page)
	assert.Equal(t, "", form.OldContent)
}
