package workflow

import (
	"strings"
	"time"

	"github.com/feldmaus/wabot/core/gateway"
)

// Event is a single inbound message as seen by the state machine. Media is
// pre-downloaded by the caller; a failed download arrives as HasMedia=false.
type Event struct {
	Text      string
	Timestamp time.Time
	HasMedia  bool
	Media     *gateway.Media
}

// Effect is a side effect the caller must apply after a transition.
type Effect interface{ isEffect() }

// Reply sends text back to the conversation partner.
type Reply struct {
	Text string
}

// Submit forwards a finished request to the administrator. Media is non-nil
// for article submissions that carry an image.
type Submit struct {
	Kind     Kind
	Body     string
	Media    *gateway.Media
	Snapshot Form
}

// ScheduleMenu asks the caller to re-send the welcome menu after a short delay.
type ScheduleMenu struct{}

func (Reply) isEffect()        {}
func (Submit) isEffect()       {}
func (ScheduleMenu) isEffect() {}

// Transition computes the next state, the updated form, and the effects to
// apply for one inbound event. It performs no I/O.
func Transition(st State, form Form, ev Event) (State, Form, []Effect) {
	switch st {
	case StateSelectVersion:
		return stepSelectVersion(form, ev)

	case StateModifyPage:
		form.Page = ev.Text
		return StateModifyOldContent, form, reply(promptModifyOldContent)
	case StateModifyOldContent:
		form.OldContent = ev.Text
		return StateModifyNewContent, form, reply(promptModifyNewContent)
	case StateModifyNewContent:
		form.NewContent = ev.Text
		return StateModifyConfirm, form, reply(confirmModifySummary(form))
	case StateModifyConfirm:
		return stepConfirm(StateModifyConfirm, form, ev, successModify)

	case StateAddType:
		return stepAddType(form, ev)
	case StateAddArticleDate:
		form.ArticleDate = ev.Text
		return StateAddArticleTitle, form, reply(promptArticleTitle)
	case StateAddArticleTitle:
		form.ArticleTitle = ev.Text
		return StateAddArticleAbstract, form, reply(promptArticleAbstract)
	case StateAddArticleAbstract:
		form.ArticleAbstract = ev.Text
		return StateAddArticleContent, form, reply(promptArticleContent)
	case StateAddArticleContent:
		form.ArticleContent = ev.Text
		return StateAddArticleImageAsk, form, reply(promptArticleImageAsk)
	case StateAddArticleImageAsk:
		return stepImageAsk(form, ev)
	case StateAddArticleImage:
		return stepImage(form, ev)

	case StateAddJobTitle:
		form.JobTitle = ev.Text
		return StateAddJobDepartment, form, reply(promptJobDepartment)
	case StateAddJobDepartment:
		form.JobDepartment = ev.Text
		return StateAddJobLocation, form, reply(promptJobLocation)
	case StateAddJobLocation:
		form.JobLocation = ev.Text
		return StateAddJobOffer, form, reply(promptJobOffer)
	case StateAddJobOffer:
		form.JobOffer = ev.Text
		return StateAddConfirm, form, reply(confirmJobSummary(form))
	case StateAddConfirm:
		return stepConfirm(StateAddConfirm, form, ev, successAdd)

	case StateDeleteContent:
		form.DeleteTarget = ev.Text
		return StateDeleteConfirm, form, reply(confirmDeleteSummary(form))
	case StateDeleteConfirm:
		return stepConfirm(StateDeleteConfirm, form, ev, successDelete)
	}

	// StateWelcome and anything unknown fall back to menu classification.
	return stepWelcome(form, ev)
}

func reply(text string) []Effect {
	return []Effect{Reply{Text: text}}
}

func stepWelcome(form Form, ev Event) (State, Form, []Effect) {
	body := strings.ToLower(ev.Text)
	switch {
	case strings.Contains(body, "modify") || body == "1":
		return StateSelectVersion, Form{Intent: IntentModify}, reply(promptSelectVersion)
	case strings.Contains(body, "add") || body == "2":
		return StateSelectVersion, Form{Intent: IntentAdd}, reply(promptSelectVersion)
	case strings.Contains(body, "delete") || body == "3":
		return StateSelectVersion, Form{Intent: IntentDelete}, reply(promptSelectVersion)
	}
	return StateWelcome, form, reply(welcomeMenu)
}

func stepSelectVersion(form Form, ev Event) (State, Form, []Effect) {
	switch strings.ToUpper(strings.TrimSpace(ev.Text)) {
	case "A":
		form.Version = VersionFR
	case "B":
		form.Version = VersionCH
	case "C":
		form.Version = VersionAE
	default:
		return StateSelectVersion, form, reply(promptInvalidVersion)
	}

	switch form.Intent {
	case IntentAdd:
		return StateAddType, form, reply(promptAddType)
	case IntentDelete:
		return StateDeleteContent, form, reply(promptDeleteContent)
	default:
		return StateModifyPage, form, reply(promptModifyPage)
	}
}

func stepAddType(form Form, ev Event) (State, Form, []Effect) {
	body := strings.ToLower(ev.Text)
	switch {
	case strings.Contains(body, "article") || strings.Contains(body, "blog"):
		form.ContentType = contentTypeArticle
		return StateAddArticleDate, form, reply(promptArticleDate)
	case strings.Contains(body, "job"):
		form.ContentType = contentTypeJob
		return StateAddJobTitle, form, reply(promptJobTitle)
	}
	return StateAddType, form, reply(promptInvalidAddType)
}

func stepImageAsk(form Form, ev Event) (State, Form, []Effect) {
	switch strings.ToLower(strings.TrimSpace(ev.Text)) {
	case "yes", "y":
		return StateAddArticleImage, form, reply(promptSendImage)
	case "no", "n":
		form.HasImage = false
		return StateAddConfirm, form, reply(confirmArticleSummary(form))
	}
	return StateAddArticleImageAsk, form, reply(promptInvalidYesNo)
}

func stepImage(form Form, ev Event) (State, Form, []Effect) {
	if ev.HasMedia && ev.Media != nil {
		form.Image = ev.Media
		form.HasImage = true
		return StateAddConfirm, form, reply(confirmArticleSummary(form))
	}
	if strings.ToLower(strings.TrimSpace(ev.Text)) == "skip" {
		form.HasImage = false
		return StateAddConfirm, form, reply(confirmArticleSummary(form))
	}
	// Text without media and not an explicit skip: stay and ask again.
	return StateAddArticleImage, form, reply(promptImageOrSkip)
}

func stepConfirm(st State, form Form, ev Event, successText string) (State, Form, []Effect) {
	body := strings.ToLower(ev.Text)
	switch {
	case strings.Contains(body, "confirm"):
		submit := Submit{
			Kind:     form.Kind(),
			Body:     adminBody(form, ev.Timestamp),
			Snapshot: form,
		}
		if form.Kind() == KindAddArticle && form.HasImage {
			submit.Media = form.Image
		}
		return StateWelcome, Form{}, []Effect{
			submit,
			Reply{Text: successText},
			ScheduleMenu{},
		}
	case strings.Contains(body, "restart"):
		return StateWelcome, Form{}, reply(welcomeMenu)
	}
	return st, form, reply(promptConfirmRestart)
}
