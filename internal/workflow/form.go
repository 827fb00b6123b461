package workflow

import "github.com/feldmaus/wabot/core/gateway"

// Form accumulates the answers collected along the current conversation path.
// Which fields are set is determined by the states visited so far; the whole
// form is discarded on restart and after a successful submission.
type Form struct {
	Intent  Intent
	Version string

	// Modify branch.
	Page       string
	OldContent string
	NewContent string

	// Add branch.
	ContentType     string
	ArticleDate     string
	ArticleTitle    string
	ArticleAbstract string
	ArticleContent  string
	HasImage        bool
	Image           *gateway.Media

	JobTitle      string
	JobDepartment string
	JobLocation   string
	JobOffer      string

	// Delete branch.
	DeleteTarget string
}

// Kind reports the submission kind the form resolves to.
func (f Form) Kind() Kind {
	switch f.Intent {
	case IntentModify:
		return KindModification
	case IntentDelete:
		return KindDelete
	case IntentAdd:
		if f.ContentType == contentTypeJob {
			return KindAddJob
		}
		return KindAddArticle
	}
	return KindModification
}

const (
	contentTypeArticle = "Article"
	contentTypeJob     = "Job Opening"
)
