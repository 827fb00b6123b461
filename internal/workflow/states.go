// Package workflow implements the conversation state machine that collects
// website content requests step by step. Transitions are pure: handlers apply
// the returned effects and persist the returned session data.
package workflow

// State identifies a conversation step.
type State string

const (
	StateWelcome       State = "welcome"
	StateSelectVersion State = "select_version"

	StateModifyPage       State = "modify_page"
	StateModifyOldContent State = "modify_old_content"
	StateModifyNewContent State = "modify_new_content"
	StateModifyConfirm    State = "modify_confirm"

	StateAddType              State = "add_type"
	StateAddArticleDate       State = "add_article_date"
	StateAddArticleTitle      State = "add_article_title"
	StateAddArticleAbstract   State = "add_article_abstract"
	StateAddArticleContent    State = "add_article_content"
	StateAddArticleImageAsk   State = "add_article_image_prompt"
	StateAddArticleImage      State = "add_article_image"
	StateAddJobTitle          State = "add_job_title"
	StateAddJobDepartment     State = "add_job_department"
	StateAddJobLocation       State = "add_job_location"
	StateAddJobOffer          State = "add_job_offer"
	StateAddConfirm           State = "add_confirm"

	StateDeleteContent State = "delete_content"
	StateDeleteConfirm State = "delete_confirm"
)

// Intent is the top-level menu choice made at the welcome step.
type Intent string

const (
	IntentNone   Intent = ""
	IntentModify Intent = "modify"
	IntentAdd    Intent = "add"
	IntentDelete Intent = "delete"
)

// Kind classifies a finished submission for the administrator.
type Kind string

const (
	KindModification Kind = "modification"
	KindAddArticle   Kind = "add-article"
	KindAddJob       Kind = "add-job"
	KindDelete       Kind = "delete"
)

// Website variants offered at the version selection step.
const (
	VersionFR = "FR (France)"
	VersionCH = "CH (Switzerland)"
	VersionAE = "AE (UAE)"
)
