package workflow

// User-facing texts. Kept in one place so wording changes never touch
// transition logic.
const (
	welcomeMenu = "Hi 👋! What would you like to do today?\n\n" +
		"1️⃣ 📝 Modify Existing Content\n" +
		"2️⃣ ➕ Add New Content\n" +
		"3️⃣ ❌ Delete Content\n\n" +
		"Please reply with 1, 2, or 3"

	promptSelectVersion = "Great! Please select the website version:\n\n" +
		"A - FR (France)\nB - CH (Switzerland)\nC - AE (UAE)\n\n" +
		"Please reply with A, B, or C:"
	promptInvalidVersion = "Please select a valid version: A (FR), B (CH), or C (AE)"

	promptModifyPage       = "Now, please tell me which page you want to modify (e.g., Home, About, Careers):"
	promptModifyOldContent = "Please paste the existing content you want to modify:"
	promptModifyNewContent = "Now, please send me the new content that should replace it:"

	promptAddType = "Awesome! What type of content do you want to add?\n\n" +
		"📰 Article\n💼 Job Opening\n\n" +
		"Please type \"article\" or \"job\":"
	promptInvalidAddType = "Please type \"article\" for Article/Blog Post or \"job\" for Job Opening:"

	promptArticleDate     = "📅 Please enter the article date (e.g., January 15, 2025):"
	promptArticleTitle    = "📝 Please enter the article title:"
	promptArticleAbstract = "📄 Please enter the article abstract/summary:"
	promptArticleContent  = "📖 Please enter the full article content:"
	promptArticleImageAsk = "Would you like to attach an image to this article?\n\n" +
		"Please reply with \"yes\" or \"no\":"
	promptInvalidYesNo    = "Please reply with \"yes\" or \"no\":"
	promptSendImage       = "📷 Please send the image for the article:"
	promptImageOrSkip     = "Please send an image or reply \"skip\" to continue without an image:"

	promptJobTitle      = "💼 Please enter the job title:"
	promptJobDepartment = "🏢 Please enter the department:"
	promptJobLocation   = "📍 Please enter the location:"
	promptJobOffer      = "📋 Please enter the full job offer description:"

	promptDeleteContent = "Please paste the content you want to delete:"

	promptConfirmRestart = "Please reply with \"confirm\" or \"restart\""

	successModify = "✅ Your modification request has been submitted successfully and will be live within 24/48h!"
	successAdd    = "✅ Your new content has been submitted successfully and will be live within 24/48h!"
	successDelete = "✅ Your deletion request has been submitted successfully and will be live within 24/48h!"
)

// WelcomeMenu exposes the main menu text for the dispatcher's delayed re-send.
func WelcomeMenu() string {
	return welcomeMenu
}
