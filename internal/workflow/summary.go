package workflow

import (
	"fmt"
	"strings"
	"time"
)

// Truncation budgets for long free-text fields in confirmation summaries.
// Truncation is presentation only; submissions always carry the full value.
const (
	truncModify   = 100
	truncArticle  = 100
	truncJobOffer = 150
	truncDelete   = 200
)

const timestampLayout = "02.01.2006 15:04"

// truncate limits s to max runes, appending an ellipsis marker when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func confirmModifySummary(f Form) string {
	var b strings.Builder
	b.WriteString("✅ Got it! Here's what I will submit:\n\n")
	fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
	fmt.Fprintf(&b, "📄 *Page:* %s\n\n", f.Page)
	fmt.Fprintf(&b, "*Old Content:*\n%s\n\n", truncate(f.OldContent, truncModify))
	fmt.Fprintf(&b, "*New Content:*\n%s\n\n", truncate(f.NewContent, truncModify))
	b.WriteString(`Reply "confirm" to proceed or "restart" to start over`)
	return b.String()
}

func confirmArticleSummary(f Form) string {
	image := "No"
	if f.HasImage {
		image = "Yes (attached)"
	}
	var b strings.Builder
	b.WriteString("✅ Got it! Here's what I will submit:\n\n")
	fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
	b.WriteString("📋 *Type:* Article\n\n")
	fmt.Fprintf(&b, "📅 *Date:* %s\n", f.ArticleDate)
	fmt.Fprintf(&b, "📝 *Title:* %s\n", f.ArticleTitle)
	fmt.Fprintf(&b, "📄 *Abstract:* %s\n", truncate(f.ArticleAbstract, truncArticle))
	fmt.Fprintf(&b, "📖 *Article:* %s\n", truncate(f.ArticleContent, truncArticle))
	fmt.Fprintf(&b, "📷 *Image:* %s\n\n", image)
	b.WriteString(`Reply "confirm" to proceed or "restart" to start over`)
	return b.String()
}

func confirmJobSummary(f Form) string {
	var b strings.Builder
	b.WriteString("✅ Got it! Here's what I will submit:\n\n")
	fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
	b.WriteString("📋 *Type:* Job Opening\n\n")
	fmt.Fprintf(&b, "💼 *Job Title:* %s\n", f.JobTitle)
	fmt.Fprintf(&b, "🏢 *Department:* %s\n", f.JobDepartment)
	fmt.Fprintf(&b, "📍 *Location:* %s\n", f.JobLocation)
	fmt.Fprintf(&b, "📋 *Job Offer:* %s\n\n", truncate(f.JobOffer, truncJobOffer))
	b.WriteString(`Reply "confirm" to proceed or "restart" to start over`)
	return b.String()
}

func confirmDeleteSummary(f Form) string {
	var b strings.Builder
	b.WriteString("✅ Got it! Here's what I will submit:\n\n")
	fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
	fmt.Fprintf(&b, "🗑️ *Content to Delete:*\n%s\n\n", truncate(f.DeleteTarget, truncDelete))
	b.WriteString(`Reply "confirm" to proceed or "restart" to start over`)
	return b.String()
}

// adminBody renders the untruncated submission forwarded to the administrator.
func adminBody(f Form, submittedAt time.Time) string {
	var b strings.Builder
	switch f.Kind() {
	case KindModification:
		b.WriteString("📝 *NEW MODIFICATION REQUEST*\n\n")
		fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
		fmt.Fprintf(&b, "*Page:* %s\n\n", f.Page)
		fmt.Fprintf(&b, "*Old Content:*\n%s\n\n", f.OldContent)
		fmt.Fprintf(&b, "*New Content:*\n%s\n\n", f.NewContent)
	case KindAddArticle:
		image := "No"
		if f.HasImage {
			image = "Yes"
		}
		b.WriteString("➕ *NEW ARTICLE REQUEST*\n\n")
		fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
		fmt.Fprintf(&b, "📅 *Date:* %s\n", f.ArticleDate)
		fmt.Fprintf(&b, "📝 *Title:* %s\n", f.ArticleTitle)
		fmt.Fprintf(&b, "📷 *Has Image:* %s\n\n", image)
		fmt.Fprintf(&b, "📄 *Abstract:*\n%s\n\n", f.ArticleAbstract)
		fmt.Fprintf(&b, "📖 *Article:*\n%s\n\n", f.ArticleContent)
	case KindAddJob:
		b.WriteString("➕ *NEW JOB OPENING REQUEST*\n\n")
		fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
		fmt.Fprintf(&b, "💼 *Job Title:* %s\n", f.JobTitle)
		fmt.Fprintf(&b, "🏢 *Department:* %s\n", f.JobDepartment)
		fmt.Fprintf(&b, "📍 *Location:* %s\n\n", f.JobLocation)
		fmt.Fprintf(&b, "📋 *Job Offer:*\n%s\n\n", f.JobOffer)
	case KindDelete:
		b.WriteString("❌ *DELETE REQUEST*\n\n")
		fmt.Fprintf(&b, "🌍 *Website Version:* %s\n", f.Version)
		fmt.Fprintf(&b, "*Content to Delete:*\n%s\n\n", f.DeleteTarget)
	}
	fmt.Fprintf(&b, "*Submitted at:* %s", submittedAt.Format(timestampLayout))
	return b.String()
}
