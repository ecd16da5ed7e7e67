package templates

import "fmt"

// RenderStatusUpdateEmail generates the HTML body for a report status change email
func RenderStatusUpdateEmail(reportTitle, newStatus, adminComment string) string {
	body := fmt.Sprintf("Your report \"%s\" status has been updated to %s.", reportTitle, newStatus)
	if adminComment != "" {
		body += fmt.Sprintf("\n\nAdmin comment: %s", adminComment)
	}
	body += "\n\nYou can review your report and any admin comments from your iReporter dashboard."
	return RenderGenericEmail("Report Status Updated", body)
}

// RenderAdminDigestEmail generates the HTML body for the daily pending-reports digest
func RenderAdminDigestEmail(pendingCount int64) string {
	body := fmt.Sprintf("There are currently %d pending reports awaiting triage.\n\nLog in to the admin console to review them.", pendingCount)
	return RenderGenericEmail("iReporter Daily Digest", body)
}
