package utils

import (
	"cryptovest/config"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid. A missing API key
// downgrades to a log line so local setups keep working.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("[EMAIL] Skipping email to %s (%s): SENDGRID_API_KEY not set", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("Cryptovest", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Failed to send email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid rejected email to %s: status %d", toEmail, resp.StatusCode)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// SendDepositResolvedEmail notifies a user that an admin resolved a deposit.
func SendDepositResolvedEmail(email, name, planName string, amount float64, approved bool) {
	subject := "Your Deposit Was Approved - Cryptovest"
	headline := "Deposit Approved"
	detail := fmt.Sprintf("Your deposit of $%.2f to <strong>%s</strong> has been approved and is now earning daily profit.", amount, planName)
	if !approved {
		subject = "Your Deposit Was Declined - Cryptovest"
		headline = "Deposit Declined"
		detail = fmt.Sprintf("Your deposit of $%.2f to <strong>%s</strong> could not be approved. Please contact support for details.", amount, planName)
	}

	body := fmt.Sprintf(`
<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2 style="color: #2563eb;">%s</h2>
			<p>Dear %s,</p>
			<p>%s</p>
			<hr style="border: 1px solid #eee; margin: 20px 0;">
			<p style="font-size: 12px; color: #666;">This is an automated notification from Cryptovest.</p>
		</div>
	</body>
</html>`, headline, name, detail)

	go SendEmail(email, name, subject, body)
}

// SendTierUpgradeResolvedEmail notifies a user of a tier upgrade decision.
func SendTierUpgradeResolvedEmail(email, name string, approved bool) {
	subject := "Your Account Upgrade Was Approved - Cryptovest"
	headline := "Upgrade Approved"
	detail := "Your identity documents were verified and your account is now <strong>Tier 2</strong>."
	if !approved {
		subject = "Your Account Upgrade Was Rejected - Cryptovest"
		headline = "Upgrade Rejected"
		detail = "We could not verify your identity documents. You may submit a new upgrade request with updated documents."
	}

	body := fmt.Sprintf(`
<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2 style="color: #2563eb;">%s</h2>
			<p>Dear %s,</p>
			<p>%s</p>
			<hr style="border: 1px solid #eee; margin: 20px 0;">
			<p style="font-size: 12px; color: #666;">This is an automated notification from Cryptovest.</p>
		</div>
	</body>
</html>`, headline, name, detail)

	go SendEmail(email, name, subject, body)
}
