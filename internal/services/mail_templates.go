package services

import "fmt"

// Тексты писем перенесены с прод-сайта как есть

func activationEmailBody(name, activationURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Dear %s,</p>

			<p>We hope this email finds you well. At Carbon Shredder, we're passionate about sustainability and reducing our carbon footprint, and we invite you to join us on this journey towards a greener future.</p>

			<p>With our innovative Carbon Footprint Calculator, you can now easily estimate your carbon emissions and gain valuable insights into your environmental impact.</p>

			<p>Here's how you can get started:</p>
			<ul>
				<li>Visit our website and access the Carbon Footprint Calculator.</li>
				<li>Input your information, including age, location, and lifestyle choices.</li>
				<li>Explore your personalized carbon footprint report and discover areas where you can reduce emissions.</li>
				<li>Take actionable steps towards a more sustainable lifestyle and track your progress over time.</li>
			</ul>

			<p>Together, we can make a difference. Join us today in taking meaningful steps towards a cleaner, healthier planet.</p>

			<p>Best regards,</p>
			<p>Thijn Felix</p>
			<p>Founder</p>
			<p>Carbon Shredder</p>

			<p><a href="%s" style="display: inline-block; background-color: #77CFB8; color: white; text-decoration: none; padding: 10px 20px; border-radius: 5px;">Activate your account</a></p>
		</div>
	`, name, activationURL)
}

func otpEmailBody(name, code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Dear %s,</p>
			<p>We received a request to reset the password for your account. To ensure the security of your account, please use the One-Time Password (OTP) provided below to reset your password.</p>
			<p><strong>Your OTP: %s</strong></p>
			<p>Here's how you can reset your password:</p>
			<ul>
				<li>Visit our password reset page on the Carbon Shredder website.</li>
				<li>Enter your email address and the OTP provided above.</li>
				<li>Follow the instructions to create a new password for your account.</li>
			</ul>
			<p>If you did not request a password reset, please ignore this email. Your account remains secure, and no changes have been made.</p>
			<p>Best regards,</p>
			<p>Thijn Felix<br/>Founder<br/>Carbon Shredder</p>
		</div>
	`, name, code)
}

func contactEmailBody(name, email, message string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p><strong>Name:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p><strong>Message:</strong></p>
			<p>%s</p>
		</div>
	`, name, email, message)
}
