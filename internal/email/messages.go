package email

import "fmt"

// PasswordResetMessage renders the reset email. The link stays valid for
// one hour and works exactly once.
func PasswordResetMessage(to, resetLink string) Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #22c55e;">🌱 EcoFinance</h1>
  <h2 style="color: #374151;">Password reset</h2>
  <p style="color: #6b7280; line-height: 1.6;">
    You requested a password reset for your EcoFinance account.
    Click the button below to choose a new password:
  </p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%[1]s"
       style="background: #22c55e; color: white; padding: 12px 30px;
              text-decoration: none; border-radius: 8px; font-weight: 600;
              display: inline-block;">
      Reset password
    </a>
  </div>
  <p style="color: #6b7280; line-height: 1.6;">
    If the button does not work, copy and paste this link into your browser:
  </p>
  <p style="color: #3b82f6; word-break: break-all;">%[1]s</p>
  <hr style="border: none; border-top: 1px solid #e5e7eb;">
  <p style="color: #9ca3af; font-size: 14px; line-height: 1.6;">
    If you did not request a password reset, you can safely ignore this
    email. The link expires after 1 hour.
  </p>
</div>`, resetLink)

	return Message{
		To:      to,
		Subject: "Password reset - EcoFinance",
		HTML:    html,
	}
}

// WelcomeMessage renders the email sent after a successful registration.
func WelcomeMessage(to, firstName, dashboardURL string) Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #22c55e;">🌱 EcoFinance</h1>
  <h2 style="color: #374151;">Welcome, %s!</h2>
  <p style="color: #6b7280; line-height: 1.6;">
    Thanks for signing up to EcoFinance! You can now manage your finances
    and track the environmental footprint of your spending.
  </p>
  <div style="background: #f0fdf4; padding: 20px; border-radius: 8px;">
    <h3 style="color: #22c55e; margin-top: 0;">What you can do:</h3>
    <ul style="color: #374151; line-height: 1.8;">
      <li>📊 Track income and expenses</li>
      <li>🌿 Monitor your carbon footprint</li>
      <li>📈 Get monthly reports</li>
      <li>🎯 Create your own categories</li>
      <li>💡 Receive eco recommendations</li>
    </ul>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s"
       style="background: #22c55e; color: white; padding: 12px 30px;
              text-decoration: none; border-radius: 8px; font-weight: 600;
              display: inline-block;">
      Get started
    </a>
  </div>
</div>`, firstName, dashboardURL)

	return Message{
		To:      to,
		Subject: "Welcome to EcoFinance! 🌱",
		HTML:    html,
	}
}
