package mailer

import "fmt"

const adminName = "Admin"

// Recipient identifies the consultant a mail is about.
type Recipient struct {
	Name  string
	Email string
}

func Welcome(to Recipient, password, loginLink string) Mail {
	return Mail{
		ToName:  to.Name,
		ToEmail: to.Email,
		Subject: "Welcome & Application Credentials",
		Message: fmt.Sprintf(`Welcome to Umrah Consultant Application!

Your application has been started successfully.
Here are your login credentials to resume your application at any time:

Login Link: %s
Email: %s
Password: %s

Please proceed to upload your introduction video.`, loginLink, to.Email, password),
		ActionLink: loginLink,
	}
}

func VideoUploaded(adminEmail string, from Recipient, videoLink string) Mail {
	return Mail{
		ToName:  adminName,
		ToEmail: adminEmail,
		Subject: "ACTION REQUIRED: Video Uploaded by " + from.Name,
		Message: fmt.Sprintf(`Video Uploaded by %s.

Video Link: %s

This user is now PENDING APPROVAL.
Please review and activate the user in the CRM.`, from.Name, videoLink),
	}
}

func Activated(to Recipient, loginLink string) Mail {
	return Mail{
		ToName:  to.Name,
		ToEmail: to.Email,
		Subject: "Profile Approved! Proceed to Contract",
		Message: fmt.Sprintf(`Congratulations %s!

Your profile has been approved. You are now an ACTIVE Umrah Consultant.

Please login to sign your contract and access your dashboard.

Login Link: %s`, to.Name, loginLink),
		ActionLink: loginLink,
	}
}

// Completed returns the admin notice followed by the consultant's confirmation.
func Completed(adminEmail string, from Recipient) []Mail {
	return []Mail{
		{
			ToName:  adminName,
			ToEmail: adminEmail,
			Subject: "Application Completed: " + from.Name,
			Message: fmt.Sprintf(`Application Completed by %s.

The signed contract has been uploaded.
Please review the full application in the dashboard.`, from.Name),
		},
		{
			ToName:  from.Name,
			ToEmail: from.Email,
			Subject: "Application Received",
			Message: "Thank you for completing your application. We will review it and get back to you shortly.",
		},
	}
}

// Notice is a plain admin notification, used for lead and ticket activity.
func Notice(adminEmail, subject, message string) Mail {
	return Mail{
		ToName:  adminName,
		ToEmail: adminEmail,
		Subject: subject,
		Message: message,
	}
}
