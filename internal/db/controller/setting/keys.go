package setting

import (
	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
)

// Setting keys known to the application.
const (
	// KeySMTPServer is the notification mail server hostname.
	KeySMTPServer = "smtp_server"
	// KeySMTPPort is the notification mail server port.
	KeySMTPPort = "smtp_port"
	// KeySMTPUsername is the SMTP auth username.
	KeySMTPUsername = "smtp_username"
	// KeySMTPPassword is the SMTP auth password. Sensitive: encrypted at rest.
	KeySMTPPassword = "smtp_password"
	// KeySMTPFrom is the notification sender address.
	KeySMTPFrom = "smtp_from"
	// KeySMTPTo is the notification recipient address.
	KeySMTPTo = "smtp_to"
	// KeyAdminURL is the admin panel link embedded in notification mails.
	KeyAdminURL = "admin_url"
)

// sensitiveKeys are always encrypted before persisting and decrypted on
// effective reads. Currently exactly the SMTP credential.
var sensitiveKeys = map[string]struct{}{
	KeySMTPPassword: {},
}

// IsSensitive reports whether values of the key are encrypted at rest.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[key]
	return ok
}

// Defaults returns the seed set for BootstrapDefaults. Values are
// placeholders; real transport parameters are configured through the
// admin panel or the config file.
func Defaults() []models.Setting {
	return []models.Setting{
		{Key: KeySMTPServer, Value: "", Description: "Notification mail server hostname"},
		{Key: KeySMTPPort, Value: "587", Description: "Notification mail server port"},
		{Key: KeySMTPUsername, Value: "", Description: "SMTP authentication username"},
		{Key: KeySMTPPassword, Value: "", Description: "SMTP authentication password (stored encrypted)"},
		{Key: KeySMTPFrom, Value: "", Description: "Notification sender address"},
		{Key: KeySMTPTo, Value: "", Description: "Notification recipient address"},
		{Key: KeyAdminURL, Value: "/admin", Description: "Admin panel link used in notification mails"},
	}
}
