package notify

import "strings"

// Config holds run log delivery settings.
type Config struct {
	// SMTPHost enables mail delivery when set.
	SMTPHost string `mapstructure:"smtp_host" default:""`
	// SMTPPort is the submission port.
	SMTPPort int `mapstructure:"smtp_port" default:"587"`
	// SMTPUser authenticates with PLAIN auth when set.
	SMTPUser string `mapstructure:"smtp_user" default:""`
	// SMTPPassword is the password for SMTPUser.
	SMTPPassword string `mapstructure:"smtp_password" default:""`
	// From is the sender address.
	From string `mapstructure:"from" default:""`
	// To is a comma separated list of recipients.
	To string `mapstructure:"to" default:""`
	// BucketPrefix enables archiving run logs to object storage when set.
	BucketPrefix string `mapstructure:"bucket_prefix" default:""`
}

// Recipients returns the trimmed, non-empty addresses of To, or From when To is empty.
func (c Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	if len(out) == 0 && c.From != "" {
		out = []string{c.From}
	}
	return out
}

// MailEnabled reports whether mail delivery is configured.
// A sender alone is enough; mail then goes to the sender.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && (len(c.Recipients()) > 0 || c.From != "")
}
