package mailer

import (
	"fmt"
	"net/url"
	"time"
)

// Templates renders the notification messages the service sends. SiteName
// appears in subjects and bodies; FrontendURL is used for links back to the
// site, including the unsubscribe link.
type Templates struct {
	SiteName    string
	FrontendURL string
}

// Welcome is the message sent to an address that just subscribed or
// resubscribed.
func (t *Templates) Welcome(to string) Message {
	unsubscribe := fmt.Sprintf("%s/unsubscribe?email=%s", t.FrontendURL, url.QueryEscape(to))
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #d97706;">Welcome to the %s newsletter!</h1>
  <p>Thank you for subscribing. You'll receive our monthly newsletter with
  community news, upcoming events and ways to get involved.</p>
  <p style="margin-top: 30px;">
    <a href="%s" style="background: #f59e0b; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">Visit our website</a>
  </p>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">
  <p style="color: #999; font-size: 12px;">
    If you didn't subscribe to this newsletter, you can
    <a href="%s" style="color: #f59e0b;">unsubscribe here</a>.
  </p>
</div>`, t.SiteName, t.FrontendURL, unsubscribe)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Welcome to the %s Newsletter!", t.SiteName),
		HTML:    body,
	}
}

// AdminAlert notifies the configured admin address about a new or revived
// subscription.
func (t *Templates) AdminAlert(to, subscriberEmail string) Message {
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>New newsletter subscriber</h2>
  <p><strong>Email:</strong> %s</p>
  <p><strong>Time:</strong> %s</p>
</div>`, subscriberEmail, time.Now().UTC().Format(time.RFC3339))

	return Message{
		To:      to,
		Subject: fmt.Sprintf("New %s subscriber: %s", t.SiteName, subscriberEmail),
		HTML:    body,
	}
}
