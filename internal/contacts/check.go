package contacts

import (
	"fmt"

	"github.com/example/outreach-dispatch/internal/models"
	"github.com/example/outreach-dispatch/internal/util"
)

// Issue describes one contact that would fail destination validation.
type Issue struct {
	Contact models.Contact
	Channel models.Channel
	Detail  string
}

// Check runs the destination validators for each channel without any network
// I/O. An empty channel list checks phone and email for every contact.
func Check(list []models.Contact, phones *util.PhoneValidator, channels ...models.Channel) []Issue {
	if len(channels) == 0 {
		channels = []models.Channel{models.ChannelSMS, models.ChannelEmail}
	}
	var issues []Issue
	for _, c := range list {
		for _, ch := range channels {
			dest := ch.Destination(c)
			var ok bool
			if ch.DestinationField() == models.FieldEmail {
				ok = util.ValidateEmail(dest)
			} else {
				ok = phones.Valid(dest)
			}
			if !ok {
				issues = append(issues, Issue{
					Contact: c,
					Channel: ch,
					Detail:  fmt.Sprintf("invalid %s %q", ch.DestinationField(), dest),
				})
			}
		}
	}
	return issues
}
