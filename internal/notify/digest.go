// Package notify renders reminders as an RFC 5322 mail digest.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/reminder"
)

// ErrNoRecipients is returned when a digest has no To address.
var ErrNoRecipients = errors.New("digest has no recipients")

// AttachmentName is the filename of the JSON copy of the reminders.
const AttachmentName = "reminders.json"

// Digest is one mail summarizing the active reminders for a day.
type Digest struct {
	From      string
	To        []string
	Date      time.Time
	Today     caldate.Date
	Reminders []model.Reminder
}

// Subject returns the digest's subject line.
func (d Digest) Subject() string {
	n := len(reminder.Active(d.Reminders))
	noun := "reminders"
	if n == 1 {
		noun = "reminder"
	}
	return fmt.Sprintf("Activity planner: %d %s for %s", n, noun, d.Today)
}

// WriteDigest writes d to w as a multipart message: a plain-text summary
// followed by the reminders as a JSON attachment. Dismissed reminders are
// left out.
func WriteDigest(w io.Writer, d Digest) error {
	from, err := mail.ParseAddress(d.From)
	if err != nil {
		return fmt.Errorf("parsing from address %q: %w", d.From, err)
	}
	if len(d.To) == 0 {
		return ErrNoRecipients
	}
	to, err := mail.ParseAddressList(strings.Join(d.To, ", "))
	if err != nil {
		return fmt.Errorf("parsing recipients: %w", err)
	}

	var h mail.Header
	h.SetDate(d.Date)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(d.Subject())
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("generating message id: %w", err)
	}

	active := reminder.Active(d.Reminders)

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating mail writer: %w", err)
	}

	if err := writeSummary(mw, active); err != nil {
		return err
	}
	if err := writeAttachment(mw, active); err != nil {
		return err
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing mail writer: %w", err)
	}
	return nil
}

func writeSummary(mw *mail.Writer, rems []model.Reminder) error {
	tw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating inline part: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := tw.CreatePart(th)
	if err != nil {
		return fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(pw, Summary(rems)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing text part: %w", err)
	}
	return tw.Close()
}

func writeAttachment(mw *mail.Writer, rems []model.Reminder) error {
	data, err := json.MarshalIndent(rems, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling reminders: %w", err)
	}

	var ah mail.AttachmentHeader
	ah.SetContentType("application/json", nil)
	ah.SetFilename(AttachmentName)
	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}
	if _, err := aw.Write(data); err != nil {
		return fmt.Errorf("writing attachment: %w", err)
	}
	return aw.Close()
}

// section is one heading of the summary and the reminder type it lists.
type section struct {
	title string
	kind  model.ReminderType
}

var sections = []section{
	{"Overdue", model.ReminderTaskOverdue},
	{"Due soon", model.ReminderTaskDue},
	{"Upcoming activities", model.ReminderActivityUpcoming},
	{"Other", model.ReminderCustom},
}

// Summary renders reminders as plain text grouped by type. Unread
// reminders are marked with an asterisk.
func Summary(rems []model.Reminder) string {
	if len(rems) == 0 {
		return "No reminders.\n"
	}

	var b strings.Builder
	for _, sec := range sections {
		var lines []string
		for _, r := range rems {
			if r.Type != sec.kind {
				continue
			}
			mark := " "
			if !r.IsRead {
				mark = "*"
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, r.Message))
		}
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", sec.title, len(lines))
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}
