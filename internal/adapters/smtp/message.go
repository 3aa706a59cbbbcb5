package smtp

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/utils"
)

// buildMessage renders the email as multipart/alternative with a plain part
// followed by the HTML part. A missing plain body is derived from the HTML.
func buildMessage(email *core.OutboundEmail, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	from := (&mail.Address{Name: email.FromName, Address: email.From}).String()
	to := (&mail.Address{Address: email.To}).String()

	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", to)
	if email.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", (&mail.Address{Address: email.ReplyTo}).String())
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(email.From)))
	writeHeader(&buf, "MIME-Version", "1.0")

	mw := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")

	text := email.Text
	if strings.TrimSpace(text) == "" {
		text = utils.HTMLToText(email.HTML)
	}

	if err := writePart(mw, "text/plain; charset=utf-8", text); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", email.HTML); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}

	qw := quotedprintable.NewWriter(pw)
	if _, err := qw.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	return qw.Close()
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}
