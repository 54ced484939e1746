package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/coticket/coticket/utils"
)

// TicketEmailData carries the fields rendered into the ticket email
type TicketEmailData struct {
	Name       string
	TicketCode string
	QRCode     template.URL
	Year       int
}

var ticketEmailTmpl = template.Must(template.New("ticket_email").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body {
      font-family: Arial, sans-serif;
      line-height: 1.6;
      color: #333;
      max-width: 600px;
      margin: 0 auto;
      padding: 20px;
    }
    .container {
      background-color: #f9f9f9;
      border-radius: 10px;
      padding: 30px;
      border: 2px solid #ff69b4;
    }
    .header {
      text-align: center;
      margin-bottom: 30px;
    }
    .header h1 {
      color: #ff69b4;
      margin: 0;
    }
    .ticket-info {
      background-color: white;
      padding: 20px;
      border-radius: 8px;
      margin: 20px 0;
    }
    .ticket-code {
      font-size: 24px;
      font-weight: bold;
      color: #ff69b4;
      text-align: center;
      padding: 15px;
      background-color: #fff0f6;
      border-radius: 5px;
      margin: 20px 0;
    }
    .qr-code {
      text-align: center;
      margin: 20px 0;
    }
    .footer {
      text-align: center;
      margin-top: 30px;
      padding-top: 20px;
      border-top: 1px solid #ddd;
      font-size: 14px;
      color: #666;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🎫 Tổ Cò FC Phương Mỹ Chi</h1>
    </div>

    <div class="ticket-info">
      <p>Xin chào <strong>{{.Name}}</strong>,</p>
      <p>Chúc mừng bạn đã may mắn trúng vé Fanzone, Tổ Cò FC Phương Mỹ Chi xin gửi bạn thông tin vé:</p>

      <div class="ticket-code">
        {{.TicketCode}}
      </div>

      <div class="qr-code">
        <img src="{{.QRCode}}" alt="QR" width="300" height="300" />
      </div>

      <p style="text-align: center; margin-top: 30px;">
        Chúc bạn tham gia sự kiện vui vẻ và hãy luôn ủng hộ Phương Mỹ Chi nhé!
      </p>
    </div>

    <div class="footer">
      <p>Mọi thắc mắc vui lòng liên hệ Fanpage Tổ Cò FC Phương Mỹ Chi</p>
      <p>© {{.Year}} Tổ Cò FC Phương Mỹ Chi. All rights reserved.</p>
    </div>
  </div>
</body>
</html>
`))

// TicketEmailSubject builds the subject line for a ticket dispatch
func TicketEmailSubject(ticketCode string) string {
	return fmt.Sprintf("🎫 Mã vé sự kiện - %s", ticketCode)
}

// RenderTicketEmail renders the HTML body for a ticket email. The QR
// argument must be a data URL so the image displays inline.
func RenderTicketEmail(name, ticketCode, qrDataURL string) (string, error) {
	data := TicketEmailData{
		Name:       name,
		TicketCode: ticketCode,
		QRCode:     template.URL(qrDataURL),
		Year:       utils.UTCNow().Year(),
	}

	var buf bytes.Buffer
	if err := ticketEmailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render ticket email: %w", err)
	}

	return buf.String(), nil
}
