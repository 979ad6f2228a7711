package view

import (
	"EventManagement/collections"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
)

// Ticket
type EmailTemplateData struct {
	RecipientName string
	EventName     string
	EventTime     string
	EventLocation string
	Tickets       []TicketTemplateData
}

type TicketTemplateData struct {
	QRCodeCID      string
	TicketTypeName string
	TicketPrice    int64
	PurchaseDate   string
	TicketNumber   string
}

// Dùng html/template thay vì strings.Builder để an toàn và dễ bảo trì
var ticketEmailTemplate = template.Must(template.New("ticketEmail").Parse(`
<html><body style='font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 0;'>
<div style='max-width: 640px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;'>
    <h2>Xin chào {{.RecipientName}},</h2>
    <p>Cảm ơn bạn đã mua vé tham dự sự kiện của chúng tôi. Dưới đây là thông tin sự kiện và vé của bạn.</p>

    <h3 style='border-bottom: 2px solid #eee; padding-bottom: 5px;'>Thông tin sự kiện</h3>
    <p style='margin: 5px 0;'><strong>Sự kiện:</strong> {{.EventName}}</p>
    <p style='margin: 5px 0;'><strong>Thời gian:</strong> {{.EventTime}}</p>
    <p style='margin: 5px 0;'><strong>Địa điểm:</strong> {{.EventLocation}}</p>
    <br>

    <h3 style='border-bottom: 2px solid #eee; padding-bottom: 5px;'>Chi tiết vé</h3>
    <p>Vui lòng đưa mã QR bên dưới cho ban tổ chức tại cổng check-in.</p>

    {{range .Tickets}}
    <div style='border: 1px solid #ddd; border-radius: 8px; padding: 16px; margin-bottom: 20px;'>
        <table border='0' cellpadding='0' cellspacing='0' width='100%'>
            <tr>
                <td width='140' style='width: 140px; padding-right: 15px; vertical-align: top;'>
                    <img src='cid:{{.QRCodeCID}}' alt='Mã QR' width='120' height='120' style='width: 120px; height: 120px; border: 1px solid #eee;' />
                </td>
                <td style='vertical-align: top; font-size: 14px; line-height: 1.7;'>
                    <strong style='font-size: 16px; color: #333;'>{{.TicketTypeName}}</strong><br>
                    Giá vé: {{.TicketPrice}}<br>
                    Ngày mua: {{.PurchaseDate}}<br>
                    Mã vé: <code style='font-size: 13px; background-color: #f4f4f4; padding: 2px 5px; border-radius: 4px;'>{{.TicketNumber}}</code>
                </td>
            </tr>
        </table>
    </div>
    {{end}}

    <hr style='border: 0; border-top: 1px solid #eee; margin-top: 20px;'>
    <p style='font-size: 12px; color: #777;'>Trân trọng,<br>Đội ngũ EventManagement</p>
</div>
</body></html>
`))

// BuildTicketEmail dựng subject, HTML body và map ảnh QR nhúng cho lô
// vé vừa phát. Thông tin sự kiện lấy từ snapshot trên vé nên không cần
// đọc lại document event.
func BuildTicketEmail(tickets []collections.Ticket) (string, string, map[string][]byte, error) {
	if len(tickets) == 0 {
		return "", "", nil, fmt.Errorf("không có vé để dựng mail")
	}

	first := tickets[0]
	templateData := EmailTemplateData{
		RecipientName: first.AttendeeName,
		EventName:     first.EventName,
		EventTime:     first.EventDate.Format("15:04 02/01/2006"),
		EventLocation: first.EventVenue,
		Tickets:       []TicketTemplateData{},
	}

	embeddedFiles := make(map[string][]byte)
	vietnamLoc := time.FixedZone("ICT", 7*60*60)

	for i, ticket := range tickets {
		qrCodePng, err := qrcode.Encode(ticket.QRCodeData, qrcode.Medium, 256)
		if err != nil {
			return "", "", nil, fmt.Errorf("lỗi tạo mã QR cho vé %s: %w", ticket.TicketNumber, err)
		}

		cid := fmt.Sprintf("qrcode%d.png", i)
		embeddedFiles[cid] = qrCodePng

		templateData.Tickets = append(templateData.Tickets, TicketTemplateData{
			QRCodeCID:      cid,
			TicketTypeName: ticket.TicketTypeName,
			TicketPrice:    ticket.Price,
			PurchaseDate:   ticket.PurchaseDate.In(vietnamLoc).Format("15:04 02/01/2006"),
			TicketNumber:   ticket.TicketNumber,
		})
	}

	var body strings.Builder
	if err := ticketEmailTemplate.Execute(&body, templateData); err != nil {
		return "", "", nil, fmt.Errorf("lỗi render template mail vé: %w", err)
	}

	subject := fmt.Sprintf("Vé tham dự sự kiện: %s", first.EventName)
	return subject, body.String(), embeddedFiles, nil
}
