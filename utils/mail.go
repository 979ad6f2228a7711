package utils

import (
	"EventManagement/configs"
	"io"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService() *EmailService {
	host := configs.GetSMTPHost()
	port := configs.GetSMTPPort()
	senderEmail := configs.GetSenderEmail()
	appPassword := configs.GetAppPassword()
	portConvert, _ := strconv.Atoi(port)
	d := gomail.NewDialer(host, portConvert, senderEmail, appPassword)

	return &EmailService{
		dialer: d,
		from:   senderEmail,
	}
}

type EmailPayload struct {
	To       []string
	Subject  string
	HTMLBody string

	EmbeddedImages map[string][]byte
}

func (s *EmailService) SendEmail(payload EmailPayload) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", payload.To...)
	m.SetHeader("Subject", payload.Subject)
	m.SetBody("text/html", payload.HTMLBody)

	for cid, data := range payload.EmbeddedImages {
		m.Embed(cid, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("LỖI GỬI MAIL (tới %v): %v", payload.To, err)
		return err
	}

	log.Printf("Đã gửi mail (gomail) thành công tới: %v", payload.To)
	return nil
}
