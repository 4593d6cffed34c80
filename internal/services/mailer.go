package services

import (
	"gopkg.in/gomail.v2"
)

type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

type GomailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewGomailSender(host string, port int, username, password, from string) *GomailSender {
	return &GomailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *GomailSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	return d.DialAndSend(m)
}
