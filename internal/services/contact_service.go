package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"carbon-shredder/internal/models"
)

type ContactService struct {
	messages MessageRepository
	subs     SubscriptionEmailRepository
	mailer   EmailSender
	inbox    string
}

type MessageRepository interface {
	Save(ctx context.Context, msg *models.Message) error
	FindAll(ctx context.Context) ([]models.Message, error)
}

type SubscriptionEmailRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.SubscriptionEmail, error)
	Save(ctx context.Context, sub *models.SubscriptionEmail) error
}

func NewContactService(messages MessageRepository, subs SubscriptionEmailRepository, mailer EmailSender, inbox string) *ContactService {
	return &ContactService{messages: messages, subs: subs, mailer: mailer, inbox: inbox}
}

// SubmitMessage сначала сохраняет сообщение, потом пересылает его почтой.
// Ошибка почты после успешной записи — ErrContactMail: клиент должен
// видеть разницу между "не сохранено" и "сохранено, но не переслано".
func (s *ContactService) SubmitMessage(ctx context.Context, msg *models.Message) error {
	if err := s.messages.Save(ctx, msg); err != nil {
		return err
	}

	subject := fmt.Sprintf("Contact Form Submission from %s", msg.SenderName)
	if err := s.mailer.Send(s.inbox, subject, contactEmailBody(msg.SenderName, msg.SenderEmail, msg.MessageBody)); err != nil {
		log.Printf("contact mail relay failed: %v", err)
		return ErrContactMail
	}

	return nil
}

func (s *ContactService) ListMessages(ctx context.Context) ([]models.Message, error) {
	return s.messages.FindAll(ctx)
}

// Subscribe добавляет email в рассылку, дубликаты отклоняются
func (s *ContactService) Subscribe(ctx context.Context, email string) error {
	if existing, _ := s.subs.FindByEmail(ctx, email); existing != nil {
		return ErrAlreadySubscribed
	}

	// гонка двух одновременных подписок упирается в уникальный индекс
	if err := s.subs.Save(ctx, &models.SubscriptionEmail{Email: email}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadySubscribed
		}
		return err
	}
	return nil
}
