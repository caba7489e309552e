package services

import (
	"errors"
	"strings"

	"shopmate/internal/domain"
	"shopmate/internal/repos"
)

var ErrEmptyMessage = errors.New("empty message")

// ChatService keeps one chat session per browser session and stores every
// exchange with the assistant.
type ChatService struct {
	Chats *repos.ChatRepo
	Bot   *Assistant
}

func NewChatService(chats *repos.ChatRepo, bot *Assistant) *ChatService {
	return &ChatService{Chats: chats, Bot: bot}
}

func (s *ChatService) Send(sid string, userID int64, message string) (string, Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", Reply{}, ErrEmptyMessage
	}
	sessionID, err := s.Chats.EnsureSession(sid, userID)
	if err != nil {
		return "", Reply{}, err
	}
	reply, err := s.Bot.Respond(userID, message)
	if err != nil {
		return "", Reply{}, err
	}
	if err := s.Chats.AppendPair(sessionID, message, reply.Message); err != nil {
		return "", Reply{}, err
	}
	return message, reply, nil
}

func (s *ChatService) History(sid string, userID int64) ([]domain.ChatMessage, error) {
	sessionID, err := s.Chats.EnsureSession(sid, userID)
	if err != nil {
		return nil, err
	}
	return s.Chats.Messages(sessionID)
}

func (s *ChatService) Clear(sid string, userID int64) error {
	sessionID, err := s.Chats.EnsureSession(sid, userID)
	if err != nil {
		return err
	}
	return s.Chats.Clear(sessionID)
}
