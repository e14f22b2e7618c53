package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/chat/state"
	"github.com/healthmateapp/healthmate-server/internal/database"
	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/logger"
)

// recentMessagePairs bounds how much stored history is replayed into the
// prompt for each turn.
const recentMessagePairs = 10

// ChatService runs the conversational health assistant: persistent chat
// threads, AI-generated replies grounded in the user's recent adherence,
// and rolling session context in the state manager.
type ChatService struct {
	db     *gorm.DB
	ai     *AIService
	report *ReportService
	state  state.Manager
}

func NewChatService(db *gorm.DB, ai *AIService, report *ReportService, stateManager state.Manager) *ChatService {
	return &ChatService{db: db, ai: ai, report: report, state: stateManager}
}

func (s *ChatService) CreateChat(ctx context.Context, userID uint, title string) (*database.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New chat"
	}
	chat := database.Chat{UserID: userID, Title: title}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &chat, nil
}

func (s *ChatService) ListChats(ctx context.Context, userID uint) ([]database.Chat, error) {
	var chats []database.Chat
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

func (s *ChatService) getChat(ctx context.Context, userID, chatID uint) (*database.Chat, error) {
	var chat database.Chat
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", chatID, userID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Chat not found")
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, chatID uint) ([]database.ChatMessage, error) {
	if _, err := s.getChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	var messages []database.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	chat, err := s.getChat(ctx, userID, chatID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&database.ChatMessage{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Delete(chat).Error; err != nil {
			return fmt.Errorf("failed to delete chat: %w", err)
		}
		s.state.ClearContext(userID, chat.ID)
		return nil
	})
}

// SendMessage stores the user's message, generates the assistant reply
// with recent adherence data and conversation history in the prompt, and
// stores the reply.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uint, content string) (*database.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("Message must not be empty")
	}
	chat, err := s.getChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	userMsg := database.ChatMessage{ChatID: chat.ID, Role: "user", Content: content}
	if err := s.db.WithContext(ctx).Create(&userMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	prompt := s.buildPrompt(ctx, userID, chat.ID, content)
	reply, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		logger.Errorf("Chat reply generation failed: %v", err)
		reply = "Sorry, I could not process that right now. Please try again in a moment."
	}
	if containsDangerousPhrase(reply) {
		logger.Warn("Chat reply rejected by content guard")
		reply = "I can't advise on changing your medication. Please discuss this with your doctor."
	}

	assistantMsg := database.ChatMessage{ChatID: chat.ID, Role: "assistant", Content: reply}
	if err := s.db.WithContext(ctx).Create(&assistantMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	// Touch the chat so listing orders by recent activity.
	s.db.WithContext(ctx).Model(chat).Update("updated_at", time.Now())
	s.state.SetContext(userID, chat.ID, summarizeTurn(content, reply))

	return &assistantMsg, nil
}

func (s *ChatService) buildPrompt(ctx context.Context, userID, chatID uint, question string) string {
	var sb strings.Builder
	sb.WriteString("You are HealthMate, a supportive health-tracking assistant. ")
	sb.WriteString("Answer questions about the user's schedules, adherence, and readings. ")
	sb.WriteString("NEVER give medical advice or suggest changing medication; refer the user to their doctor instead.\n\n")

	if summary, err := s.report.AdherenceSummary(ctx, userID, adherence.PeriodWeekly, nil); err == nil {
		sb.WriteString(fmt.Sprintf("The user's adherence over the last 7 days: %.2f%% (%d of %d scheduled items completed).\n",
			summary.Percent, summary.TotalCompleted, summary.TotalScheduled))
	}

	if prev, ok := s.state.GetContext(userID, chatID); ok {
		sb.WriteString("Previous exchange:\n")
		sb.WriteString(prev)
		sb.WriteString("\n")
	}

	var history []database.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(recentMessagePairs * 2).
		Find(&history).Error; err == nil && len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for i := len(history) - 1; i >= 0; i-- {
			sb.WriteString(fmt.Sprintf("%s: %s\n", history[i].Role, history[i].Content))
		}
	}

	sb.WriteString("\nuser: ")
	sb.WriteString(question)
	sb.WriteString("\nassistant:")
	return sb.String()
}

func summarizeTurn(question, reply string) string {
	const maxLen = 500
	turn := "user: " + question + "\nassistant: " + reply
	if len(turn) > maxLen {
		turn = turn[:maxLen]
	}
	return turn
}
