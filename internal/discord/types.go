package discord

import "fmt"

// Типы каналов и overwrites Discord API
const (
	ChannelTypeText = 0

	OverwriteTypeRole   = 0
	OverwriteTypeMember = 1

	// PermissionViewChannel - бит VIEW_CHANNEL (1 << 10)
	PermissionViewChannel = "1024"

	// Код ошибки "Unknown Channel"
	CodeUnknownChannel = 10003
)

// PermissionOverwrite задаёт права роли или участника на канале
type PermissionOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

// CreateChannelParams - тело запроса на создание канала в гильдии
type CreateChannelParams struct {
	Name                 string                `json:"name"`
	Type                 int                   `json:"type"`
	ParentID             string                `json:"parent_id,omitempty"`
	Topic                string                `json:"topic,omitempty"`
	PermissionOverwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
}

// Channel - канал Discord
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Embed - форматированный блок сообщения
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// MessageParams - тело запроса на отправку сообщения
type MessageParams struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// User - пользователь Discord
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
}

// AvatarURL возвращает ссылку на аватар в CDN или пустую строку
func (u User) AvatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
}

type Attachment struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Message - сообщение в канале
type Message struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channel_id,omitempty"`
	Content     string       `json:"content"`
	Author      User         `json:"author"`
	Timestamp   string       `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Member - участник гильдии
type Member struct {
	User  User     `json:"user"`
	Roles []string `json:"roles"`
}

// HasRole проверяет наличие роли у участника
func (m Member) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// Guild - метаданные гильдии с приблизительными счётчиками
type Guild struct {
	ID                       string `json:"id"`
	Name                     string `json:"name"`
	Icon                     string `json:"icon,omitempty"`
	ApproximateMemberCount   int    `json:"approximate_member_count"`
	ApproximatePresenceCount int    `json:"approximate_presence_count"`
}

// Command - описание slash-команды
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int    `json:"type,omitempty"`
}

// APIError - ответ Discord с не-успешным статусом
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("discord API status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("discord API status %d: %s", e.StatusCode, e.Message)
}
