package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shestoi/rivalsyndicate/internal/rates"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/service"
)

// CreateOrderRequest - тело POST /api/orders
type CreateOrderRequest struct {
	ServiceType    string          `json:"service_type"`
	CharacterID    string          `json:"character_id"`
	CharacterName  string          `json:"character_name"`
	CharacterClass string          `json:"character_class"`
	CharacterIcon  *string         `json:"character_icon"`
	Price          decimal.Decimal `json:"price"`
	PaymentMethod  string          `json:"payment_method"`
}

// UpdateOrderRequest - тело PATCH /api/orders/{id}; отсутствующие поля не меняются
type UpdateOrderRequest struct {
	Status    *string `json:"status"`
	Progress  *int    `json:"progress"`
	Notes     *string `json:"notes"`
	ETA       *string `json:"eta"`
	BoosterID *string `json:"booster_id"`
}

// UpdateRoleRequest - тело PATCH /api/users/{id}/role
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// OrderResponse - заказ в ответах API
type OrderResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	DiscordUsername   string    `json:"discord_username"`
	ServiceType       string    `json:"service_type"`
	CharacterID       string    `json:"character_id"`
	CharacterName     string    `json:"character_name"`
	CharacterClass    string    `json:"character_class"`
	CharacterIcon     *string   `json:"character_icon"`
	Status            string    `json:"status"`
	BoosterID         *string   `json:"booster_id"`
	BoosterUsername   *string   `json:"booster_username"`
	Progress          int       `json:"progress"`
	Price             float64   `json:"price"`
	PaymentMethod     string    `json:"payment_method"`
	Notes             string    `json:"notes"`
	ETA               string    `json:"eta"`
	TicketChannelID   *string   `json:"ticket_channel_id"`
	TicketChannelName *string   `json:"ticket_channel_name"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrderPage - ответ GET /api/admin/orders
type OrderPage struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Pages  int             `json:"pages"`
}

// UserResponse - пользователь в ответах API (email не отдаётся)
type UserResponse struct {
	ID        string    `json:"id"`
	DiscordID string    `json:"discord_id"`
	Username  string    `json:"username"`
	Avatar    *string   `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// BoosterResponse - элемент GET /api/admin/boosters
type BoosterResponse struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Avatar          *string `json:"avatar"`
	Role            string  `json:"role"`
	OrdersCompleted int     `json:"orders_completed"`
}

// LoginResponse - ответ callback, когда FRONTEND_URL не задан
type LoginResponse struct {
	Success     bool         `json:"success"`
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

// StatsResponse - ответ GET /api/stats
type StatsResponse struct {
	OrdersCompleted int `json:"ordersCompleted"`
	DiscordMembers  int `json:"discordMembers"`
	OnlineMembers   int `json:"onlineMembers"`
	ActiveBoosters  int `json:"activeBoosters"`
}

// VouchAuthorResponse - автор отзыва
type VouchAuthorResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// VouchResponse - элемент GET /api/vouches
type VouchResponse struct {
	ID          string              `json:"id"`
	Content     string              `json:"content"`
	Author      VouchAuthorResponse `json:"author"`
	Timestamp   string              `json:"timestamp"`
	Attachments []string            `json:"attachments"`
}

// RatesResponse - ответ GET /api/rates
type RatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt *time.Time         `json:"updated_at"`
	Source    string             `json:"source"`
}

// MessageResponse - простой ответ об успешном действии
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toOrderResponse(o repository.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		DiscordUsername:   o.DiscordUsername,
		ServiceType:       string(o.ServiceType),
		CharacterID:       o.CharacterID,
		CharacterName:     o.CharacterName,
		CharacterClass:    string(o.CharacterClass),
		Status:            string(o.Status),
		BoosterID:         o.BoosterID,
		BoosterUsername:   o.BoosterUsername,
		Progress:          o.Progress,
		Price:             o.Price.InexactFloat64(),
		PaymentMethod:     o.PaymentMethod,
		Notes:             o.Notes,
		ETA:               o.ETA,
		TicketChannelID:   o.TicketChannelID,
		TicketChannelName: o.TicketChannelName,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.CharacterIcon != "" {
		icon := o.CharacterIcon
		resp.CharacterIcon = &icon
	}
	return resp
}

func toOrderResponses(orders []repository.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toOrderPage(page *service.ListOrdersOutput) OrderPage {
	return OrderPage{
		Orders: toOrderResponses(page.Orders),
		Total:  page.Total,
		Page:   page.Page,
		Limit:  page.Limit,
		Pages:  page.Pages,
	}
}

func toUserResponse(u repository.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		DiscordID: u.DiscordID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []repository.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toBoosterResponses(staff []repository.StaffMember) []BoosterResponse {
	out := make([]BoosterResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, BoosterResponse{
			ID:              s.User.ID,
			Username:        s.User.Username,
			Avatar:          s.User.Avatar,
			Role:            string(s.User.Role),
			OrdersCompleted: s.CompletedOrders,
		})
	}
	return out
}

func toVouchResponses(vouches []service.Vouch) []VouchResponse {
	out := make([]VouchResponse, 0, len(vouches))
	for _, v := range vouches {
		attachments := v.Attachments
		if attachments == nil {
			attachments = []string{}
		}
		out = append(out, VouchResponse{
			ID:      v.ID,
			Content: v.Content,
			Author: VouchAuthorResponse{
				ID:       v.Author.ID,
				Username: v.Author.Username,
				Avatar:   v.Author.Avatar,
			},
			Timestamp:   v.Timestamp,
			Attachments: attachments,
		})
	}
	return out
}

func toRatesResponse(r rates.Rates) RatesResponse {
	resp := RatesResponse{
		Base:   r.Base,
		Rates:  r.Values,
		Source: string(r.Source),
	}
	if !r.UpdatedAt.IsZero() {
		updated := r.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
