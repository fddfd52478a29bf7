package interaction

// Типы входящих interactions
const (
	TypePing               = 1
	TypeApplicationCommand = 2
)

// Типы ответов
const (
	ResponsePong                     = 1
	ResponseChannelMessageWithSource = 4

	// FlagEphemeral - ответ видит только автор команды
	FlagEphemeral = 64
)

// Interaction - входящий webhook payload
type Interaction struct {
	Type      int          `json:"type"`
	Data      *CommandData `json:"data,omitempty"`
	ChannelID string       `json:"channel_id"`
	Member    *Member      `json:"member,omitempty"`
}

type CommandData struct {
	Name string `json:"name"`
}

type Member struct {
	User  MemberUser `json:"user"`
	Roles []string   `json:"roles"`
}

type MemberUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Response - ответ на interaction
type Response struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags,omitempty"`
}

func pong() Response {
	return Response{Type: ResponsePong}
}

func ephemeral(content string) Response {
	return Response{
		Type: ResponseChannelMessageWithSource,
		Data: &ResponseData{Content: content, Flags: FlagEphemeral},
	}
}
