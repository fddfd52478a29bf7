package interaction

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotConfigured - не заданы application id или guild id
var ErrNotConfigured = errors.New("discord application or guild is not configured")

// Registrar регистрирует slash-команды Commands в гильдии
type Registrar struct {
	logger        *zap.Logger
	writer        CommandWriter
	applicationID string
	guildID       string
}

// NewRegistrar создаёт Registrar
func NewRegistrar(logger *zap.Logger, writer CommandWriter, applicationID, guildID string) *Registrar {
	return &Registrar{
		logger:        logger,
		writer:        writer,
		applicationID: applicationID,
		guildID:       guildID,
	}
}

// Register перезаписывает команды гильдии и возвращает имена зарегистрированных команд
func (r *Registrar) Register(ctx context.Context) ([]string, error) {
	if r.applicationID == "" || r.guildID == "" {
		r.logger.Error("cannot register slash commands",
			zap.Bool("application_id_set", r.applicationID != ""),
			zap.Bool("guild_id_set", r.guildID != ""),
		)
		return nil, ErrNotConfigured
	}

	if err := r.writer.BulkOverwriteGuildCommands(ctx, r.applicationID, r.guildID, Commands); err != nil {
		return nil, fmt.Errorf("register slash commands: %w", err)
	}

	names := make([]string, 0, len(Commands))
	for _, c := range Commands {
		names = append(names, c.Name)
	}
	r.logger.Info("slash commands registered", zap.Strings("commands", names), zap.String("guild_id", r.guildID))
	return names, nil
}
