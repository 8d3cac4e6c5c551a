package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

// ExportService writes a channel's full message history for compliance
// exports. Site admin only.
type ExportService struct {
	channels database.ChannelRepository
	dms      database.DMChannelRepository
	messages database.MessageRepository
}

func NewExportService(channels database.ChannelRepository, dms database.DMChannelRepository, messages database.MessageRepository) *ExportService {
	return &ExportService{channels: channels, dms: dms, messages: messages}
}

var csvExportHeader = []string{"id", "channel_id", "author", "created_at", "edited", "content", "mentions"}

// Export writes the channel's messages to w in the requested format,
// oldest first. Supported formats are "json" and "csv".
func (s *ExportService) Export(ctx context.Context, channelID int64, format string, w io.Writer) error {
	switch format {
	case "json", "csv":
	default:
		return BadRequest("INVALID_FORMAT", "format must be json or csv")
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("DB_ERROR", "failed to export channel")
	}
	if channel == nil {
		dm, err := s.dms.GetByID(ctx, channelID)
		if err != nil {
			return Internal("DB_ERROR", "failed to export channel")
		}
		if dm == nil {
			return NotFound("CHANNEL_NOT_FOUND", "channel not found")
		}
	}

	messages, err := s.messages.GetAllByChannelID(ctx, channelID)
	if err != nil {
		slog.Error("failed to load messages for export", "channelID", channelID, "error", err)
		return Internal("DB_ERROR", "failed to export channel")
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(messages); err != nil {
			return Internal("ENCODE_ERROR", "failed to write export")
		}
		return nil
	}
	return s.writeCSV(w, messages)
}

func (s *ExportService) writeCSV(w io.Writer, messages []models.MessageWithAuthor) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvExportHeader); err != nil {
		return Internal("ENCODE_ERROR", "failed to write export")
	}

	for _, msg := range messages {
		names := make([]string, 0, len(msg.Mentions))
		for _, m := range msg.Mentions {
			names = append(names, m.DisplayName)
		}
		record := []string{
			snowflake.ID(msg.ID).String(),
			snowflake.ID(msg.ChannelID).String(),
			msg.AuthorUsername,
			msg.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			strconv.FormatBool(msg.EditedAt != nil),
			msg.Content,
			strings.Join(names, ";"),
		}
		if err := cw.Write(record); err != nil {
			return Internal("ENCODE_ERROR", "failed to write export")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return Internal("ENCODE_ERROR", "failed to write export")
	}
	return nil
}
