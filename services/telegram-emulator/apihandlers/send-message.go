package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var invalidFilenameChars = regexp.MustCompile(`[\/\\:?"<>|\s]`)

func (h *HttpEndpoints) AddRoutes(rg *gin.RouterGroup) {
	// Bot API paths look like /bot<token>/sendMessage
	rg.POST("/:bot/sendMessage", h.sendMessage)
}

type SendMessageReq struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func apiError(c *gin.Context, status int, description string) {
	c.JSON(status, gin.H{
		"ok":          false,
		"error_code":  status,
		"description": description,
	})
}

func (h *HttpEndpoints) hasValidToken(botParam string) bool {
	token, ok := strings.CutPrefix(botParam, "bot")
	if !ok || token == "" {
		return false
	}
	return slices.Contains(h.botTokens, token)
}

// saveMessage writes the text into <messagesDir>/<chatID>/ and returns the file path.
func (h *HttpEndpoints) saveMessage(req SendMessageReq, messageID int64) (string, error) {
	folderPath := filepath.Join(h.messagesDir, invalidFilenameChars.ReplaceAllString(req.ChatID, "_"))
	if err := os.MkdirAll(folderPath, os.ModePerm); err != nil {
		return "", err
	}

	filePath := getUniqueFilePath(folderPath, time.Now().Format("20060102_150405")+"_"+strconv.FormatInt(messageID, 10))
	if err := os.WriteFile(filePath, []byte(req.Text), 0644); err != nil {
		return "", err
	}
	return filePath, nil
}

// returns a unique file path, appending a counter if needed.
func getUniqueFilePath(folderPath, baseName string) string {
	filePath := filepath.Join(folderPath, baseName+".html")
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
			return filePath
		}
		filePath = filepath.Join(folderPath, baseName+"_"+strconv.Itoa(counter)+".html")
	}
}

func (h *HttpEndpoints) sendMessage(c *gin.Context) {
	if !h.hasValidToken(c.Param("bot")) {
		slog.Warn("message with unknown bot token")
		apiError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apiError(c, http.StatusBadRequest, "Bad Request: "+err.Error())
		return
	}
	if req.ChatID == "" {
		apiError(c, http.StatusBadRequest, "Bad Request: chat_id is empty")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apiError(c, http.StatusBadRequest, "Bad Request: message text is empty")
		return
	}

	messageID := h.lastID.Add(1)
	filePath, err := h.saveMessage(req, messageID)
	if err != nil {
		slog.Error("message could not be saved", slog.String("chatID", req.ChatID), slog.String("error", err.Error()))
		apiError(c, http.StatusInternalServerError, "Internal Server Error: message could not be saved")
		return
	}

	slog.Info("message saved", slog.String("chatID", req.ChatID), slog.Int64("messageID", messageID), slog.String("file", filePath))
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"result": gin.H{
			"message_id": messageID,
			"chat":       gin.H{"id": req.ChatID},
			"date":       time.Now().Unix(),
			"text":       req.Text,
		},
	})
}
