package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/hh-export/internal/model"
)

const (
	telegramAPI      = "https://api.telegram.org"
	telegramMaxChunk = 3800 // hard limit is 4096 per message
)

// TelegramWriter sends vacancies to a Telegram chat via the Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

func NewTelegramWriter(token, chatID string) *TelegramWriter {
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPI,
		client:  &http.Client{},
	}
}

func (tw *TelegramWriter) WriteVacancies(vacancies []model.Vacancy) error {
	if len(vacancies) == 0 {
		return tw.send(escapeMarkdown(NothingFound))
	}

	header := fmt.Sprintf("*Найдено вакансий: %d*\n\n", len(vacancies))
	entries := make([]string, len(vacancies))
	for i, v := range vacancies {
		entries[i] = formatTelegramVacancy(i+1, v)
	}

	for _, chunk := range chunkMessages(header, entries, telegramMaxChunk) {
		if err := tw.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func formatTelegramVacancy(n int, v model.Vacancy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(v.Title))
	fmt.Fprintf(&b, "Работодатель: %s\n", escapeMarkdown(v.Employer))
	fmt.Fprintf(&b, "Зарплата: %s\n", escapeMarkdown(v.SalaryDisplay))
	fmt.Fprintf(&b, "Город: %s\n", escapeMarkdown(v.Area))
	if v.PublishedDate != "" {
		fmt.Fprintf(&b, "Опубликовано: %s\n", escapeMarkdown(v.PublishedDate))
	}
	if v.Requirement != "" {
		fmt.Fprintf(&b, "_%s_\n", escapeMarkdown(v.Requirement))
	}
	if v.URL != "" {
		fmt.Fprintf(&b, "[Открыть вакансию](%s)\n", escapeLinkURL(v.URL))
	}
	b.WriteString("\n")
	return b.String()
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

// Inside a link target MarkdownV2 only reserves ')' and '\'.
var linkURLReplacer = strings.NewReplacer(`\`, `\\`, ")", `\)`)

func escapeLinkURL(u string) string {
	return linkURLReplacer.Replace(u)
}

func (tw *TelegramWriter) send(text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", tw.apiBase, tw.token)

	payload := map[string]string{
		"chat_id":    tw.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	resp, err := tw.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %v", resp.StatusCode, result["description"])
	}

	return nil
}
