package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/hh-export/internal/model"
)

const discordMaxChunk = 1900 // hard limit is 2000 per message

// DiscordWriter sends vacancies to a Discord channel via Webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (dw *DiscordWriter) WriteVacancies(vacancies []model.Vacancy) error {
	if len(vacancies) == 0 {
		return dw.send(NothingFound)
	}

	header := fmt.Sprintf("**Найдено вакансий: %d**\n\n", len(vacancies))
	entries := make([]string, len(vacancies))
	for i, v := range vacancies {
		entries[i] = formatDiscordVacancy(i+1, v)
	}

	for _, chunk := range chunkMessages(header, entries, discordMaxChunk) {
		if err := dw.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func formatDiscordVacancy(n int, v model.Vacancy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, v.Title)
	fmt.Fprintf(&b, "> Работодатель: %s\n", v.Employer)
	fmt.Fprintf(&b, "> Зарплата: %s\n", v.SalaryDisplay)
	fmt.Fprintf(&b, "> Город: %s\n", v.Area)
	if v.Schedule != "" && v.Schedule != model.NotSpecified {
		fmt.Fprintf(&b, "> График: %s\n", v.Schedule)
	}
	if v.Responsibility != "" {
		fmt.Fprintf(&b, "> %s\n", v.Responsibility)
	}
	if v.URL != "" {
		fmt.Fprintf(&b, "> [Открыть вакансию](%s)\n", v.URL)
	}
	b.WriteString("\n")
	return b.String()
}

// chunkMessages packs entries after header into messages no longer than limit bytes
// (a single oversized entry still gets its own message).
func chunkMessages(header string, entries []string, limit int) []string {
	var chunks []string
	var current strings.Builder
	current.WriteString(header)

	for _, entry := range entries {
		if current.Len() > 0 && current.Len()+len(entry) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) send(text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	resp, err := dw.client.Post(dw.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %v", resp.StatusCode, result["message"])
	}

	return nil
}
