package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"airwatch/internal/models"
)

// document ответ источника: {"channel": {...}, "feeds": [...]}
type document struct {
	Channel json.RawMessage   `json:"channel"`
	Feeds   []json.RawMessage `json:"feeds"`
}

// DecodeFeed разбирает документ фида.
// Записи без целого entry_id отбрасываются, остальные поля не проверяются:
// это работа нормализатора.
func DecodeFeed(body []byte) (models.Feed, error) {
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.Feed{}, fmt.Errorf("decode feed document: %w", err)
	}

	channel, err := decodeChannel(doc.Channel)
	if err != nil {
		return models.Feed{}, fmt.Errorf("decode channel: %w", err)
	}

	entries := make([]models.RawFeedEntry, 0, len(doc.Feeds))
	for i, raw := range doc.Feeds {
		entry, err := decodeEntry(raw)
		if err != nil {
			log.Printf("Dropping feed entry #%d: %v", i, err)
			continue
		}
		entries = append(entries, entry)
	}

	return models.Feed{Entries: entries, Channel: channel}, nil
}

func decodeEntry(raw json.RawMessage) (models.RawFeedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return models.RawFeedEntry{}, err
	}
	if fields == nil {
		return models.RawFeedEntry{}, fmt.Errorf("entry is null")
	}

	num, ok := fields["entry_id"].(json.Number)
	if !ok {
		return models.RawFeedEntry{}, fmt.Errorf("entry_id missing or not a number")
	}
	id, err := num.Int64()
	if err != nil {
		return models.RawFeedEntry{}, fmt.Errorf("entry_id %q is not an integer", num)
	}

	var createdAt string
	switch v := fields["created_at"].(type) {
	case string:
		createdAt = v
	case nil:
	default:
		createdAt = fmt.Sprint(v)
	}

	delete(fields, "entry_id")
	delete(fields, "created_at")

	return models.RawFeedEntry{EntryID: id, CreatedAt: createdAt, Fields: fields}, nil
}

// decodeChannel сохраняет исходный порядок ключей канала
func decodeChannel(raw json.RawMessage) (models.ChannelMetadata, error) {
	channel := models.ChannelMetadata{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return channel, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("channel is not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected channel key %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("channel key %s: %w", key, err)
		}
		channel = append(channel, models.ChannelField{Key: key, Value: channelValue(value)})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return channel, nil
}

func channelValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}
