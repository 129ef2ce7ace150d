package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventCatalogImported 在命令行导入完成后发布。
const EventCatalogImported = "catalog.imported"

// CatalogEvent 是目录事件主题上的消息体。
type CatalogEvent struct {
	Type   string    `json:"type"`
	Genres int       `json:"genres"`
	Actors int       `json:"actors"`
	Movies int       `json:"movies"`
	At     time.Time `json:"at"`
}

func (e CatalogEvent) encode() ([]byte, error) {
	return json.Marshal(e)
}

func decode(data []byte) (CatalogEvent, error) {
	var e CatalogEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return CatalogEvent{}, fmt.Errorf("invalid catalog event: %w", err)
	}
	if e.Type == "" {
		return CatalogEvent{}, fmt.Errorf("invalid catalog event: missing type")
	}
	return e, nil
}
