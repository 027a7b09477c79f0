package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/gradient"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// collectionRecord is the row layout of a persisted collection. Icons are kept
// as one JSON document so the record shape matches the exported wire format.
type collectionRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"not null"`
	Icons     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (collectionRecord) TableName() string {
	return "user_icon_collections"
}

func toRecord(c icon.Collection) (collectionRecord, error) {
	icons, err := encodeIcons(c.Icons)
	if err != nil {
		return collectionRecord{}, err
	}
	return collectionRecord{ID: c.ID, Name: c.Name, Icons: icons}, nil
}

func (r collectionRecord) toCollection() (icon.Collection, bool, error) {
	icons, migrated, err := decodeIcons([]byte(r.Icons))
	if err != nil {
		return icon.Collection{}, false, fmt.Errorf("decode icons of collection %s: %w", r.ID, err)
	}
	return icon.Collection{ID: r.ID, Name: r.Name, Icons: icons}, migrated, nil
}

func encodeIcons(icons []icon.UserIcon) (string, error) {
	if icons == nil {
		icons = []icon.UserIcon{}
	}
	data, err := json.Marshal(icons)
	if err != nil {
		return "", fmt.Errorf("encode icons: %w", err)
	}
	return string(data), nil
}

// decodeIcons parses a JSON icon list. The boolean reports whether any icon
// carried a gradient in the legacy angle/cssStyle shape; such gradients are
// already converted in the returned icons.
func decodeIcons(data []byte) ([]icon.UserIcon, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []icon.UserIcon{}, false, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, err
	}

	icons := make([]icon.UserIcon, 0, len(raw))
	migrated := false
	for _, item := range raw {
		var u icon.UserIcon
		if err := json.Unmarshal(item, &u); err != nil {
			return nil, false, err
		}
		legacy, err := hasLegacyGradient(item)
		if err != nil {
			return nil, false, err
		}
		migrated = migrated || legacy
		icons = append(icons, u)
	}
	return icons, migrated, nil
}

func hasLegacyGradient(item json.RawMessage) (bool, error) {
	var shape struct {
		Gradient json.RawMessage `json:"gradient"`
	}
	if err := json.Unmarshal(item, &shape); err != nil {
		return false, err
	}
	if len(shape.Gradient) == 0 || string(shape.Gradient) == "null" {
		return false, nil
	}
	_, legacy, err := gradient.DecodeDescriptor(shape.Gradient)
	return legacy, err
}
