package models

import "encoding/json"

type FormatKind string

const (
	FormatSwiss      FormatKind = "swiss"
	FormatRoundRobin FormatKind = "round_robin"
)

// SwissSettings is the optional settings_json payload of a Swiss tournament.
type SwissSettings struct {
	MaxRounds int `json:"max_rounds"`
}

// ParseSwissSettings decodes raw settings. Empty input yields zero settings.
func ParseSwissSettings(raw *string) (*SwissSettings, error) {
	settings := &SwissSettings{}
	if raw == nil || *raw == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(*raw), settings); err != nil {
		return nil, err
	}
	if settings.MaxRounds < 0 {
		settings.MaxRounds = 0
	}
	return settings, nil
}
