package protocol

import "encoding/json"

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	Controller      bool        `json:"controller"`
	WorldParams     WorldParams `json:"world_params"`
	Digests         Digests     `json:"digests"`
}

type WorldParams struct {
	TickRateHz   int `json:"tick_rate_hz"`
	TileSize     int `json:"tile_size"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	BedrockStart int `json:"bedrock_start"`
}

type Digests struct {
	RecipesDigest string `json:"recipes_digest"`
	TuningDigest  string `json:"tuning_digest"`
}

// INPUT (client -> server): the full held control state. Craft is a one-shot
// request ("stone", "iron" or empty).
type InputMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Axis            int     `json:"axis"`
	Jump            bool    `json:"jump,omitempty"`
	MouseX          float64 `json:"mouse_x"`
	MouseY          float64 `json:"mouse_y"`
	MouseDown       bool    `json:"mouse_down,omitempty"`
	Craft           string  `json:"craft,omitempty"`
	CraftPanel      bool    `json:"craft_panel,omitempty"`
}

// START (client -> server): begin or restart a round.
type StartMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// STATE (server -> client): the text snapshot after a tick.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Tick            uint64          `json:"tick"`
	State           json.RawMessage `json:"state"`
}

type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

func NewError(code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: message}
}
