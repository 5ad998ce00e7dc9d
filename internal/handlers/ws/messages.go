package ws

import "encoding/json"

// Inbound message types.
const (
	msgJoin             = "join"
	msgLeave            = "leave"
	msgMove             = "move"
	msgTag              = "tag"
	msgChangeBackground = "changeBackground"
	msgChangeColor      = "changeColor"
	msgRedeemCode       = "redeemCode"
	msgGetProfile       = "getProfile"
)

// envelope is the inbound wire frame
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type movePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type tagPayload struct {
	TargetID string `json:"targetId"`
}

type changeBackgroundPayload struct {
	Image string `json:"image"`
}

type changeColorPayload struct {
	Color string `json:"color"`
}

type redeemCodePayload struct {
	Code string `json:"code"`
}
