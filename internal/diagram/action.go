// Package diagram holds the domain model for voice-driven diagram editing:
// the action types the front-end understands, the normalizer that turns
// weakly-shaped model replies into well-formed action lists, the agent that
// drives the language model, and the sink the front-end polls.
package diagram

import "time"

// ActionType enumerates the diagram edit instructions.
type ActionType string

const (
	ActionCreateNode ActionType = "create_node"
	ActionDeleteNode ActionType = "delete_node"
	ActionRenameNode ActionType = "rename_node"
	ActionCreateEdge ActionType = "create_edge"
	ActionDeleteEdge ActionType = "delete_edge"
	ActionAddLabel   ActionType = "add_label"
	ActionSuggestion ActionType = "suggestion"
)

// NodeType enumerates node kinds; meaningful only for create_node actions.
type NodeType string

const (
	NodeService  NodeType = "service"
	NodeDatabase NodeType = "database"
	NodeGateway  NodeType = "gateway"
	NodeQueue    NodeType = "queue"
	NodeUser     NodeType = "user"
	NodeGeneric  NodeType = "generic"
)

// Action is one structured edit instruction for the node/edge graph.
// All fields besides Type are optional; absence means "not applicable to
// this action type". A referenced node that does not exist is synthesized
// by the downstream consumer, so no referential integrity is enforced here.
type Action struct {
	Type     ActionType `json:"type"`
	ID       string     `json:"id,omitempty"`
	From     string     `json:"from,omitempty"`
	To       string     `json:"to,omitempty"`
	Text     string     `json:"text,omitempty"`
	NodeType NodeType   `json:"node_type,omitempty"`
}

// ActionBatch is the single persisted record combining a transcript and its
// derived actions. A fresh batch is constructed on every successful request
// and overwrites the previous one; there is no history.
type ActionBatch struct {
	ID      int64    `json:"id"`
	Message string   `json:"message"`
	Actions []Action `json:"actions,omitempty"`
}

// NewActionBatch builds a batch stamped with the current millisecond time.
// A nil or empty actions slice produces a message-only record (the actions
// key is omitted from the JSON encoding).
func NewActionBatch(message string, actions []Action) ActionBatch {
	return ActionBatch{
		ID:      time.Now().UnixMilli(),
		Message: message,
		Actions: actions,
	}
}
