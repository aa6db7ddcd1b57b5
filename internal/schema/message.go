// Package schema holds the types shared between the orchestration packages
// and the LLM and tool adapters.
package schema

// Role tags a message in the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the conversation context.
//
// ToolName is set on tool-role messages only; it is informational and some
// providers ignore it.
type Message struct {
	Role     Role
	Content  string
	ToolName string
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func NewToolResultMessage(toolName, result string) Message {
	return Message{Role: RoleTool, Content: result, ToolName: toolName}
}
