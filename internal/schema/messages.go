package schema

// Messages is the ordered, append-only context of one turn.
// It owns typed append methods so callers never construct raw maps.
type Messages struct {
	Messages []Message
}

// NewMessages returns a Messages initialised with the given messages.
// Called with no arguments it returns an empty Messages ready for use.
func NewMessages(msgs ...Message) Messages {
	if len(msgs) == 0 {
		return Messages{Messages: make([]Message, 0)}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Messages{Messages: out}
}

// AddSystem appends a system message.
func (mh *Messages) AddSystem(content string) {
	mh.Messages = append(mh.Messages, NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, NewUserMessage(content))
}

// AddAssistant appends an assistant message.
func (mh *Messages) AddAssistant(content string) {
	mh.Messages = append(mh.Messages, NewAssistantMessage(content))
}

// AddToolResult appends a tool-result message.
func (mh *Messages) AddToolResult(toolName, result string) {
	mh.Messages = append(mh.Messages, NewToolResultMessage(toolName, result))
}

// Clone returns a copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}
