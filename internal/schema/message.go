package schema

// Message is one entry in the prompt sent to the LLM.
//
// Role is one of: "system", "user", "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages is the ordered list of messages exchanged with the LLM.
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
	mh.Messages = append(mh.Messages, Message{Role: "system", Content: content})
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, Message{Role: "user", Content: content})
}

// AddAssistant appends an assistant message.
func (mh *Messages) AddAssistant(content string) {
	mh.Messages = append(mh.Messages, Message{Role: "assistant", Content: content})
}

// Clone returns a deep copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}

func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
