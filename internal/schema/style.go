package schema

// SpeechStyle selects how spoken output is rendered.
type SpeechStyle int

const (
	// StyleNormal renders speech with the configured natural voice.
	StyleNormal SpeechStyle = iota
	// StyleRobotic renders speech with the flat synthetic "robospeak" voice.
	StyleRobotic
)

func (s SpeechStyle) String() string {
	if s == StyleRobotic {
		return "robotic"
	}
	return "normal"
}
