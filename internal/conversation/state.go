package conversation

import "strings"

// Turn speakers as they appear in the model exchange history.
const (
	SpeakerCaller    = "caller"
	SpeakerAssistant = "assistant"
)

// Turn is a single utterance in the running exchange.
type Turn struct {
	Speaker string
	Text    string
}

// State is the in-memory record of one live call. Histories only grow while
// the call is active; nothing is persisted until the terminal status webhook
// arrives.
type State struct {
	CallID       string
	BusinessID   string
	CallRecordID string
	Voice        string

	// ModelContext is the system prompt assembled at call start. It is
	// fixed for the lifetime of the call.
	ModelContext string

	turns      []Turn
	transcript []string
	collected  map[string]any
}

func NewState(callID, businessID, callRecordID string) *State {
	return &State{
		CallID:       callID,
		BusinessID:   businessID,
		CallRecordID: callRecordID,
		collected:    map[string]any{},
	}
}

func (s *State) AppendCallerTurn(text string) {
	s.turns = append(s.turns, Turn{Speaker: SpeakerCaller, Text: text})
	s.transcript = append(s.transcript, "Caller: "+text)
}

func (s *State) AppendAssistantTurn(text string) {
	s.turns = append(s.turns, Turn{Speaker: SpeakerAssistant, Text: text})
	s.transcript = append(s.transcript, "AI: "+text)
}

// History returns a copy of the exchange so far, oldest first.
func (s *State) History() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Transcript renders the readable transcript, one line per utterance.
func (s *State) Transcript() string {
	return strings.Join(s.transcript, "\n")
}

// CallerText joins everything the caller said, for sentiment classification.
func (s *State) CallerText() string {
	var lines []string
	for _, t := range s.turns {
		if t.Speaker == SpeakerCaller {
			lines = append(lines, t.Text)
		}
	}
	return strings.Join(lines, " ")
}

// MergeCollected folds structured fields extracted by the model into the
// call's accumulated information.
func (s *State) MergeCollected(fields map[string]any) {
	for k, v := range fields {
		s.collected[k] = v
	}
}

// Collected returns a copy of the accumulated structured fields.
func (s *State) Collected() map[string]any {
	out := make(map[string]any, len(s.collected))
	for k, v := range s.collected {
		out[k] = v
	}
	return out
}
