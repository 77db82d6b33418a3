package conversation

import "context"

// Action is what the model decided the platform should do after a turn.
// It is a closed set: the orchestrator switches over every variant.
type Action interface {
	isAction()
}

// ActionNone continues the conversation with another listening round.
type ActionNone struct{}

// ActionScheduleAppointment books an appointment from the collected fields.
type ActionScheduleAppointment struct {
	Fields map[string]any
}

// ActionTransferCall hands the caller to a human line.
type ActionTransferCall struct {
	Reason string
}

// ActionEndCall closes the call after a goodbye.
type ActionEndCall struct {
	Summary string
}

func (ActionNone) isAction()                {}
func (ActionScheduleAppointment) isAction() {}
func (ActionTransferCall) isAction()        {}
func (ActionEndCall) isAction()             {}

// Reply is the model's answer for one caller turn. Text is always
// speakable: when the model call failed, Text carries an apology, Action
// requests a transfer, and Err retains the underlying failure for logs.
// Err is diagnostic only and is never surfaced to the caller.
type Reply struct {
	Text   string
	Action Action
	Err    error
}

// ModelClient generates the receptionist's side of the conversation.
// Implementations must not return errors from Respond: every failure mode
// is recovered into a speakable fallback Reply.
type ModelClient interface {
	Respond(ctx context.Context, systemPrompt string, history []Turn, collected map[string]any) Reply
	Summarize(ctx context.Context, history []Turn) string
	AnalyzeSentiment(ctx context.Context, text string) string
}
