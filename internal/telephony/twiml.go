package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Language      string   `xml:"language,attr"`
	Say           twimlSay `xml:"Say"`
}

type twimlRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr"`
	URL     string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlDial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:",chardata"`
}

type twimlRecord struct {
	XMLName    xml.Name `xml:"Record"`
	Action     string   `xml:"action,attr"`
	Method     string   `xml:"method,attr"`
	MaxLength  int      `xml:"maxLength,attr"`
	Transcribe bool     `xml:"transcribe,attr"`
}

// pollyVoices maps the dashboard's voice names to the provider's TTS voices.
var pollyVoices = map[string]string{
	"alloy":   "Polly.Joanna",
	"echo":    "Polly.Matthew",
	"fable":   "Polly.Amy",
	"onyx":    "Polly.Brian",
	"nova":    "Polly.Salli",
	"shimmer": "Polly.Kimberly",
}

const defaultPollyVoice = "Polly.Joanna"

// PollyVoice resolves a configured voice name to the provider voice,
// falling back to the default for unknown or empty names.
func PollyVoice(name string) string {
	if v, ok := pollyVoices[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v
	}
	return defaultPollyVoice
}

// ResponseBuilder renders the voice directives the webhooks answer with.
// InputAction receives gathered speech; EntryPoint is redirected to when a
// gather times out with nothing said.
type ResponseBuilder struct {
	InputAction string
	EntryPoint  string
}

const gatherFallbackMessage = "Are you still there?"

// Gather speaks a message and listens for the caller's reply. If nothing is
// heard the caller is re-prompted and redirected to the entry point rather
// than dropped.
func (b ResponseBuilder) Gather(voice, message string) (string, error) {
	if b.InputAction == "" || b.EntryPoint == "" {
		return "", errors.New("telephony: gather endpoints not configured")
	}
	v := PollyVoice(voice)
	return render(twimlResponse{Verbs: []any{
		twimlGather{
			Input:         "speech",
			Action:        b.InputAction,
			Method:        "POST",
			SpeechTimeout: "auto",
			Language:      "en-US",
			Say:           twimlSay{Voice: v, Text: message},
		},
		twimlSay{Voice: v, Text: gatherFallbackMessage},
		twimlRedirect{Method: "POST", URL: b.EntryPoint},
	}})
}

// End speaks a goodbye and hangs up.
func (b ResponseBuilder) End(voice, message string) (string, error) {
	return render(twimlResponse{Verbs: []any{
		twimlSay{Voice: PollyVoice(voice), Text: message},
		twimlHangup{},
	}})
}

const voicemailMaxSeconds = 120

// Voicemail invites the caller to leave a message and records it. The
// recording (and its transcription) is posted to the callback when the
// caller hangs up.
func (b ResponseBuilder) Voicemail(voice, message, recordingCallback string) (string, error) {
	if strings.TrimSpace(recordingCallback) == "" {
		return "", errors.New("telephony: recording callback required")
	}
	return render(twimlResponse{Verbs: []any{
		twimlSay{Voice: PollyVoice(voice), Text: message},
		twimlRecord{
			Action:     recordingCallback,
			Method:     "POST",
			MaxLength:  voicemailMaxSeconds,
			Transcribe: true,
		},
	}})
}

// Transfer speaks a preamble and dials the human line.
func (b ResponseBuilder) Transfer(voice, number, preamble string) (string, error) {
	if strings.TrimSpace(number) == "" {
		return "", errors.New("telephony: transfer number required")
	}
	return render(twimlResponse{Verbs: []any{
		twimlSay{Voice: PollyVoice(voice), Text: preamble},
		twimlDial{Number: number},
	}})
}

func render(r twimlResponse) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
