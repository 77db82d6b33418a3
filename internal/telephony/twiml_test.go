package telephony

import (
	"strings"
	"testing"
)

var builder = ResponseBuilder{
	InputAction: "/webhooks/twilio/handle-input",
	EntryPoint:  "/webhooks/twilio/voice",
}

func TestGatherListensThenRedirects(t *testing.T) {
	out, err := builder.Gather("nova", "How may I help you?")
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, want := range []string{
		`<Gather input="speech" action="/webhooks/twilio/handle-input" method="POST" speechTimeout="auto" language="en-US">`,
		`<Say voice="Polly.Salli">How may I help you?</Say>`,
		`<Say voice="Polly.Salli">` + gatherFallbackMessage + `</Say>`,
		`<Redirect method="POST">/webhooks/twilio/voice</Redirect>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	// The fallback must come after the gather so it only plays on timeout.
	if strings.Index(out, "</Gather>") > strings.Index(out, "<Redirect") {
		t.Errorf("redirect rendered inside gather:\n%s", out)
	}
}

func TestGatherRequiresEndpoints(t *testing.T) {
	if _, err := (ResponseBuilder{}).Gather("nova", "hi"); err == nil {
		t.Fatalf("expected error for unconfigured endpoints")
	}
}

func TestEndSpeaksThenHangsUp(t *testing.T) {
	out, err := builder.End("alloy", "Goodbye!")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if !strings.Contains(out, `<Say voice="Polly.Joanna">Goodbye!</Say>`) {
		t.Errorf("missing say:\n%s", out)
	}
	if !strings.Contains(out, "<Hangup") {
		t.Errorf("missing hangup:\n%s", out)
	}
	if strings.Contains(out, "<Gather") {
		t.Errorf("end response must not listen:\n%s", out)
	}
}

func TestTransferDialsNumber(t *testing.T) {
	out, err := builder.Transfer("echo", "+15550009999", "Transferring you now.")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !strings.Contains(out, `<Say voice="Polly.Matthew">Transferring you now.</Say>`) {
		t.Errorf("missing preamble:\n%s", out)
	}
	if !strings.Contains(out, "<Dial>+15550009999</Dial>") {
		t.Errorf("missing dial:\n%s", out)
	}
}

func TestTransferRequiresNumber(t *testing.T) {
	if _, err := builder.Transfer("echo", "  ", "hold"); err == nil {
		t.Fatalf("expected error for empty number")
	}
}

func TestVoicemailRecordsAfterGreeting(t *testing.T) {
	out, err := builder.Voicemail("shimmer", "Please leave a message after the tone.", "/webhooks/twilio/recording")
	if err != nil {
		t.Fatalf("Voicemail: %v", err)
	}
	if !strings.Contains(out, `<Say voice="Polly.Kimberly">Please leave a message after the tone.</Say>`) {
		t.Errorf("missing greeting:\n%s", out)
	}
	if !strings.Contains(out, `<Record action="/webhooks/twilio/recording" method="POST" maxLength="120" transcribe="true">`) {
		t.Errorf("missing record verb:\n%s", out)
	}
	if strings.Index(out, "<Say") > strings.Index(out, "<Record") {
		t.Errorf("record must follow the greeting:\n%s", out)
	}
}

func TestVoicemailRequiresCallback(t *testing.T) {
	if _, err := builder.Voicemail("shimmer", "hi", "  "); err == nil {
		t.Fatalf("expected error for empty recording callback")
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	out, err := builder.End("alloy", `Visit us at "Main & 5th" <today>`)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if !strings.Contains(out, "Main &amp; 5th") || strings.Contains(out, "<today>") {
		t.Errorf("unescaped content:\n%s", out)
	}
}

func TestPollyVoice(t *testing.T) {
	cases := map[string]string{
		"alloy":   "Polly.Joanna",
		"echo":    "Polly.Matthew",
		"fable":   "Polly.Amy",
		"onyx":    "Polly.Brian",
		"nova":    "Polly.Salli",
		"shimmer": "Polly.Kimberly",
		"ALLOY":   "Polly.Joanna",
		"":        "Polly.Joanna",
		"unknown": "Polly.Joanna",
	}
	for in, want := range cases {
		if got := PollyVoice(in); got != want {
			t.Errorf("PollyVoice(%q) = %q, want %q", in, got, want)
		}
	}
}
