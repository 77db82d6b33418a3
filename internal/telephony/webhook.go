package telephony

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Webhook form parsing. Twilio posts application/x-www-form-urlencoded;
// these capture only the fields the voice surface consumes.
//
// Business logic is not made here; forms map one-to-one onto orchestrator
// inputs.

var ErrMissingCallID = errors.New("telephony: CallSid is required")

type CallStartForm struct {
	CallID string
	From   string
	To     string
}

func ParseCallStart(r *http.Request) (CallStartForm, error) {
	if err := r.ParseForm(); err != nil {
		return CallStartForm{}, err
	}
	f := CallStartForm{
		CallID: r.PostFormValue("CallSid"),
		From:   normalizePhone(r.PostFormValue("From")),
		To:     normalizePhone(r.PostFormValue("To")),
	}
	if f.CallID == "" {
		return CallStartForm{}, ErrMissingCallID
	}
	return f, nil
}

type SpeechTurnForm struct {
	CallID     string
	SpeechText string
}

func ParseSpeechTurn(r *http.Request) (SpeechTurnForm, error) {
	if err := r.ParseForm(); err != nil {
		return SpeechTurnForm{}, err
	}
	f := SpeechTurnForm{
		CallID:     r.PostFormValue("CallSid"),
		SpeechText: strings.TrimSpace(r.PostFormValue("SpeechResult")),
	}
	if f.CallID == "" {
		return SpeechTurnForm{}, ErrMissingCallID
	}
	return f, nil
}

type StatusForm struct {
	CallID          string
	Status          string
	DurationSeconds int
}

func ParseStatus(r *http.Request) (StatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusForm{}, err
	}
	f := StatusForm{
		CallID: r.PostFormValue("CallSid"),
		Status: strings.ToLower(strings.TrimSpace(r.PostFormValue("CallStatus"))),
	}
	if f.CallID == "" {
		return StatusForm{}, ErrMissingCallID
	}
	// CallDuration is absent on non-terminal callbacks; treat garbage as zero.
	if d := r.PostFormValue("CallDuration"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n >= 0 {
			f.DurationSeconds = n
		}
	}
	return f, nil
}

func normalizePhone(s string) string {
	// Twilio sometimes sends "anonymous" or empty; keep as-is.
	return strings.TrimSpace(s)
}
