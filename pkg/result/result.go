package result

import "encoding/json"

type state int

const (
	absent state = iota
	succeeded
	failed
)

// Result is the recorded outcome of one pipeline stage.
// A failed result carries a message for diagnostics but no payload,
// so readers see it exactly like a stage that never ran.
type Result struct {
	payload any
	message string
	state   state
}

// Success records a stage payload. The payload is arbitrary structured
// data, typically what json decoding produced for the stage output.
func Success(payload any) Result {
	return Result{payload: payload, state: succeeded}
}

// Failed records a stage failure with a diagnostic message.
func Failed(message string) Result {
	return Result{message: message, state: failed}
}

// Succeeded is false for both failed and absent results.
func (r Result) Succeeded() bool {
	return r.state == succeeded
}

// Payload returns the stage output, or nil unless the stage succeeded.
func (r Result) Payload() any {
	if r.state != succeeded {
		return nil
	}
	return r.payload
}

// resultJSON is the persisted form, either {"result": ...} or {"error": "..."}.
type resultJSON struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *string         `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.state == failed {
		return json.Marshal(resultJSON{Error: &r.message})
	}
	raw, err := json.Marshal(r.payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resultJSON{Result: raw})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var aux resultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Error != nil {
		*r = Failed(*aux.Error)
		return nil
	}
	var payload any
	if len(aux.Result) > 0 {
		if err := json.Unmarshal(aux.Result, &payload); err != nil {
			return err
		}
	}
	*r = Success(payload)
	return nil
}
